package services

import "github.com/LovationAdmin/horizon-api/models"

// DefaultPageSize is the number of rows shown per transactions page.
const DefaultPageSize = 10

// Paginate returns the requested page of transactions. Out-of-range pages are
// clamped to the nearest valid page and an empty list still has one (empty)
// page. The window is recomputed from the full list on every call.
func Paginate(transactions []models.Transaction, pageSize, page int) models.PaginationWindow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (len(transactions) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	start := min((page-1)*pageSize, len(transactions))
	end := min(start+pageSize, len(transactions))

	return models.PaginationWindow{
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		Transactions: transactions[start:end:end],
	}
}
