package services

import (
	"math"
	"sort"

	"github.com/LovationAdmin/horizon-api/models"
)

// UncategorizedCategory groups transactions that carry no category.
const UncategorizedCategory = "Uncategorized"

// CategoryName is the display name of a transaction's category.
func CategoryName(tx models.Transaction) string {
	if tx.Category == "" {
		return UncategorizedCategory
	}
	return tx.Category
}

// AggregateCategories counts transactions per category for the "top
// categories" view. Groups are ordered by count, largest first; equal counts
// keep the order in which the category first appeared.
func AggregateCategories(transactions []models.Transaction) []models.CategoryCount {
	counts := make(map[string]int)
	var order []string

	for _, tx := range transactions {
		name := CategoryName(tx)
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	result := make([]models.CategoryCount, 0, len(order))
	total := len(transactions)
	for _, name := range order {
		count := counts[name]
		result = append(result, models.CategoryCount{
			Name:       name,
			Count:      count,
			Percentage: percentage(count, total),
			Style:      StyleFor(name),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return result
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	p := int(math.Round(float64(count) / float64(total) * 100))
	return min(max(p, 0), 100)
}
