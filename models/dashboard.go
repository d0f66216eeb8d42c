package models

// ============================================================================
// VIEW MODELS
// ============================================================================

type DateTimeFormats struct {
	DateTime string `json:"date_time"`
	DateDay  string `json:"date_day"`
	DateOnly string `json:"date_only"`
	TimeOnly string `json:"time_only"`
}

// TransactionRow is a transaction with every display value derived.
type TransactionRow struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         string          `json:"amount"`
	Direction      Direction       `json:"type"`
	TypeStyle      CategoryStyle   `json:"type_style"`
	Status         Status          `json:"status"`
	StatusStyle    CategoryStyle   `json:"status_style"`
	Category       string          `json:"category"`
	CategoryStyle  CategoryStyle   `json:"category_style"`
	PaymentChannel string          `json:"payment_channel"`
	Date           DateTimeFormats `json:"date"`
}

type TransactionDetail struct {
	TransactionRow
	AccountID      string `json:"account_id"`
	SenderBankID   string `json:"sender_bank_id"`
	ReceiverBankID string `json:"receiver_bank_id"`
	Image          string `json:"image"`
	CreatedAt      string `json:"created_at"`
}

type AccountsOverview struct {
	Accounts            []AccountSummary `json:"accounts"`
	TotalBanks          int              `json:"total_banks"`
	TotalCurrentBalance string           `json:"total_current_balance"`
}

type Dashboard struct {
	AccountsOverview
	LinkageID     string           `json:"linkage_id"`
	Account       AccountSummary   `json:"account"`
	Transactions  []TransactionRow `json:"transactions"`
	Page          int              `json:"page"`
	TotalPages    int              `json:"total_pages"`
	TopCategories []CategoryCount  `json:"top_categories"`
}

// ============================================================================
// RESOLUTION STATES
// ============================================================================

type ResolutionState string

const (
	ResolutionLoading  ResolutionState = "loading"
	ResolutionResolved ResolutionState = "resolved"
	ResolutionNotFound ResolutionState = "not_found"
	ResolutionFailed   ResolutionState = "failed"
)

// Resolution is the terminal state a view lands in after a lookup.
// Reason is set only for failed resolutions.
type Resolution struct {
	State  ResolutionState `json:"state"`
	Reason string          `json:"reason,omitempty"`
}
