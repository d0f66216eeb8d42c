package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// TRANSACTION
// ============================================================================

type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
)

// StyleKey is the category registry key used to render a settlement badge.
func (s Status) StyleKey() string {
	if s == StatusPending {
		return "Processing"
	}
	return "Success"
}

// Transaction is a read-only projection of a provider transaction.
// Amount is always a non-negative magnitude; Direction carries the sign.
type Transaction struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      Direction       `json:"type"`
	Date           time.Time       `json:"date"`
	Category       string          `json:"category"`
	PaymentChannel string          `json:"payment_channel"`
	AccountID      string          `json:"account_id,omitempty"`
	SenderBankID   string          `json:"sender_bank_id,omitempty"`
	ReceiverBankID string          `json:"receiver_bank_id,omitempty"`
	Image          string          `json:"image,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ============================================================================
// DERIVED VALUES
// ============================================================================

type CategoryStyle struct {
	BorderColor         string `json:"border_color"`
	BackgroundColor     string `json:"background_color"`
	TextColor           string `json:"text_color"`
	ChipBackgroundColor string `json:"chip_background_color"`
}

type CategoryCount struct {
	Name       string        `json:"name"`
	Count      int           `json:"count"`
	Percentage int           `json:"percentage"`
	Style      CategoryStyle `json:"style"`
}

type PaginationWindow struct {
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	TotalPages   int           `json:"total_pages"`
	Transactions []Transaction `json:"transactions"`
}
