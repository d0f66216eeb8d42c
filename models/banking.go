package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankLink is one linked provider account owned by a user. Its ID is the
// linkage identifier handed to clients; ItemID and AccountID address the
// account at the provider. The access token never leaves the service.
type BankLink struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ItemID      string    `json:"item_id"`
	AccountID   string    `json:"account_id"`
	AccessToken string    `json:"-"`
	ShareableID string    `json:"shareable_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type AccountSummary struct {
	ID               string          `json:"id"`
	LinkageID        string          `json:"linkage_id"`
	UserID           string          `json:"user_id"`
	InstitutionID    string          `json:"institution_id"`
	Name             string          `json:"name"`
	OfficialName     string          `json:"official_name"`
	Mask             string          `json:"mask"`
	Type             string          `json:"type"`
	Subtype          string          `json:"subtype"`
	Currency         string          `json:"currency"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	ShareableID      string          `json:"shareable_id"`
}

// Account is a summary plus its full transaction list, newest first.
type Account struct {
	AccountSummary
	Transactions []Transaction `json:"transactions"`
}

// Transfer is an internal movement between two linked banks.
type Transfer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Channel        string          `json:"channel"`
	Category       string          `json:"category"`
	SenderBankID   string          `json:"sender_bank_id"`
	ReceiverBankID string          `json:"receiver_bank_id"`
	Email          string          `json:"email"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ExchangeTokenRequest struct {
	PublicToken string `json:"public_token" binding:"required"`
}
