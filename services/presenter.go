package services

import (
	"time"

	"github.com/LovationAdmin/horizon-api/models"
	"github.com/shopspring/decimal"
)

// BuildTransactionRow derives every display value of a transaction. An empty
// category is shown under the same name the category totals use.
func BuildTransactionRow(tx models.Transaction, now time.Time) models.TransactionRow {
	status := ResolveStatus(tx.Date, now)
	return models.TransactionRow{
		ID:             tx.ID,
		Name:           SanitizeName(tx.Name),
		Amount:         FormatAmount(tx.Amount, tx.Direction),
		Direction:      tx.Direction,
		Status:         status,
		StatusStyle:    StyleFor(status.StyleKey()),
		TypeStyle:      StyleFor(string(tx.Direction)),
		Category:       CategoryName(tx),
		CategoryStyle:  StyleFor(CategoryName(tx)),
		PaymentChannel: tx.PaymentChannel,
		Date:           FormatDateTime(tx.Date),
	}
}

func BuildTransactionDetail(tx models.Transaction, now time.Time) models.TransactionDetail {
	var createdAt string
	if !tx.CreatedAt.IsZero() {
		createdAt = tx.CreatedAt.Format(time.RFC3339)
	}
	return models.TransactionDetail{
		TransactionRow: BuildTransactionRow(tx, now),
		AccountID:      tx.AccountID,
		SenderBankID:   tx.SenderBankID,
		ReceiverBankID: tx.ReceiverBankID,
		Image:          tx.Image,
		CreatedAt:      createdAt,
	}
}

// BuildAccountsOverview totals current balances across linked accounts. The
// total uses the first account's currency.
func BuildAccountsOverview(summaries []models.AccountSummary) models.AccountsOverview {
	total := decimal.Zero
	for _, s := range summaries {
		total = total.Add(s.CurrentBalance)
	}

	code := DefaultCurrency
	if len(summaries) > 0 && summaries[0].Currency != "" {
		code = summaries[0].Currency
	}

	accounts := summaries
	if accounts == nil {
		accounts = []models.AccountSummary{}
	}

	return models.AccountsOverview{
		Accounts:            accounts,
		TotalBanks:          len(summaries),
		TotalCurrentBalance: FormatCurrency(total, code),
	}
}

// BuildDashboard derives everything the home view shows from one resolved
// account: a page of rows plus the category breakdown of the whole list.
func BuildDashboard(account *models.Account, summaries []models.AccountSummary, pageSize, page int, now time.Time) models.Dashboard {
	window := Paginate(account.Transactions, pageSize, page)

	rows := make([]models.TransactionRow, 0, len(window.Transactions))
	for _, tx := range window.Transactions {
		rows = append(rows, BuildTransactionRow(tx, now))
	}

	return models.Dashboard{
		AccountsOverview: BuildAccountsOverview(summaries),
		LinkageID:        account.LinkageID,
		Account:          account.AccountSummary,
		Transactions:     rows,
		Page:             window.Page,
		TotalPages:       window.TotalPages,
		TopCategories:    AggregateCategories(account.Transactions),
	}
}
