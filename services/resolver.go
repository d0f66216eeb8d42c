package services

import (
	"context"
	"errors"
	"time"

	"github.com/LovationAdmin/horizon-api/models"
)

// AccountLister returns the accounts a user has linked.
type AccountLister interface {
	GetLinkedAccounts(ctx context.Context, userID string) ([]models.AccountSummary, error)
}

// AccountDetailFetcher returns one account with its full transaction list.
type AccountDetailFetcher interface {
	GetAccountDetail(ctx context.Context, linkageID string) (*models.Account, error)
}

// TransactionLookup identifies a transaction. LinkageID selects the account
// to search; when empty the first linked account is used.
type TransactionLookup struct {
	TransactionID string
	LinkageID     string
}

// TransactionResolver walks session -> linked accounts -> account detail ->
// transaction. Each step waits for the previous one and nothing is retried.
type TransactionResolver struct {
	accounts AccountLister
	details  AccountDetailFetcher
	now      func() time.Time
}

func NewTransactionResolver(accounts AccountLister, details AccountDetailFetcher) *TransactionResolver {
	return &TransactionResolver{
		accounts: accounts,
		details:  details,
		now:      time.Now,
	}
}

// ResolveAccount returns the selected account with its transactions and the
// full list of linked accounts.
func (r *TransactionResolver) ResolveAccount(ctx context.Context, session *models.Session, linkageID string) (*models.Account, []models.AccountSummary, error) {
	if !session.Valid(r.now()) {
		return nil, nil, ErrUnauthenticated
	}

	summaries, err := r.accounts.GetLinkedAccounts(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if len(summaries) == 0 {
		return nil, nil, ErrNoAccountsLinked
	}

	selected, err := selectLinkage(summaries, linkageID)
	if err != nil {
		return nil, summaries, err
	}

	if err := ctx.Err(); err != nil {
		return nil, summaries, err
	}

	account, err := r.details.GetAccountDetail(ctx, selected)
	if err != nil {
		return nil, summaries, err
	}
	return account, summaries, nil
}

// ResolveTransaction finds a transaction by id in the selected account.
// A missing id yields ErrTransactionNotFound.
func (r *TransactionResolver) ResolveTransaction(ctx context.Context, session *models.Session, lookup TransactionLookup) (*models.Transaction, error) {
	account, _, err := r.ResolveAccount(ctx, session, lookup.LinkageID)
	if err != nil {
		return nil, err
	}

	for i := range account.Transactions {
		if account.Transactions[i].ID == lookup.TransactionID {
			tx := account.Transactions[i]
			return &tx, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func selectLinkage(summaries []models.AccountSummary, linkageID string) (string, error) {
	if linkageID == "" {
		return summaries[0].LinkageID, nil
	}
	for _, s := range summaries {
		if s.LinkageID == linkageID {
			return linkageID, nil
		}
	}
	return "", ErrAccountNotFound
}

// Outcome maps a resolver result onto the terminal view state.
func Outcome(err error) models.Resolution {
	var pe *ProviderError
	switch {
	case err == nil:
		return models.Resolution{State: models.ResolutionResolved}
	case errors.Is(err, ErrTransactionNotFound):
		return models.Resolution{State: models.ResolutionNotFound}
	case errors.Is(err, ErrUnauthenticated):
		return models.Resolution{State: models.ResolutionFailed, Reason: "unauthenticated"}
	case errors.Is(err, ErrNoAccountsLinked):
		return models.Resolution{State: models.ResolutionFailed, Reason: "no_accounts_linked"}
	case errors.Is(err, ErrAccountNotFound):
		return models.Resolution{State: models.ResolutionFailed, Reason: "account_not_found"}
	case errors.As(err, &pe):
		return models.Resolution{State: models.ResolutionFailed, Reason: "provider_error"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.Resolution{State: models.ResolutionFailed, Reason: "canceled"}
	default:
		return models.Resolution{State: models.ResolutionFailed, Reason: "provider_error"}
	}
}
