package services

import (
	"context"
	"errors"
	"sort"

	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/utils"

	"golang.org/x/sync/errgroup"
)

type bankStore interface {
	GetBanks(ctx context.Context, userID string) ([]models.BankLink, error)
	GetBank(ctx context.Context, linkageID string) (*models.BankLink, error)
	ListTransfers(ctx context.Context, bankID string) ([]models.Transfer, error)
}

type accountProvider interface {
	GetAccounts(ctx context.Context, accessToken string) ([]models.AccountSummary, error)
	SyncTransactions(ctx context.Context, accessToken string) ([]models.Transaction, error)
}

// AccountService joins stored bank links with live provider data. It is the
// AccountLister and AccountDetailFetcher behind TransactionResolver.
type AccountService struct {
	banks    bankStore
	provider accountProvider
}

func NewAccountService(banks bankStore, provider accountProvider) *AccountService {
	return &AccountService{banks: banks, provider: provider}
}

// GetLinkedAccounts fetches the provider summary of every linked bank. Banks
// are queried concurrently; the result keeps the stored bank order. Links whose
// account the provider no longer returns are left out.
func (s *AccountService) GetLinkedAccounts(ctx context.Context, userID string) ([]models.AccountSummary, error) {
	banks, err := s.banks.GetBanks(ctx, userID)
	if err != nil {
		return nil, providerError("list banks", err)
	}

	resolved := make([]*models.AccountSummary, len(banks))
	g, gctx := errgroup.WithContext(ctx)
	for i, bank := range banks {
		g.Go(func() error {
			summary, err := s.summarize(gctx, bank)
			if errors.Is(err, ErrProviderAccountMissing) {
				utils.SafeWarn("[Accounts] Skipping stale link %s for user %s", utils.MaskID(bank.ID), utils.MaskID(userID))
				return nil
			}
			if err != nil {
				return err
			}
			resolved[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]models.AccountSummary, 0, len(resolved))
	for _, summary := range resolved {
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	}

	utils.SafeDebug("[Accounts] Resolved %d linked accounts for user %s", len(summaries), utils.MaskID(userID))
	return summaries, nil
}

// GetAccountDetail returns one linked account with its provider transactions
// and internal transfers, newest first.
func (s *AccountService) GetAccountDetail(ctx context.Context, linkageID string) (*models.Account, error) {
	bank, err := s.banks.GetBank(ctx, linkageID)
	if err != nil {
		return nil, providerError("get bank", err)
	}

	summary, err := s.summarize(ctx, *bank)
	if err != nil {
		return nil, err
	}

	synced, err := s.provider.SyncTransactions(ctx, bank.AccessToken)
	if err != nil {
		return nil, providerError("sync transactions", err)
	}

	transfers, err := s.banks.ListTransfers(ctx, bank.ID)
	if err != nil {
		return nil, providerError("list transfers", err)
	}

	transactions := make([]models.Transaction, 0, len(synced)+len(transfers))
	for _, tx := range synced {
		if tx.AccountID == bank.AccountID {
			transactions = append(transactions, tx)
		}
	}
	for _, t := range transfers {
		transactions = append(transactions, transferTransaction(t, bank.ID))
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	return &models.Account{
		AccountSummary: *summary,
		Transactions:   transactions,
	}, nil
}

func (s *AccountService) summarize(ctx context.Context, bank models.BankLink) (*models.AccountSummary, error) {
	accounts, err := s.provider.GetAccounts(ctx, bank.AccessToken)
	if err != nil {
		return nil, providerError("get accounts", err)
	}

	for _, a := range accounts {
		if a.ID == bank.AccountID {
			a.LinkageID = bank.ID
			a.UserID = bank.UserID
			a.ShareableID = bank.ShareableID
			return &a, nil
		}
	}
	return nil, providerError("get accounts", ErrProviderAccountMissing)
}

func transferTransaction(t models.Transfer, bankID string) models.Transaction {
	direction := models.Credit
	if t.SenderBankID == bankID {
		direction = models.Debit
	}
	return models.Transaction{
		ID:             t.ID,
		Name:           t.Name,
		Amount:         t.Amount.Abs(),
		Direction:      direction,
		Date:           t.CreatedAt,
		Category:       t.Category,
		PaymentChannel: t.Channel,
		SenderBankID:   t.SenderBankID,
		ReceiverBankID: t.ReceiverBankID,
		CreatedAt:      t.CreatedAt,
	}
}

type bankSaver interface {
	SaveBanks(ctx context.Context, userID, itemID, accessToken string, accountIDs []string) ([]models.BankLink, error)
}

type tokenExchanger interface {
	ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error)
	GetAccounts(ctx context.Context, accessToken string) ([]models.AccountSummary, error)
}

// LinkService turns a Link public token into stored bank links.
type LinkService struct {
	banks    bankSaver
	provider tokenExchanger
}

func NewLinkService(banks bankSaver, provider tokenExchanger) *LinkService {
	return &LinkService{banks: banks, provider: provider}
}

// LinkItem exchanges publicToken and stores every account of the item. The
// returned summaries carry their new linkage ids.
func (s *LinkService) LinkItem(ctx context.Context, userID, publicToken string) ([]models.AccountSummary, error) {
	accessToken, itemID, err := s.provider.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, providerError("exchange public token", err)
	}

	accounts, err := s.provider.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, providerError("get accounts", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccountsLinked
	}

	accountIDs := make([]string, len(accounts))
	for i, a := range accounts {
		accountIDs[i] = a.ID
	}

	banks, err := s.banks.SaveBanks(ctx, userID, itemID, accessToken, accountIDs)
	if err != nil {
		return nil, err
	}

	byAccount := make(map[string]models.BankLink, len(banks))
	for _, b := range banks {
		byAccount[b.AccountID] = b
	}
	for i := range accounts {
		b := byAccount[accounts[i].ID]
		accounts[i].LinkageID = b.ID
		accounts[i].UserID = userID
		accounts[i].ShareableID = b.ShareableID
	}
	return accounts, nil
}
