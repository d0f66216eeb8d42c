package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/shopspring/decimal"
)

type PlaidConfig struct {
	ClientID     string
	Secret       string
	Env          string
	Products     []string
	CountryCodes []string
	RedirectURI  string
}

type PlaidService struct {
	Client *plaid.APIClient
	cfg    PlaidConfig
}

func NewPlaidService(cfg PlaidConfig) *PlaidService {
	var env plaid.Environment
	switch cfg.Env {
	case "production":
		env = plaid.Production
	default:
		env = plaid.Sandbox
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	configuration.UseEnvironment(env)

	return &PlaidService{
		Client: plaid.NewAPIClient(configuration),
		cfg:    cfg,
	}
}

// CreateLinkToken returns the token the frontend uses to open Plaid Link.
func (s *PlaidService) CreateLinkToken(ctx context.Context, user models.User) (string, error) {
	linkUser := plaid.LinkTokenCreateRequestUser{
		ClientUserId: user.ID,
	}

	countries := make([]plaid.CountryCode, 0, len(s.cfg.CountryCodes))
	for _, c := range s.cfg.CountryCodes {
		countries = append(countries, plaid.CountryCode(strings.ToUpper(strings.TrimSpace(c))))
	}
	if len(countries) == 0 {
		countries = []plaid.CountryCode{plaid.COUNTRYCODE_US}
	}

	request := plaid.NewLinkTokenCreateRequest("Horizon", "en", countries, linkUser)

	products := make([]plaid.Products, 0, len(s.cfg.Products))
	for _, p := range s.cfg.Products {
		products = append(products, plaid.Products(strings.TrimSpace(p)))
	}
	if len(products) == 0 {
		products = []plaid.Products{plaid.PRODUCTS_TRANSACTIONS}
	}
	request.SetProducts(products)

	if s.cfg.RedirectURI != "" {
		redirectURI := s.cfg.RedirectURI
		if !strings.HasSuffix(redirectURI, "/") {
			redirectURI += "/"
		}
		request.SetRedirectUri(redirectURI)
	}

	resp, _, err := s.Client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		utils.SafeError("[Plaid] CreateLinkToken failed: %v", formatPlaidError(err))
		return "", providerError("create link token", formatPlaidError(err))
	}

	return resp.GetLinkToken(), nil
}

// ExchangePublicToken trades the Link public token for a long-lived access token.
func (s *PlaidService) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)

	resp, _, err := s.Client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		return "", "", providerError("exchange public token", formatPlaidError(err))
	}

	return resp.GetAccessToken(), resp.GetItemId(), nil
}

// GetAccounts returns every account of the item behind accessToken.
func (s *PlaidService) GetAccounts(ctx context.Context, accessToken string) ([]models.AccountSummary, error) {
	request := plaid.NewAccountsGetRequest(accessToken)

	resp, _, err := s.Client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
	if err != nil {
		return nil, providerError("get accounts", formatPlaidError(err))
	}

	item := resp.GetItem()
	accounts := make([]models.AccountSummary, 0, len(resp.GetAccounts()))
	for _, a := range resp.GetAccounts() {
		summary := mapPlaidAccount(a)
		summary.InstitutionID = item.GetInstitutionId()
		accounts = append(accounts, summary)
	}
	return accounts, nil
}

// SyncTransactions pages through /transactions/sync and returns every added
// transaction of the item in the order Plaid sends them.
func (s *PlaidService) SyncTransactions(ctx context.Context, accessToken string) ([]models.Transaction, error) {
	var (
		transactions []models.Transaction
		cursor       string
	)

	for {
		request := plaid.NewTransactionsSyncRequest(accessToken)
		if cursor != "" {
			request.SetCursor(cursor)
		}

		resp, _, err := s.Client.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*request).Execute()
		if err != nil {
			return nil, providerError("sync transactions", formatPlaidError(err))
		}

		for _, t := range resp.GetAdded() {
			transactions = append(transactions, mapPlaidTransaction(t))
		}

		if !resp.GetHasMore() {
			break
		}
		cursor = resp.GetNextCursor()
	}

	return transactions, nil
}

func mapPlaidAccount(a plaid.AccountBase) models.AccountSummary {
	balances := a.GetBalances()
	return models.AccountSummary{
		ID:               a.GetAccountId(),
		Name:             a.GetName(),
		OfficialName:     a.GetOfficialName(),
		Mask:             a.GetMask(),
		Type:             string(a.GetType()),
		Subtype:          string(a.GetSubtype()),
		Currency:         balances.GetIsoCurrencyCode(),
		CurrentBalance:   decimal.NewFromFloat(balances.GetCurrent()),
		AvailableBalance: decimal.NewFromFloat(balances.GetAvailable()),
	}
}

func mapPlaidTransaction(t plaid.Transaction) models.Transaction {
	amount, direction := splitPlaidAmount(t.GetAmount())

	var category string
	if categories := t.GetCategory(); len(categories) > 0 {
		category = categories[0]
	}

	date, err := time.Parse(time.DateOnly, t.GetDate())
	if err != nil {
		utils.SafeWarn("[Plaid] Unparseable date %q on transaction %s", t.GetDate(), utils.MaskID(t.GetTransactionId()))
	}

	return models.Transaction{
		ID:             t.GetTransactionId(),
		Name:           t.GetName(),
		Amount:         amount,
		Direction:      direction,
		Date:           date,
		Category:       category,
		PaymentChannel: t.GetPaymentChannel(),
		AccountID:      t.GetAccountId(),
		Image:          t.GetLogoUrl(),
		CreatedAt:      date,
	}
}

// splitPlaidAmount converts Plaid's signed amount (positive means money left
// the account) into a magnitude and a direction.
func splitPlaidAmount(amount float64) (decimal.Decimal, models.Direction) {
	value := decimal.NewFromFloat(amount)
	if value.IsPositive() {
		return value, models.Debit
	}
	return value.Abs(), models.Credit
}

func formatPlaidError(err error) error {
	var plaidErr plaid.GenericOpenAPIError
	if errors.As(err, &plaidErr) {
		return fmt.Errorf("plaid error: %s", string(plaidErr.Body()))
	}
	return err
}
