package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LovationAdmin/horizon-api/middleware"
	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type stubTokens struct{}

func (stubTokens) ParseAccessToken(token string) (*models.Session, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &models.Session{UserID: "user-1", Email: "jane@example.com"}, nil
}

type stubResolver struct {
	account   *models.Account
	summaries []models.AccountSummary
	err       error
	linkage   string
}

func (s *stubResolver) ResolveAccount(_ context.Context, session *models.Session, linkageID string) (*models.Account, []models.AccountSummary, error) {
	s.linkage = linkageID
	if !session.Valid(testNow) {
		return nil, nil, services.ErrUnauthenticated
	}
	return s.account, s.summaries, s.err
}

func (s *stubResolver) ResolveTransaction(ctx context.Context, session *models.Session, lookup services.TransactionLookup) (*models.Transaction, error) {
	account, _, err := s.ResolveAccount(ctx, session, lookup.LinkageID)
	if err != nil {
		return nil, err
	}
	for _, tx := range account.Transactions {
		if tx.ID == lookup.TransactionID {
			return &tx, nil
		}
	}
	return nil, services.ErrTransactionNotFound
}

type stubLister struct {
	summaries []models.AccountSummary
	err       error
}

func (s stubLister) GetLinkedAccounts(context.Context, string) ([]models.AccountSummary, error) {
	return s.summaries, s.err
}

type stubLinker struct{ err error }

func (s stubLinker) LinkItem(_ context.Context, userID, _ string) ([]models.AccountSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.AccountSummary{{ID: "acc-1", LinkageID: "link-1", UserID: userID}}, nil
}

type recordingNotifier struct{ events []string }

func (n *recordingNotifier) NotifyUser(userID, event string, _ any) {
	n.events = append(n.events, userID+":"+event)
}

func bankingFixture() (*BankingHandler, *stubResolver, *recordingNotifier) {
	summary := models.AccountSummary{ID: "acc-1", LinkageID: "link-1", Name: "Checking", Currency: "USD", CurrentBalance: decimal.NewFromInt(1200)}
	txs := make([]models.Transaction, 0, 12)
	for i := 0; i < 12; i++ {
		txs = append(txs, models.Transaction{
			ID:        "t" + string(rune('a'+i)),
			Name:      "Coffee #" + string(rune('a'+i)),
			Amount:    decimal.RequireFromString("3.5"),
			Direction: models.Debit,
			Date:      testNow.AddDate(0, 0, -i),
			Category:  "Food and Drink",
		})
	}

	resolver := &stubResolver{
		account:   &models.Account{AccountSummary: summary, Transactions: txs},
		summaries: []models.AccountSummary{summary},
	}
	notifier := &recordingNotifier{}
	h := &BankingHandler{
		Resolver: resolver,
		Accounts: stubLister{summaries: []models.AccountSummary{summary}},
		Linker:   stubLinker{},
		Notifier: notifier,
		PageSize: 5,
		Now:      func() time.Time { return testNow },
	}
	return h, resolver, notifier
}

func newBankingRouter(h *BankingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/", middleware.AuthMiddleware(stubTokens{}))
	protected.POST("/banks/exchange", h.ExchangePublicToken)
	protected.GET("/accounts", h.GetAccounts)
	protected.GET("/dashboard", h.GetDashboard)
	protected.GET("/transactions", h.GetTransactions)
	protected.GET("/transactions/:transactionId", h.GetTransaction)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer good")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetDashboard(t *testing.T) {
	h, resolver, _ := bankingFixture()
	w := serve(newBankingRouter(h), http.MethodGet, "/dashboard?id=link-1&page=3", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if resolver.linkage != "link-1" {
		t.Errorf("resolved linkage %q", resolver.linkage)
	}

	var d models.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Page != 3 || d.TotalPages != 3 || len(d.Transactions) != 2 {
		t.Errorf("page %d/%d with %d rows", d.Page, d.TotalPages, len(d.Transactions))
	}
	if d.TotalCurrentBalance != "$1,200.00" {
		t.Errorf("total = %q", d.TotalCurrentBalance)
	}
	if d.Transactions[0].Amount != "-$3.50" || d.Transactions[0].Name != "Coffee k" {
		t.Errorf("row = %+v", d.Transactions[0])
	}
	if len(d.TopCategories) != 1 || d.TopCategories[0].Percentage != 100 {
		t.Errorf("top categories = %+v", d.TopCategories)
	}
}

func TestGetTransactionsBadPageFallsBackToFirst(t *testing.T) {
	h, _, _ := bankingFixture()
	w := serve(newBankingRouter(h), http.MethodGet, "/transactions?page=abc", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Page         int                     `json:"page"`
		Transactions []models.TransactionRow `json:"transactions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Page != 1 || len(body.Transactions) != 5 {
		t.Errorf("page %d with %d rows", body.Page, len(body.Transactions))
	}
	if body.Transactions[0].Status != models.StatusPending || body.Transactions[4].Status != models.StatusSuccess {
		t.Errorf("statuses = %q, %q", body.Transactions[0].Status, body.Transactions[4].Status)
	}
}

func TestGetTransaction(t *testing.T) {
	h, _, _ := bankingFixture()
	w := serve(newBankingRouter(h), http.MethodGet, "/transactions/tb", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var body struct {
		State       models.ResolutionState   `json:"state"`
		Transaction models.TransactionDetail `json:"transaction"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.State != models.ResolutionResolved || body.Transaction.ID != "tb" {
		t.Errorf("body = %+v", body)
	}
}

func TestResolveErrorsMapToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target string
		status int
		code   string
	}{
		{"not found", nil, "/transactions/missing", http.StatusNotFound, "transaction_not_found"},
		{"no accounts", services.ErrNoAccountsLinked, "/dashboard", http.StatusNotFound, "no_accounts_linked"},
		{"unknown account", services.ErrAccountNotFound, "/dashboard?id=nope", http.StatusNotFound, "account_not_found"},
		{"provider", &services.ProviderError{Op: "sync transactions", Err: errors.New("down")}, "/transactions/ta", http.StatusBadGateway, "provider_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, resolver, _ := bankingFixture()
			resolver.err = tt.err
			w := serve(newBankingRouter(h), http.MethodGet, tt.target, "")

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var body map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["code"] != tt.code {
				t.Errorf("code = %v, want %s", body["code"], tt.code)
			}
		})
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	h, _, _ := bankingFixture()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	newBankingRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestGetAccounts(t *testing.T) {
	h, _, _ := bankingFixture()
	w := serve(newBankingRouter(h), http.MethodGet, "/accounts", "")

	var overview models.AccountsOverview
	if err := json.Unmarshal(w.Body.Bytes(), &overview); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || overview.TotalBanks != 1 || overview.TotalCurrentBalance != "$1,200.00" {
		t.Errorf("status %d overview %+v", w.Code, overview)
	}
}

func TestExchangePublicToken(t *testing.T) {
	h, _, notifier := bankingFixture()
	r := newBankingRouter(h)

	if w := serve(r, http.MethodPost, "/banks/exchange", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing token status = %d", w.Code)
	}

	w := serve(r, http.MethodPost, "/banks/exchange", `{"public_token":"public-sandbox-1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if len(notifier.events) != 1 || notifier.events[0] != "user-1:bank_linked" {
		t.Errorf("events = %v", notifier.events)
	}
}

func TestExchangePublicTokenProviderFailure(t *testing.T) {
	h, _, notifier := bankingFixture()
	h.Linker = stubLinker{err: &services.ProviderError{Op: "exchange public token", Err: errors.New("INVALID_PUBLIC_TOKEN")}}

	w := serve(newBankingRouter(h), http.MethodPost, "/banks/exchange", `{"public_token":"bad"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d", w.Code)
	}
	if len(notifier.events) != 0 {
		t.Errorf("notified on failure: %v", notifier.events)
	}
}
