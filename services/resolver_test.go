package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LovationAdmin/horizon-api/models"
)

type fakeLister struct {
	summaries []models.AccountSummary
	err       error
	calls     int
	userID    string
}

func (f *fakeLister) GetLinkedAccounts(_ context.Context, userID string) ([]models.AccountSummary, error) {
	f.calls++
	f.userID = userID
	return f.summaries, f.err
}

type fakeDetails struct {
	accounts map[string]*models.Account
	err      error
	calls    int
	asked    string
}

func (f *fakeDetails) GetAccountDetail(_ context.Context, linkageID string) (*models.Account, error) {
	f.calls++
	f.asked = linkageID
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.accounts[linkageID]; ok {
		return a, nil
	}
	return nil, &ProviderError{Op: "get account", Err: ErrAccountNotFound}
}

func newFixture() (*fakeLister, *fakeDetails, *TransactionResolver) {
	lister := &fakeLister{summaries: []models.AccountSummary{
		{ID: "acc-1", LinkageID: "link-1"},
		{ID: "acc-2", LinkageID: "link-2"},
	}}
	details := &fakeDetails{accounts: map[string]*models.Account{
		"link-1": {
			AccountSummary: models.AccountSummary{ID: "acc-1", LinkageID: "link-1"},
			Transactions: []models.Transaction{
				{ID: "t1", Name: "first"},
				{ID: "t2", Name: "second"},
				{ID: "t2", Name: "duplicate"},
			},
		},
		"link-2": {
			AccountSummary: models.AccountSummary{ID: "acc-2", LinkageID: "link-2"},
			Transactions:   []models.Transaction{{ID: "t9", Name: "other account"}},
		},
	}}
	return lister, details, NewTransactionResolver(lister, details)
}

var validSession = &models.Session{UserID: "user-1", Email: "jane@example.com"}

func TestResolveTransactionFound(t *testing.T) {
	lister, details, r := newFixture()

	tx, err := r.ResolveTransaction(context.Background(), validSession, TransactionLookup{TransactionID: "t2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Name != "second" {
		t.Errorf("got %q, want first match", tx.Name)
	}
	if lister.userID != "user-1" {
		t.Errorf("listed accounts for %q", lister.userID)
	}
	if details.asked != "link-1" {
		t.Errorf("default selection asked %q, want link-1", details.asked)
	}
}

func TestResolveTransactionExplicitLinkage(t *testing.T) {
	_, details, r := newFixture()

	tx, err := r.ResolveTransaction(context.Background(), validSession, TransactionLookup{TransactionID: "t9", LinkageID: "link-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != "t9" || details.asked != "link-2" {
		t.Errorf("got %q from %q", tx.ID, details.asked)
	}
}

func TestResolveTransactionNotFound(t *testing.T) {
	_, _, r := newFixture()

	_, err := r.ResolveTransaction(context.Background(), validSession, TransactionLookup{TransactionID: "t9"})
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("err = %v, want ErrTransactionNotFound", err)
	}
	if got := Outcome(err); got.State != models.ResolutionNotFound {
		t.Errorf("outcome = %+v", got)
	}
}

func TestResolveTransactionReturnsCopy(t *testing.T) {
	_, details, r := newFixture()

	tx, _ := r.ResolveTransaction(context.Background(), validSession, TransactionLookup{TransactionID: "t1"})
	tx.Name = "changed"
	if details.accounts["link-1"].Transactions[0].Name != "first" {
		t.Error("resolved transaction aliases the account's list")
	}
}

func TestResolveUnauthenticated(t *testing.T) {
	sessions := map[string]*models.Session{
		"nil":       nil,
		"anonymous": {Email: "jane@example.com"},
		"expired":   {UserID: "user-1", ExpiresAt: time.Now().Add(-time.Minute)},
	}

	for name, session := range sessions {
		t.Run(name, func(t *testing.T) {
			lister, _, r := newFixture()

			_, err := r.ResolveTransaction(context.Background(), session, TransactionLookup{TransactionID: "t1"})
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("err = %v, want ErrUnauthenticated", err)
			}
			if lister.calls != 0 {
				t.Error("accounts were listed without a session")
			}
			if got := Outcome(err); got.Reason != "unauthenticated" {
				t.Errorf("reason = %q", got.Reason)
			}
		})
	}
}

func TestResolveNoAccountsLinked(t *testing.T) {
	lister, details, r := newFixture()
	lister.summaries = nil

	_, _, err := r.ResolveAccount(context.Background(), validSession, "")
	if !errors.Is(err, ErrNoAccountsLinked) {
		t.Fatalf("err = %v, want ErrNoAccountsLinked", err)
	}
	if details.calls != 0 {
		t.Error("detail fetched with no linked accounts")
	}
	if got := Outcome(err); got.State != models.ResolutionFailed || got.Reason != "no_accounts_linked" {
		t.Errorf("outcome = %+v", got)
	}
}

func TestResolveUnknownLinkage(t *testing.T) {
	_, details, r := newFixture()

	_, summaries, err := r.ResolveAccount(context.Background(), validSession, "link-404")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
	if len(summaries) != 2 {
		t.Errorf("summaries = %d, want the listed accounts", len(summaries))
	}
	if details.calls != 0 {
		t.Error("detail fetched for unknown linkage")
	}
}

func TestResolveProviderErrorsPassThrough(t *testing.T) {
	providerErr := &ProviderError{Op: "sync transactions", Err: errors.New("plaid down")}

	t.Run("listing", func(t *testing.T) {
		lister, _, r := newFixture()
		lister.err = providerErr

		_, err := r.ResolveTransaction(context.Background(), validSession, TransactionLookup{TransactionID: "t1"})
		if err != providerErr {
			t.Fatalf("err = %v, want the provider error unchanged", err)
		}
	})

	t.Run("detail", func(t *testing.T) {
		_, details, r := newFixture()
		details.err = providerErr

		_, err := r.ResolveTransaction(context.Background(), validSession, TransactionLookup{TransactionID: "t1"})
		if err != providerErr {
			t.Fatalf("err = %v, want the provider error unchanged", err)
		}
		if got := Outcome(err); got.Reason != "provider_error" {
			t.Errorf("reason = %q", got.Reason)
		}
	})
}

func TestResolveCanceledContext(t *testing.T) {
	_, details, r := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := r.ResolveAccount(ctx, validSession, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if details.calls != 0 {
		t.Error("detail fetched after cancellation")
	}
	if got := Outcome(err); got.Reason != "canceled" {
		t.Errorf("reason = %q", got.Reason)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err    error
		state  models.ResolutionState
		reason string
	}{
		{nil, models.ResolutionResolved, ""},
		{ErrTransactionNotFound, models.ResolutionNotFound, ""},
		{ErrAccountNotFound, models.ResolutionFailed, "account_not_found"},
		{providerError("get accounts", errors.New("timeout")), models.ResolutionFailed, "provider_error"},
		{providerError("get accounts", ErrProviderAccountMissing), models.ResolutionFailed, "provider_error"},
		{errors.New("anything else"), models.ResolutionFailed, "provider_error"},
	}

	for _, tt := range tests {
		got := Outcome(tt.err)
		if got.State != tt.state || got.Reason != tt.reason {
			t.Errorf("Outcome(%v) = %+v, want %s/%s", tt.err, got, tt.state, tt.reason)
		}
	}
}

func TestProviderErrorDoesNotDoubleWrap(t *testing.T) {
	inner := providerError("get accounts", errors.New("boom"))
	outer := providerError("list banks", inner)
	if outer != inner {
		t.Errorf("providerError wrapped an existing ProviderError: %v", outer)
	}
	if providerError("noop", nil) != nil {
		t.Error("providerError(nil) should be nil")
	}
}
