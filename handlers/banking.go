package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/LovationAdmin/horizon-api/middleware"
	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/services"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/gin-gonic/gin"
)

type AccountResolver interface {
	ResolveAccount(ctx context.Context, session *models.Session, linkageID string) (*models.Account, []models.AccountSummary, error)
	ResolveTransaction(ctx context.Context, session *models.Session, lookup services.TransactionLookup) (*models.Transaction, error)
}

type BankLinker interface {
	LinkItem(ctx context.Context, userID, publicToken string) ([]models.AccountSummary, error)
}

type LinkTokenCreator interface {
	CreateLinkToken(ctx context.Context, user models.User) (string, error)
}

type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Notifier interface {
	NotifyUser(userID, event string, payload any)
}

type BankingHandler struct {
	Resolver AccountResolver
	Accounts services.AccountLister
	Linker   BankLinker
	Plaid    LinkTokenCreator
	Users    UserGetter
	Notifier Notifier
	PageSize int
	Now      func() time.Time
}

func (h *BankingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// CreateLinkToken returns a Plaid Link token for the signed-in user.
func (h *BankingHandler) CreateLinkToken(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "unauthenticated"})
		return
	}
	if err != nil {
		utils.SafeError("[Banking] Failed to load user %s: %v", utils.MaskID(userID), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	token, err := h.Plaid.CreateLinkToken(c.Request.Context(), *user)
	if err != nil {
		respondResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"link_token": token})
}

// ExchangePublicToken links every account of a freshly connected item.
func (h *BankingHandler) ExchangePublicToken(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.ExchangeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	accounts, err := h.Linker.LinkItem(c.Request.Context(), userID, req.PublicToken)
	if err != nil {
		utils.SafeError("[Banking] Link failed for user %s: %v", utils.MaskID(userID), err)
		respondResolveError(c, err)
		return
	}

	if h.Notifier != nil {
		h.Notifier.NotifyUser(userID, "bank_linked", gin.H{"accounts": len(accounts)})
	}

	c.JSON(http.StatusCreated, gin.H{"accounts": accounts})
}

// GetAccounts lists linked accounts with their combined balance. No linked
// accounts is an empty overview, not an error.
func (h *BankingHandler) GetAccounts(c *gin.Context) {
	session := middleware.GetSession(c)
	if !session.Valid(h.now()) {
		respondResolveError(c, services.ErrUnauthenticated)
		return
	}

	summaries, err := h.Accounts.GetLinkedAccounts(c.Request.Context(), session.UserID)
	if err != nil {
		respondResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.BuildAccountsOverview(summaries))
}

// GetDashboard serves the home view for the selected account (?id=) or the
// first linked one.
func (h *BankingHandler) GetDashboard(c *gin.Context) {
	account, summaries, err := h.Resolver.ResolveAccount(c.Request.Context(), middleware.GetSession(c), c.Query("id"))
	if err != nil {
		respondResolveError(c, err)
		return
	}

	dashboard := services.BuildDashboard(account, summaries, h.PageSize, queryPage(c), h.now())
	c.JSON(http.StatusOK, dashboard)
}

// GetTransactions serves one page of the selected account's history.
func (h *BankingHandler) GetTransactions(c *gin.Context) {
	account, _, err := h.Resolver.ResolveAccount(c.Request.Context(), middleware.GetSession(c), c.Query("id"))
	if err != nil {
		respondResolveError(c, err)
		return
	}

	now := h.now()
	window := services.Paginate(account.Transactions, h.PageSize, queryPage(c))
	rows := make([]models.TransactionRow, 0, len(window.Transactions))
	for _, tx := range window.Transactions {
		rows = append(rows, services.BuildTransactionRow(tx, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"linkage_id":   account.LinkageID,
		"account":      account.AccountSummary,
		"transactions": rows,
		"page":         window.Page,
		"page_size":    window.PageSize,
		"total_pages":  window.TotalPages,
	})
}

func (h *BankingHandler) GetTransaction(c *gin.Context) {
	lookup := services.TransactionLookup{
		TransactionID: c.Param("transactionId"),
		LinkageID:     c.Query("id"),
	}

	tx, err := h.Resolver.ResolveTransaction(c.Request.Context(), middleware.GetSession(c), lookup)
	if err != nil {
		respondResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":       services.Outcome(nil).State,
		"transaction": services.BuildTransactionDetail(*tx, h.now()),
	})
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

var resolveErrors = map[string]struct {
	status  int
	message string
}{
	"unauthenticated":    {http.StatusUnauthorized, "Unauthorized"},
	"no_accounts_linked": {http.StatusNotFound, "No bank accounts linked"},
	"account_not_found":  {http.StatusNotFound, "Account not found"},
	"provider_error":     {http.StatusBadGateway, "Banking provider unavailable"},
	"canceled":           {http.StatusGatewayTimeout, "Request canceled"},
}

// respondResolveError writes the HTTP form of a resolver outcome.
func respondResolveError(c *gin.Context, err error) {
	outcome := services.Outcome(err)
	if outcome.State == models.ResolutionNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Transaction not found",
			"code":  "transaction_not_found",
			"state": outcome.State,
		})
		return
	}

	mapped, ok := resolveErrors[outcome.Reason]
	if !ok {
		mapped = resolveErrors["provider_error"]
	}
	if mapped.status >= http.StatusInternalServerError {
		utils.SafeError("[Banking] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(mapped.status, gin.H{
		"error": mapped.message,
		"code":  outcome.Reason,
		"state": outcome.State,
	})
}
