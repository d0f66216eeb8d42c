package routes

import (
	"github.com/LovationAdmin/horizon-api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler) {
	rg.POST("/auth/sign-up", h.SignUp)
	rg.POST("/auth/sign-in", h.SignIn)
}

// SetupSessionRoutes sets up authenticated routes for the caller's own session.
func SetupSessionRoutes(rg *gin.RouterGroup, auth *handlers.AuthHandler, user *handlers.UserHandler) {
	rg.POST("/auth/sign-out", auth.SignOut)

	rg.GET("/user/me", user.GetMe)
	rg.POST("/user/2fa/setup", user.SetupTOTP)
	rg.POST("/user/2fa/verify", user.VerifyTOTP)
}

// SetupBankingRoutes sets up bank linking, accounts and transaction history.
func SetupBankingRoutes(rg *gin.RouterGroup, h *handlers.BankingHandler) {
	rg.POST("/banks/link-token", h.CreateLinkToken)
	rg.POST("/banks/exchange", h.ExchangePublicToken)

	rg.GET("/accounts", h.GetAccounts)
	rg.GET("/dashboard", h.GetDashboard)
	rg.GET("/transactions", h.GetTransactions)
	rg.GET("/transactions/:transactionId", h.GetTransaction)
}
