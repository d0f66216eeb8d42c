package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/LovationAdmin/horizon-api/middleware"
	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/services"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/gin-gonic/gin"
)

type UserStore interface {
	CreateUser(ctx context.Context, req models.SignUpRequest, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateSession(ctx context.Context, userID, refreshToken string) error
	DeleteSession(ctx context.Context, userID, refreshToken string) error
	SetTOTPSecret(ctx context.Context, userID, secret string) error
	EnableTOTP(ctx context.Context, userID string) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
}

type AuthHandler struct {
	Users  UserStore
	Tokens TokenIssuer
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user, err := h.Users.CreateUser(c.Request.Context(), req, passwordHash)
	if errors.Is(err, services.ErrEmailTaken) {
		utils.LogAuthAction("Sign up", req.Email, false)
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		utils.SafeError("[Auth] Sign up failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	utils.LogAuthAction("Sign up", user.Email, true)
	h.issueTokens(c, http.StatusCreated, user)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	user, err := h.Users.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, services.ErrUserNotFound) {
		utils.LogAuthAction("Sign in", req.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		utils.SafeError("[Auth] Sign in lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		utils.LogAuthAction("Sign in", req.Email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "2FA code required", "requires_2fa": true})
			return
		}
		if !utils.VerifyTOTP(user.TOTPSecret, req.TOTPCode) {
			utils.LogAuthAction("Sign in 2FA", req.Email, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid 2FA code"})
			return
		}
	}

	utils.LogAuthAction("Sign in", user.Email, true)
	h.issueTokens(c, http.StatusOK, user)
}

// SignOut drops the caller's refresh-token session.
func (h *AuthHandler) SignOut(c *gin.Context) {
	var req models.SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	session := middleware.GetSession(c)
	if err := h.Users.DeleteSession(c.Request.Context(), session.UserID, req.RefreshToken); err != nil {
		utils.SafeError("[Auth] Sign out failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
		return
	}

	utils.LogAuthAction("Sign out", session.Email, true)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *AuthHandler) issueTokens(c *gin.Context, status int, user *models.User) {
	accessToken, err := h.Tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	if err := h.Users.CreateSession(c.Request.Context(), user.ID, refreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(status, models.AuthResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
