package handlers

import (
	"errors"
	"net/http"

	"github.com/LovationAdmin/horizon-api/middleware"
	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/services"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users UserStore
}

// ============================================================================
// PROFILE
// ============================================================================

// GetMe returns the signed-in user.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// ============================================================================
// 2FA MANAGEMENT
// ============================================================================

func (h *UserHandler) SetupTOTP(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	secret, url, err := utils.GenerateTOTPSecret(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate TOTP"})
		return
	}

	if err := h.Users.SetTOTPSecret(c.Request.Context(), user.ID, secret); err != nil {
		utils.SafeError("[User] Failed to store TOTP secret for %s: %v", utils.MaskID(user.ID), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store TOTP secret"})
		return
	}

	c.JSON(http.StatusOK, models.TOTPSetupResponse{Secret: secret, URL: url})
}

func (h *UserHandler) VerifyTOTP(c *gin.Context) {
	var req models.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ValidationMessage(err)})
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if user.TOTPSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "TOTP not set up"})
		return
	}
	if !utils.VerifyTOTP(user.TOTPSecret, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid TOTP code"})
		return
	}

	if err := h.Users.EnableTOTP(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable 2FA"})
		return
	}

	utils.SafeInfo("[User] 2FA enabled for user %s", utils.MaskID(user.ID))
	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled successfully", "totp_enabled": true})
}

func (h *UserHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "unauthenticated"})
		return nil, false
	}

	user, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	if err != nil {
		utils.SafeError("[User] Failed to fetch user %s: %v", utils.MaskID(userID), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return nil, false
	}
	return user, true
}
