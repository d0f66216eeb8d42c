package middleware

import (
	"net/http"
	"strings"

	"github.com/LovationAdmin/horizon-api/models"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// TokenParser turns a bearer token into a session.
type TokenParser interface {
	ParseAccessToken(token string) (*models.Session, error)
}

// AuthMiddleware requires a valid bearer token and stores its session in the
// gin context.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required", "code": "unauthenticated"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format", "code": "unauthenticated"})
			return
		}

		session, err := tokens.ParseAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": "unauthenticated"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession returns the session set by AuthMiddleware, or nil.
func GetSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}

func GetUserID(c *gin.Context) string {
	if session := GetSession(c); session != nil {
		return session.UserID
	}
	return ""
}
