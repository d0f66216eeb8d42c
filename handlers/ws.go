package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/LovationAdmin/horizon-api/middleware"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

const wsUserKey = "user_id"

type WSHandler struct {
	M      *melody.Melody
	Tokens middleware.TokenParser
}

func NewWSHandler(tokens middleware.TokenParser) *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// keep-alive for hosted proxies that drop idle connections
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get(wsUserKey)
		utils.LogWebSocket("connected", toString(userID))
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(wsUserKey)
		utils.LogWebSocket("disconnected", toString(userID))
	})

	m.HandleError(func(s *melody.Session, err error) {
		utils.SafeWarn("[WS] Session error: %v", err)
	})

	return &WSHandler{M: m, Tokens: tokens}
}

// HandleWS upgrades a request authenticated by ?token=. Browsers cannot set
// headers on websocket requests.
func (h *WSHandler) HandleWS(c *gin.Context) {
	session, err := h.Tokens.ParseAccessToken(c.Query("token"))
	if err != nil || !session.Valid(time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": "unauthenticated"})
		return
	}

	keys := map[string]interface{}{wsUserKey: session.UserID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		utils.SafeWarn("[WS] Failed to upgrade websocket: %v", err)
	}
}

// NotifyUser pushes {"type": event, "data": payload} to every open session
// of userID.
func (h *WSHandler) NotifyUser(userID, event string, payload any) {
	msg, err := json.Marshal(map[string]any{"type": event, "data": payload})
	if err != nil {
		utils.SafeError("[WS] Failed to encode %s event: %v", event, err)
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get(wsUserKey)
		return exists && id == userID
	})
	if err != nil {
		utils.SafeWarn("[WS] Error notifying user %s: %v", utils.MaskID(userID), err)
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
