package handlers

import (
	"net/http"

	"goldmine/internal/logger"
	"goldmine/internal/service"
	"goldmine/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WalletStream upgrades to a websocket and streams balance-change events for
// the authenticated user. Browsers can't set headers on websocket dials, so
// the JWT arrives as a query parameter instead.
func (h *Handler) WalletStream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	userID, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("ws upgrade failed", "error", err, "user_id", userID)
		return
	}

	ws.NewClient(userID, conn, h.Hub).Run()
}
