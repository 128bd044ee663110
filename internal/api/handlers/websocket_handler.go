// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"blood-bank-api-server/internal/api/middleware"
	"blood-bank-api-server/internal/api/responses"
	"blood-bank-api-server/internal/apperr"
	"blood-bank-api-server/internal/logger"
	"blood-bank-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Maximum wait for a message (or ping) from the client.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub    *socket.Hub
	Secret []byte
	Users  middleware.UserFinder
}

// ServeWs upgrades an authenticated client and keeps it registered until it
// disconnects. Browsers cannot set headers on the handshake, so the token
// comes from ?token=.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	tokenString := c.Query("token")
	if tokenString == "" {
		responses.Error(c, apperr.Unauthorized("Not authorized, no token"))
		return
	}

	user, err := middleware.LoadUser(c.Request.Context(), tokenString, h.Secret, h.Users)
	if err != nil {
		responses.Error(c, apperr.Unauthorized("Not authorized, token failed"))
		return
	}
	userID := user.ID.Hex()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.Hub.Register(userID, conn)
	defer func() {
		h.Hub.Unregister(userID, conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	// gorilla answers pings automatically; each one extends the deadline.
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user_id", userID).Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}
