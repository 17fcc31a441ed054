package websocket

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"codeberg.org/gemiwell/server/internal/auth"
	"codeberg.org/gemiwell/server/internal/errors"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/logger"
)

// accepts requests without an Origin header (native clients) and any listed origin
func CheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		if slices.Contains(allowedOrigins, origin) {
			return true
		}

		logger.Warn("websocket origin rejected - not in allowed origins",
			"origin", origin,
			"allowed_origins", allowedOrigins,
		)

		return false
	}
}

// streams the authenticated user's profile, message and report changes.
func WebSocketHandler(hub *feed.Hub, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     CheckOrigin(allowedOrigins),
	}

	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.Unauthorized(c, "token is required")
			return
		}

		claims, err := auth.ValidateJWT(params.Token)
		if err != nil {
			errors.Unauthorized(c, "invalid token")
			return
		}

		if !hub.CanAcceptConnection(claims.UserID) {
			errors.TooManyRequests(c, "too many open connections")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"user_id", claims.UserID,
				"ip", c.ClientIP(),
			)

			return
		}

		clientID := uuid.NewString()
		client := feed.NewClient(clientID, claims.UserID, conn, hub)

		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"user_id", claims.UserID,
			"ip", c.ClientIP(),
		)
	}
}
