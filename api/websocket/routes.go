package websocket

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/gemiwell/server/internal/feed"
)

func RegisterRoutes(router *gin.RouterGroup, hub *feed.Hub, allowedOrigins []string) {
	router.GET("/ws", WebSocketHandler(hub, allowedOrigins))
}
