package chat

import (
	"github.com/gin-gonic/gin"
)

// expects router to already require authentication; limit guards the generation route
func RegisterRoutes(router *gin.RouterGroup, deps Deps, limit gin.HandlerFunc) {
	router.POST("/chat", limit, Handler(deps))
	router.GET("/chat/messages", HistoryHandler(deps.Messages))
}
