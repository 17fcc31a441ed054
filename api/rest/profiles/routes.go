package profiles

import (
	"codeberg.org/gemiwell/server/internal/feed"
	"github.com/gin-gonic/gin"
)

// expects router to already require authentication
func RegisterRoutes(router *gin.RouterGroup, store ProfileStore, publisher feed.Publisher) {
	router.GET("/profile", GetHandler(store))
	router.PUT("/profile", UpdateHandler(store, publisher))
}
