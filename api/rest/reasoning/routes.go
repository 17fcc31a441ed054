package reasoning

import (
	"github.com/gin-gonic/gin"
)

// expects router to already require authentication
func RegisterRoutes(router *gin.RouterGroup, comparer Comparer, limit gin.HandlerFunc) {
	router.POST("/reasoning/compare", limit, CompareHandler(comparer))
}
