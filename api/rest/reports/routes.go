package reports

import (
	"github.com/gin-gonic/gin"
)

// expects router to already require authentication; limit guards the generation route
func RegisterRoutes(router *gin.RouterGroup, deps Deps, limit gin.HandlerFunc) {
	group := router.Group("/reports")
	{
		group.POST("/analyze", limit, AnalyzeHandler(deps))
		group.GET("", ListHandler(deps.Reports))
		group.GET("/:id", GetHandler(deps.Reports))
		group.DELETE("/:id", DeleteHandler(deps.Reports, deps.Publisher))
	}
}
