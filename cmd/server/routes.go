package main

import (
	"time"

	"codeberg.org/gemiwell/server/api/rest/chat"
	"codeberg.org/gemiwell/server/api/rest/health"
	"codeberg.org/gemiwell/server/api/rest/profiles"
	"codeberg.org/gemiwell/server/api/rest/reasoning"
	"codeberg.org/gemiwell/server/api/rest/reports"
	"codeberg.org/gemiwell/server/api/websocket"
	"codeberg.org/gemiwell/server/internal/auth"
	"codeberg.org/gemiwell/server/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	router.Use(logger.RequestLogger())
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		// authenticates with ?token= before the upgrade
		websocket.RegisterRoutes(v1, server.hub, server.config.AllowedOrigins)
	}

	protected := v1.Group("", auth.AuthMiddleware())

	{
		profiles.RegisterRoutes(protected, server.profileRepo, server.publisher)

		chat.RegisterRoutes(protected, chat.Deps{
			Assistant: server.services.Assistant,
			Profiles:  server.profileRepo,
			Reports:   server.reportRepo,
			Messages:  server.messageRepo,
			Embedder:  server.services.Embedder,
			Publisher: server.publisher,
		}, server.limit)

		reports.RegisterRoutes(protected, reports.Deps{
			Assistant: server.services.Assistant,
			Reports:   server.reportRepo,
			Profiles:  server.profileRepo,
			Embedder:  server.services.Embedder,
			Publisher: server.publisher,
		}, server.limit)

		reasoning.RegisterRoutes(protected, server.services.Assistant, server.limit)
	}
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader, "Location", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
