package main

import (
	"codeberg.org/gemiwell/server/gemiwell/messages"
	"codeberg.org/gemiwell/server/gemiwell/profiles"
	"codeberg.org/gemiwell/server/gemiwell/reports"
	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/config"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the API server
type Server struct {
	db          *pgxpool.Pool
	redis       *redis.Client
	config      *config.Config
	profileRepo *profiles.Repository
	messageRepo *messages.Repository
	reportRepo  *reports.Repository
	services    *Services
	hub         *feed.Hub
	publisher   *feed.RedisPublisher
	limit       gin.HandlerFunc
	router      *gin.Engine
}

// holds the model-backed services
type Services struct {
	Assistant *assistant.Assistant
	Generator llm.StructuredGenerator
	Embedder  llm.Embedder // nil when embeddings are disabled
}
