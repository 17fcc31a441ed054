package chat

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"codeberg.org/gemiwell/server/api/rest/pagination"
	"codeberg.org/gemiwell/server/gemiwell/profiles"
	"codeberg.org/gemiwell/server/gemiwell/reports"
	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/auth"
	"codeberg.org/gemiwell/server/internal/errors"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Handler godoc
// @Summary Ask the health coach
// @Description Generation failures come back as 200 with {"error": message}; nothing is stored for them
// @Tags chat
// @Accept json
// @Produce json
// @Param request body Request true "Chat query"
// @Success 200 {object} assistant.AdviceOutput
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/chat [post]
// @Security BearerAuth
func Handler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid request body", err)
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)

		input := assistant.AdviceInput{
			Query:         req.Query,
			HealthProfile: loadProfile(ctx, log, deps.Profiles, userID),
			RecentReports: reports.Snapshots(loadReports(ctx, log, deps, userID, req.Query)),
		}

		result := deps.Assistant.Advise(ctx, input)
		if !result.OK() {
			c.JSON(http.StatusOK, result)
			return
		}

		created, err := deps.Messages.CreateExchange(ctx, userID, req.Query, result.Output().Advice)
		if err != nil {
			errors.InternalError(c, "failed to save conversation", err)
			return
		}

		for _, msg := range created {
			feed.Notify(ctx, deps.Publisher, userID, feed.TypeMessageCreated, feed.CollectionMessages, msg.ID, msg)
		}

		c.JSON(http.StatusOK, result)
	}
}

// HistoryHandler godoc
// @Summary Chat history
// @Description Oldest first
// @Tags chat
// @Produce json
// @Param limit query int false "Max messages (default 100, max 500)"
// @Success 200 {object} HistoryResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/chat/messages [get]
// @Security BearerAuth
func HistoryHandler(store MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		params := pagination.FromQuery(c, defaultHistoryLimit, maxHistoryLimit)

		list, err := store.List(c.Request.Context(), userID, params.Limit)
		if err != nil {
			errors.InternalError(c, "failed to load messages", err)
			return
		}

		c.JSON(http.StatusOK, HistoryResponse{Messages: list})
	}
}

// the profile is optional context; lookup failures only cost personalisation
func loadProfile(ctx context.Context, log *slog.Logger, store ProfileGetter, userID string) *assistant.HealthProfile {
	profile, err := store.Get(ctx, userID)
	if err != nil {
		if !stderrors.Is(err, profiles.ErrProfileNotFound) {
			log.Warn("failed to load profile for chat", "error", err)
		}
		return nil
	}

	return profile.HealthProfile()
}

// most similar reports when embeddings are on, otherwise the most recent
func loadReports(ctx context.Context, log *slog.Logger, deps Deps, userID, query string) []reports.Report {
	if deps.Embedder != nil && query != "" {
		embedding, err := deps.Embedder.GenerateEmbedding(ctx, query)
		if err == nil {
			similar, err := deps.Reports.SearchSimilar(ctx, userID, embedding, contextReports)
			if err == nil && len(similar) > 0 {
				return similar
			}

			if err != nil {
				log.Warn("report similarity search failed", "error", err)
			}
		} else {
			log.Warn("failed to embed chat query", "error", err)
		}
	}

	recent, err := deps.Reports.Recent(ctx, userID, contextReports)
	if err != nil {
		log.Warn("failed to load recent reports for chat", "error", err)
		return nil
	}

	return recent
}
