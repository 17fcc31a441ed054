package reports

import (
	stderrors "errors"
	"net/http"
	"time"

	"codeberg.org/gemiwell/server/api/rest/pagination"
	"codeberg.org/gemiwell/server/gemiwell/reports"
	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/auth"
	"codeberg.org/gemiwell/server/internal/errors"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/logger"
	"codeberg.org/gemiwell/server/internal/media"
	"github.com/gin-gonic/gin"
)

// AnalyzeHandler godoc
// @Summary Analyze a medical report
// @Description Accepts report text and/or up to 10 photo or PDF data URIs. Generation failures come back as 200 with {"error": message} and nothing is stored.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body Request true "Report text and attachments"
// @Success 200 {object} assistant.ReportOutput
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/v1/reports/analyze [post]
// @Security BearerAuth
func AnalyzeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				errors.PayloadTooLarge(c, "upload exceeds the size limit")
				return
			}

			errors.BadRequest(c, "invalid request body", err)
			return
		}

		docs, err := media.ParseAll(req.Documents)
		if err != nil {
			attachmentError(c, err)
			return
		}

		ctx := c.Request.Context()

		docs, err = media.CompressAll(ctx, docs)
		if err != nil {
			attachmentError(c, err)
			return
		}

		uris := make([]string, len(docs))
		for i, doc := range docs {
			uris[i] = doc.DataURI()
		}

		result := deps.Assistant.AnalyzeReport(ctx, assistant.ReportInput{
			ReportText: req.ReportText,
			Documents:  uris,
			UserName:   displayName(c, deps.Profiles, userID),
		})

		if !result.OK() {
			c.JSON(http.StatusOK, result)
			return
		}

		draft := reports.NewDraft(req.ReportText, docs, result.Output(), time.Now())

		report, err := deps.Reports.Create(ctx, userID, draft, embed(c, deps, draft.Summary))
		if err != nil {
			errors.InternalError(c, "failed to save report", err)
			return
		}

		feed.Notify(ctx, deps.Publisher, userID, feed.TypeReportCreated, feed.CollectionReports, report.ID, report)

		c.Header("Location", "/api/v1/reports/"+report.ID)
		c.JSON(http.StatusOK, result)
	}
}

// ListHandler godoc
// @Summary List reports
// @Description Newest first; attachments are omitted
// @Tags reports
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/reports [get]
// @Security BearerAuth
func ListHandler(store ReportStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		params := pagination.FromQuery(c, defaultListLimit, maxListLimit)

		list, total, err := store.List(c.Request.Context(), userID, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list reports", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Reports:    list,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// GetHandler godoc
// @Summary Get a report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} reports.Report
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/reports/{id} [get]
// @Security BearerAuth
func GetHandler(store ReportStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		reportID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		report, err := store.Get(c.Request.Context(), reportID, userID)
		if stderrors.Is(err, reports.ErrReportNotFound) {
			errors.NotFound(c, "report")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to load report", err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

// DeleteHandler godoc
// @Summary Delete a report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/reports/{id} [delete]
// @Security BearerAuth
func DeleteHandler(store ReportStore, publisher feed.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		reportID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		err := store.Delete(c.Request.Context(), reportID, userID)
		if stderrors.Is(err, reports.ErrReportNotFound) {
			errors.NotFound(c, "report")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to delete report", err)
			return
		}

		feed.Notify(c.Request.Context(), publisher, userID, feed.TypeReportDeleted, feed.CollectionReports, reportID, nil)

		c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
	}
}

func attachmentError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, media.ErrTooLarge):
		errors.PayloadTooLarge(c, err.Error())
	case stderrors.Is(err, media.ErrTooManyDocuments):
		errors.BadRequest(c, "at most 10 attachments are allowed", nil)
	default:
		errors.BadRequest(c, err.Error(), nil)
	}
}

func displayName(c *gin.Context, store ProfileGetter, userID string) string {
	profile, err := store.Get(c.Request.Context(), userID)
	if err != nil {
		return ""
	}

	return profile.DisplayName
}

// a failed embedding only costs similarity search for this report
func embed(c *gin.Context, deps Deps, summary string) []float32 {
	if deps.Embedder == nil {
		return nil
	}

	embedding, err := deps.Embedder.GenerateEmbedding(c.Request.Context(), summary)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("failed to embed report summary", "error", err)
		return nil
	}

	return embedding
}
