package reports

import (
	"context"

	"codeberg.org/gemiwell/server/api/rest/pagination"
	"codeberg.org/gemiwell/server/gemiwell/profiles"
	"codeberg.org/gemiwell/server/gemiwell/reports"
	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/llm"
	"codeberg.org/gemiwell/server/internal/media"
	"codeberg.org/gemiwell/server/internal/moderation"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	// every attachment at the size limit, base64 encoded, plus room for the text
	maxBodyBytes = media.MaxDocuments*media.MaxDocumentBytes*4/3 + 1<<20
)

type Analyzer interface {
	AnalyzeReport(ctx context.Context, in assistant.ReportInput) moderation.Result[assistant.ReportOutput]
}

type ReportStore interface {
	Create(ctx context.Context, userID string, draft reports.Draft, embedding []float32) (*reports.Report, error)
	List(ctx context.Context, userID string, limit, offset int) ([]reports.Report, int, error)
	Get(ctx context.Context, reportID, userID string) (*reports.Report, error)
	Delete(ctx context.Context, reportID, userID string) error
}

type ProfileGetter interface {
	Get(ctx context.Context, userID string) (*profiles.Profile, error)
}

// Embedder is nil when embeddings are disabled
type Deps struct {
	Assistant Analyzer
	Reports   ReportStore
	Profiles  ProfileGetter
	Embedder  llm.Embedder
	Publisher feed.Publisher
}

// Request represents an upload; content rules are enforced by the analyzer
type Request struct {
	ReportText string `json:"report_text"`
	// base64 data URIs of photos or PDFs
	Documents []string `json:"documents"`
}

type ListResponse struct {
	Reports    []reports.Report `json:"reports"`
	Pagination pagination.Meta  `json:"pagination"`
}
