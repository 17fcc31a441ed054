package chat

import (
	"context"

	"codeberg.org/gemiwell/server/gemiwell/messages"
	"codeberg.org/gemiwell/server/gemiwell/profiles"
	"codeberg.org/gemiwell/server/gemiwell/reports"
	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/feed"
	"codeberg.org/gemiwell/server/internal/llm"
	"codeberg.org/gemiwell/server/internal/moderation"
)

// how many reports are fed into a chat prompt
const contextReports = 3

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 500
)

type Advisor interface {
	Advise(ctx context.Context, in assistant.AdviceInput) moderation.Result[assistant.AdviceOutput]
}

type ProfileGetter interface {
	Get(ctx context.Context, userID string) (*profiles.Profile, error)
}

type ReportFinder interface {
	Recent(ctx context.Context, userID string, n int) ([]reports.Report, error)
	SearchSimilar(ctx context.Context, userID string, embedding []float32, n int) ([]reports.Report, error)
}

type MessageStore interface {
	CreateExchange(ctx context.Context, userID, query, answer string) ([]messages.Message, error)
	List(ctx context.Context, userID string, limit int) ([]messages.Message, error)
}

// Embedder is nil when embeddings are disabled
type Deps struct {
	Assistant Advisor
	Profiles  ProfileGetter
	Reports   ReportFinder
	Messages  MessageStore
	Embedder  llm.Embedder
	Publisher feed.Publisher
}

// Request represents the body of a chat turn; content rules are enforced by the advisor
type Request struct {
	Query string `json:"query"`
}

type HistoryResponse struct {
	Messages []messages.Message `json:"messages"`
}
