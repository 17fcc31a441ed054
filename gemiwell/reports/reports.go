package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/media"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

var ErrReportNotFound = errors.New("report not found")

const dateLabelLayout = "January 2, 2006"

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// embedding may be nil when embeddings are disabled or failed
func (r *Repository) Create(ctx context.Context, userID string, draft Draft, embedding []float32) (*Report, error) {
	return scanReport(r.db.QueryRow(ctx, queryCreate, createArgs(userID, draft, embedding)...))
}

// positional arguments for queryCreate
func createArgs(userID string, draft Draft, embedding []float32) []any {
	var vector any
	if len(embedding) > 0 {
		vector = pgvector.NewVector(embedding)
	}

	return []any{
		userID,
		draft.OriginalText,
		draft.Summary,
		draft.Confidence,
		insightsColumn{draft.StructuredData},
		draft.IsMedical,
		string(draft.Kind),
		draft.Attachment,
		draft.AttachmentTooLarge,
		draft.DateLabel,
		vector,
	}
}

// newest first, with the total count for pagination
func (r *Repository) List(ctx context.Context, userID string, limit, offset int) ([]Report, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, queryCountByUser, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	list, err := r.query(ctx, queryList, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// the n most recent reports
func (r *Repository) Recent(ctx context.Context, userID string, n int) ([]Report, error) {
	return r.query(ctx, queryList, userID, n, 0)
}

// the n reports whose summaries are closest to the embedding
func (r *Repository) SearchSimilar(ctx context.Context, userID string, embedding []float32, n int) ([]Report, error) {
	return r.query(ctx, querySearchSimilar, userID, pgvector.NewVector(embedding), n)
}

func (r *Repository) Get(ctx context.Context, reportID, userID string) (*Report, error) {
	report, err := scanReport(r.db.QueryRow(ctx, queryGet, reportID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}

	return report, err
}

func (r *Repository) Delete(ctx context.Context, reportID, userID string) error {
	result, err := r.db.Exec(ctx, queryDelete, reportID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrReportNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Report, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Report{}

	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}

		list = append(list, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func scanReport(row pgx.Row) (*Report, error) {
	var rep Report
	var insights insightsColumn

	err := row.Scan(
		&rep.ID,
		&rep.UserID,
		&rep.OriginalText,
		&rep.Summary,
		&rep.Confidence,
		&insights,
		&rep.IsMedical,
		&rep.Kind,
		&rep.Attachment,
		&rep.AttachmentTooLarge,
		&rep.DateLabel,
		&rep.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	rep.StructuredData = insights.value

	return &rep, nil
}

// builds the stored form of a successful analysis
func NewDraft(text string, docs []media.Document, out assistant.ReportOutput, now time.Time) Draft {
	draft := Draft{
		OriginalText: originalText(text, out.RawExtractedText, len(docs)),
		Summary:      out.Summary,
		IsMedical:    out.IsMedical,
		Kind:         media.KindOf(docs),
		DateLabel:    now.Format(dateLabelLayout),
	}

	if out.ConfidenceLevel != nil {
		draft.Confidence = *out.ConfidenceLevel
	}

	if !out.StructuredInsights.IsZero() {
		draft.StructuredData = out.StructuredInsights
	}

	if len(docs) > 0 {
		uri := docs[0].DataURI()

		if len(uri) < media.MaxStoredDataURIBytes {
			draft.Attachment = uri
		} else {
			draft.AttachmentTooLarge = true
		}
	}

	return draft
}

func originalText(input, extracted string, attachments int) string {
	if strings.TrimSpace(input) != "" {
		return input
	}

	if strings.TrimSpace(extracted) != "" {
		return extracted
	}

	return fmt.Sprintf("Captured from %d attachments", attachments)
}

// the form chat uses as context
func (r Report) Snapshot() assistant.ReportSnapshot {
	return assistant.ReportSnapshot{
		Summary:        r.Summary,
		DateLabel:      r.DateLabel,
		StructuredData: r.StructuredData,
	}
}

func Snapshots(list []Report) []assistant.ReportSnapshot {
	out := make([]assistant.ReportSnapshot, 0, len(list))
	for _, r := range list {
		out = append(out, r.Snapshot())
	}

	return out
}
