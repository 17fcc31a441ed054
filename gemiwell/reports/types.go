package reports

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/media"
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles report database operations
type Repository struct {
	db *pgxpool.Pool
}

type Report struct {
	ID                 string                        `json:"id"`
	UserID             string                        `json:"user_id"`
	OriginalText       string                        `json:"original_text"`
	Summary            string                        `json:"summary"`
	Confidence         float64                       `json:"confidence"`
	StructuredData     *assistant.StructuredInsights `json:"structured_data,omitempty"`
	IsMedical          *bool                         `json:"is_medical,omitempty"`
	Kind               media.ReportKind              `json:"type"`
	Attachment         string                        `json:"attachment,omitempty"` // data URI
	AttachmentTooLarge bool                          `json:"attachment_too_large,omitempty"`
	DateLabel          string                        `json:"date_label"`
	CreatedAt          time.Time                     `json:"created_at"`
}

// a report ready to be stored
type Draft struct {
	OriginalText       string
	Summary            string
	Confidence         float64
	StructuredData     *assistant.StructuredInsights
	IsMedical          *bool
	Kind               media.ReportKind
	Attachment         string
	AttachmentTooLarge bool
	DateLabel          string
}

// structured_data jsonb column, NULL when nothing was extracted
type insightsColumn struct {
	value *assistant.StructuredInsights
}

func (c insightsColumn) Value() (driver.Value, error) {
	if c.value.IsZero() {
		return nil, nil
	}

	data, err := json.Marshal(c.value)
	if err != nil {
		return nil, err
	}

	return string(data), nil
}

func (c *insightsColumn) Scan(value any) error {
	var data []byte

	switch v := value.(type) {
	case nil:
		c.value = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported structured_data value %T", value)
	}

	var insights assistant.StructuredInsights
	if err := json.Unmarshal(data, &insights); err != nil {
		return err
	}

	c.value = &insights
	return nil
}
