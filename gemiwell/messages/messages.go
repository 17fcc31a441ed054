package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// stores a query and its answer together; neither is kept if either insert fails
func (r *Repository) CreateExchange(ctx context.Context, userID, query, answer string) ([]Message, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range exchangeRows(query, answer, time.Now()) {
		batch.Queue(queryCreate, userID, string(row.role), row.content, row.createdAt)
	}

	br := tx.SendBatch(ctx, batch)

	created := make([]Message, 0, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		msg, err := scanMessage(br.QueryRow())
		if err != nil {
			br.Close()
			return nil, fmt.Errorf("failed to insert message %d: %w", i, err)
		}

		created = append(created, *msg)
	}

	// batch results must be closed before commit, the connection is busy until then
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// the answer is stamped one tick after the query so history never shows it first
func exchangeRows(query, answer string, now time.Time) []exchangeRow {
	asked := now.UTC().Truncate(timestampResolution)

	return []exchangeRow{
		{role: RoleUser, content: query, createdAt: asked},
		{role: RoleAssistant, content: answer, createdAt: asked.Add(timestampResolution)},
	}
}

// chat history ascending by creation
func (r *Repository) List(ctx context.Context, userID string, limit int) ([]Message, error) {
	rows, err := r.db.Query(ctx, queryList, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Message{}

	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}

		list = append(list, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message

	if err := row.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
		return nil, err
	}

	return &m, nil
}
