package messages

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles chat message database operations
type Repository struct {
	db *pgxpool.Pool
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// postgres timestamptz precision
const timestampResolution = time.Microsecond

type exchangeRow struct {
	role      Role
	content   string
	createdAt time.Time
}

type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
