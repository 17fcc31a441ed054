package profiles

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles profile database operations
type Repository struct {
	db *pgxpool.Pool
}

type Category string

const (
	CategoryDoctor  Category = "doctor"
	CategoryPatient Category = "patient"
	CategoryNormal  Category = "normal"
)

// a user's health profile; one per user
type Profile struct {
	UserID       string    `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Age          string    `json:"age"`
	Conditions   string    `json:"conditions"`
	Habits       string    `json:"habits"`
	Diet         string    `json:"diet"`
	Height       string    `json:"height"`
	Weight       string    `json:"weight"`
	UserCategory Category  `json:"user_category"`
	Hospital     string    `json:"hospital,omitempty"`
	BadgeNumber  string    `json:"badge_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// nil fields are left unchanged
type UpdateRequest struct {
	DisplayName  *string `json:"display_name,omitempty" binding:"omitempty,max=200"`
	Age          *string `json:"age,omitempty" binding:"omitempty,max=16"`
	Conditions   *string `json:"conditions,omitempty" binding:"omitempty,max=2000"`
	Habits       *string `json:"habits,omitempty" binding:"omitempty,max=2000"`
	Diet         *string `json:"diet,omitempty" binding:"omitempty,max=2000"`
	Height       *string `json:"height,omitempty" binding:"omitempty,max=32"`
	Weight       *string `json:"weight,omitempty" binding:"omitempty,max=32"`
	UserCategory *string `json:"user_category,omitempty" binding:"omitempty,oneof=doctor patient normal"`
	Hospital     *string `json:"hospital,omitempty" binding:"omitempty,max=200"`
	BadgeNumber  *string `json:"badge_number,omitempty" binding:"omitempty,max=64"`
}
