package profiles

import (
	"context"
	"errors"

	"codeberg.org/gemiwell/server/internal/assistant"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, userID string) (*Profile, error) {
	profile, err := scanProfile(r.db.QueryRow(ctx, queryGet, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

// creates the profile if missing and merges the provided fields into it
func (r *Repository) Upsert(ctx context.Context, userID string, req UpdateRequest) (*Profile, error) {
	return scanProfile(r.db.QueryRow(
		ctx,
		queryUpsert,
		userID,
		req.DisplayName,
		req.Age,
		req.Conditions,
		req.Habits,
		req.Diet,
		req.Height,
		req.Weight,
		req.UserCategory,
		req.Hospital,
		req.BadgeNumber,
	))
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile

	err := row.Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Age,
		&p.Conditions,
		&p.Habits,
		&p.Diet,
		&p.Height,
		&p.Weight,
		&p.UserCategory,
		&p.Hospital,
		&p.BadgeNumber,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// the health context fed into chat; nil when the profile carries none
func (p *Profile) HealthProfile() *assistant.HealthProfile {
	if p == nil {
		return nil
	}

	hp := assistant.HealthProfile{
		Conditions: p.Conditions,
		Habits:     p.Habits,
		Diet:       p.Diet,
		Height:     p.Height,
		Weight:     p.Weight,
		Age:        p.Age,
	}

	if hp == (assistant.HealthProfile{}) {
		return nil
	}

	return &hp
}
