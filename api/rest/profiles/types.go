package profiles

import (
	"context"

	"codeberg.org/gemiwell/server/gemiwell/profiles"
)

type ProfileStore interface {
	Get(ctx context.Context, userID string) (*profiles.Profile, error)
	Upsert(ctx context.Context, userID string, req profiles.UpdateRequest) (*profiles.Profile, error)
}
