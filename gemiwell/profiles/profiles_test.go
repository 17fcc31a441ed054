package profiles

import (
	"errors"
	"testing"
	"time"

	"codeberg.org/gemiwell/server/internal/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	for i, d := range dest {
		switch ptr := d.(type) {
		case *string:
			*ptr = r.values[i].(string)
		case *Category:
			*ptr = Category(r.values[i].(string))
		case *time.Time:
			*ptr = r.values[i].(time.Time)
		}
	}

	return nil
}

func TestScanProfile(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	p, err := scanProfile(fakeRow{values: []any{
		"user-1", "Ana", "52", "type 2 diabetes", "walks daily", "low carb", "176", "81", "patient", "", "", now, now,
	}})

	require.NoError(t, err)
	assert.Equal(t, "Ana", p.DisplayName)
	assert.Equal(t, CategoryPatient, p.UserCategory)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestScanProfileError(t *testing.T) {
	boom := errors.New("boom")

	p, err := scanProfile(fakeRow{err: boom})
	assert.Nil(t, p)
	assert.ErrorIs(t, err, boom)
}

func TestHealthProfile(t *testing.T) {
	var missing *Profile
	assert.Nil(t, missing.HealthProfile())

	blank := &Profile{UserID: "user-1", DisplayName: "Ana", UserCategory: CategoryNormal}
	assert.Nil(t, blank.HealthProfile())

	full := &Profile{Age: "52", Weight: "81", Height: "176", Conditions: "asthma"}
	assert.Equal(t, &assistant.HealthProfile{Age: "52", Weight: "81", Height: "176", Conditions: "asthma"}, full.HealthProfile())
}
