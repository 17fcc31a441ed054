package main

import (
	"bytes"
	"strings"
	"testing"

	"codeberg.org/gemiwell/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrintsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret-for-tests")

	var out bytes.Buffer
	require.NoError(t, run([]string{"user-42", "dev@example.com"}, &out))

	claims, err := auth.ValidateJWT(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "dev@example.com", claims.Email)
}

func TestRunEmailOptional(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret-for-tests")

	var out bytes.Buffer
	require.NoError(t, run([]string{"user-42"}, &out))

	claims, err := auth.ValidateJWT(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {""}, {"a", "b", "c"}} {
		assert.ErrorIs(t, run(args, &bytes.Buffer{}), errUsage)
	}
}

func TestRunMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	var out bytes.Buffer
	assert.ErrorContains(t, run([]string{"user-42"}, &out), "JWT_SECRET not set")
	assert.Empty(t, out.String())
}
