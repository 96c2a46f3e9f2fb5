package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.Len(t, names, 2)

	for _, name := range names {
		b, err := fs.ReadFile(Migrations, name)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(b), "-- +goose Up"), name)
		assert.True(t, strings.Contains(string(b), "-- +goose Down"), name)
	}
}

func TestRefreshTokensSchema(t *testing.T) {
	b, err := fs.ReadFile(Migrations, "00002_create_refresh_tokens.sql")
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, "token      text NOT NULL UNIQUE")
	assert.Contains(t, s, "revoked_at timestamptz NULL")
	assert.Contains(t, s, "ON refresh_tokens (user_id)")
}
