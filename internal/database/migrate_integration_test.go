//go:build integration

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/migrations"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	applied, err := Migrate(ctx, db, migrations.FS)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run applies nothing")

	var count int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 1, count)
	assert.NoError(t, db.HealthCheck(ctx))
}
