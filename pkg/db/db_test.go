package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=rw&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("a.db?mode=rw"))
	assert.Equal(t, "a.db?_pragma=journal_mode(wal)", sqliteDSN("a.db?_pragma=journal_mode(wal)"))
}

func TestOpenAndMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "omics.db")

	odb, err := OpenAndMigrate(ctx, DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, odb.Migrate(ctx))

	var n int
	require.NoError(t, odb.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('organisms', 'genes', 'proteins', 'profile_history')`))
	assert.Equal(t, 4, n)
	require.NoError(t, odb.Close())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "nope", "x")
	require.Error(t, err)
}
