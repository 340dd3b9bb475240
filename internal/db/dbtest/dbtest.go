// Package dbtest provides an in-memory SQLite database with the store schema
// for tests.
package dbtest

import (
	"context"
	"testing"

	"ctchen222/game-store/internal/config"
	"ctchen222/game-store/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// New returns a fresh, schema-initialized in-memory database closed on cleanup.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	DB, err := db.Open(context.Background(), config.DriverSQLite, ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = DB.Close() })
	return DB
}
