package db_test

import (
	"context"
	"errors"
	"testing"

	"ctchen222/game-store/internal/config"
	"ctchen222/game-store/internal/db"
	"ctchen222/game-store/internal/db/dbtest"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countUsers(t *testing.T, DB *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, DB.Get(&n, `SELECT COUNT(*) FROM users`))
	return n
}

func insertUser(ctx context.Context, q sqlx.ExecerContext, id, email string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role) VALUES (?, 'n', ?, 'h', 'User')`, id, email)
	return err
}

func TestInitializeDB_Idempotent(t *testing.T) {
	DB := dbtest.New(t)
	require.NoError(t, db.InitializeDB(context.Background(), DB))
	assert.Equal(t, 0, countUsers(t, DB))
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := db.Connect(context.Background(), "nope", "whatever")
	assert.Error(t, err)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	DB := dbtest.New(t)

	err := db.WithTx(context.Background(), DB, func(ctx context.Context, tx *sqlx.Tx) error {
		return insertUser(ctx, tx, "u1", "alice@example.com")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countUsers(t, DB), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	DB := dbtest.New(t)

	err := db.WithTx(context.Background(), DB, func(ctx context.Context, tx *sqlx.Tx) error {
		require.NoError(t, insertUser(ctx, tx, "u1", "alice@example.com"))
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 0, countUsers(t, DB), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	DB := dbtest.New(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		assert.Equal(t, 0, countUsers(t, DB), "must rollback on panic")
	}()

	_ = db.WithTx(context.Background(), DB, func(ctx context.Context, tx *sqlx.Tx) error {
		require.NoError(t, insertUser(ctx, tx, "u1", "alice@example.com"))
		panic("kaput")
	})
}

func TestIsUniqueViolation(t *testing.T) {
	DB := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, insertUser(ctx, DB, "u1", "alice@example.com"))

	err := insertUser(ctx, DB, "u2", "alice@example.com")
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err), "duplicate email: %v", err)

	err = insertUser(ctx, DB, "u1", "bob@example.com")
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err), "duplicate primary key: %v", err)

	assert.False(t, db.IsUniqueViolation(nil))
	assert.False(t, db.IsUniqueViolation(errors.New("connection refused")))
}

func TestForeignKeysCascade(t *testing.T) {
	DB := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, insertUser(ctx, DB, "u1", "alice@example.com"))
	_, err := DB.Exec(`INSERT INTO games (id, title, title_key, description, price_cents) VALUES ('g1', 'Minecraft', 'minecraft', '', 100)`)
	require.NoError(t, err)
	_, err = DB.Exec(`INSERT INTO user_games (user_id, game_id) VALUES ('u1', 'g1')`)
	require.NoError(t, err)

	_, err = DB.Exec(`DELETE FROM games WHERE id = 'g1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, DB.Get(&n, `SELECT COUNT(*) FROM user_games`))
	assert.Equal(t, 0, n)
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"file:store.db?_pragma=busy_timeout(5000)", "file:store.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"file:store.db?_pragma=foreign_keys(1)", "file:store.db?_pragma=foreign_keys(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, db.WithForeignKeys(tt.dsn))
		})
	}
}

func TestConnect_SQLiteEnforcesForeignKeys(t *testing.T) {
	DB, err := db.Connect(context.Background(), config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = DB.Close() })

	var enabled int
	require.NoError(t, DB.Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)
}

func TestDriverConstants(t *testing.T) {
	DB := dbtest.New(t)
	assert.Equal(t, config.DriverSQLite, DB.DriverName())
}
