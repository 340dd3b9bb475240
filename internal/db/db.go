package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ctchen222/game-store/internal/config"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('User', 'Admin'))
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		title_key TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS user_games (
		user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		game_id TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, game_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_games_game_id ON user_games (game_id)`,
}

// Connect opens a connection pool for the given driver ("sqlite" or "pgx")
// and verifies it with a ping.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == config.DriverSQLite {
		dsn = WithForeignKeys(dsn)
	}

	pool, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == config.DriverSQLite {
		// SQLite allows a single writer; one connection serializes writes
		// and keeps in-memory databases alive for the pool's lifetime.
		pool.SetMaxOpenConns(1)
	}

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// WithForeignKeys adds the foreign_keys pragma to a SQLite DSN unless it
// already sets it. The driver applies DSN pragmas to every new connection.
func WithForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// InitializeDB creates the users, games and user_games tables if needed.
func InitializeDB(ctx context.Context, DB *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	slog.InfoContext(ctx, "DB connection initialized and schema verified.", "driver", DB.DriverName())
	return nil
}

// Open connects and initializes the schema in one step.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	DB, err := Connect(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := InitializeDB(ctx, DB); err != nil {
		_ = DB.Close()
		return nil, err
	}
	return DB, nil
}
