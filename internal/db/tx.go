package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// WithTx begins a transaction, runs fn with it, and commits on success or
// rolls back on error or panic. Panics are rethrown.
//
// fn must use tx for every statement: SQLite pools hold a single connection,
// so touching the pool from inside fn blocks forever.
func WithTx(ctx context.Context, DB *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
