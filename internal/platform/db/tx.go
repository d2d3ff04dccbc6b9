package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner starts transactions; *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// txOptions pairs with the SELECT ... FOR UPDATE row locks in the repositories.
var txOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// WithTx runs fn inside a transaction, committing when fn succeeds and rolling
// back otherwise.
func WithTx(ctx context.Context, beginner TxBeginner, fn func(pgx.Tx) error) error {
	tx, err := beginner.BeginTx(ctx, txOptions)
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}
	return nil
}
