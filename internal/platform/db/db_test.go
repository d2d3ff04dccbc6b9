package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	opts pgx.TxOptions
	tx   *fakeTx
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = opts
	b.tx = &fakeTx{}
	return b.tx, nil
}

func TestWithTxCommitsAtReadCommitted(t *testing.T) {
	b := &fakeBeginner{}

	require.NoError(t, WithTx(context.Background(), b, func(pgx.Tx) error { return nil }))

	assert.Equal(t, pgx.ReadCommitted, b.opts.IsoLevel)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	b := &fakeBeginner{}
	boom := errors.New("boom")

	err := WithTx(context.Background(), b, func(pgx.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, b.tx.committed)
	assert.True(t, b.tx.rolledBack)
}

func TestConstraintViolations(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_schools_name"})
	fk := fmt.Errorf("delete: %w", &pgconn.PgError{Code: "23503", ConstraintName: "fk_students_classroom"})

	name, ok := IsUniqueViolation(unique)
	assert.True(t, ok)
	assert.Equal(t, "uq_schools_name", name)
	_, ok = IsUniqueViolation(fk)
	assert.False(t, ok)

	name, ok = IsForeignKeyViolation(fk)
	assert.True(t, ok)
	assert.Equal(t, "fk_students_classroom", name)
	_, ok = IsForeignKeyViolation(unique)
	assert.False(t, ok)
	_, ok = IsForeignKeyViolation(errors.New("plain"))
	assert.False(t, ok)
}
