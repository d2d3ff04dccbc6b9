package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schooladmin/schooladmin/internal/platform/db"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const accountColumns = `id, username, email, first_name, last_name, role, password_hash, created_at, updated_at`

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, a Account) (Account, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Username, a.Email, a.FirstName, a.LastName, a.Role, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if _, ok := db.IsUniqueViolation(err); ok {
			return Account{}, shared.Duplicate(MsgDuplicate)
		}
		return Account{}, fmt.Errorf("users: insert account: %w", err)
	}
	return a, nil
}

// FindByLogin returns the account whose username or email matches.
func (r *Repository) FindByLogin(ctx context.Context, username, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		ORDER BY username = $1 DESC
		LIMIT 1`, username, email)
	var a Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.Role, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, shared.NotFound(MsgNotFound)
		}
		return nil, fmt.Errorf("users: find account: %w", err)
	}
	return &a, nil
}

// List returns one page of accounts, newest first.
func (r *Repository) List(ctx context.Context, page shared.PageRequest) ([]Account, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: count accounts: %w", err)
	}
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("users: list accounts: %w", err)
	}
	defer rows.Close()
	accounts := make([]Account, 0, page.Limit)
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.Role, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, a)
	}
	return accounts, total, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
