package users

import (
	"context"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// RepositoryPort defines data access methods for accounts.
type RepositoryPort interface {
	// Create inserts a new account. A username or email collision yields
	// shared.ErrDuplicate.
	Create(ctx context.Context, account Account) (Account, error)
	// FindByLogin returns the account matching username or email.
	FindByLogin(ctx context.Context, username, email string) (*Account, error)
	List(ctx context.Context, page shared.PageRequest) ([]Account, int, error)
}
