package schools

import (
	"context"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// RepositoryPort defines data access methods for schools.
type RepositoryPort interface {
	// Create inserts a school. A name or contact email collision yields
	// shared.ErrDuplicate.
	Create(ctx context.Context, school School) (School, error)
	Get(ctx context.Context, id string) (*School, error)
	// List returns one page of schools, newest first, and the total count.
	List(ctx context.Context, page shared.PageRequest) ([]School, int, error)
	// Update loads the school under a row lock, applies fn and persists the result.
	Update(ctx context.Context, id string, fn func(*School) error) (School, error)
	Delete(ctx context.Context, id string) error
	// FindByNameOrEmail returns a school whose name or contact email matches.
	FindByNameOrEmail(ctx context.Context, name, email string) (*School, error)
	// CountClassrooms reports how many classrooms reference the school.
	CountClassrooms(ctx context.Context, id string) (int, error)
}
