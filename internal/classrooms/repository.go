package classrooms

import (
	"context"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// RepositoryPort defines data access methods for classrooms.
type RepositoryPort interface {
	// Create inserts a classroom. A (schoolId, name) collision yields
	// shared.ErrDuplicate.
	Create(ctx context.Context, classroom Classroom) (Classroom, error)
	Get(ctx context.Context, id string) (*Classroom, error)
	FindByName(ctx context.Context, schoolID, name string) (*Classroom, error)
	List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]Classroom, int, error)
	// Update loads the classroom under a row lock, applies fn and persists the result.
	Update(ctx context.Context, id string, fn func(*Classroom) error) (Classroom, error)
	Delete(ctx context.Context, id string) error
	CountStudents(ctx context.Context, id string) (int, error)
}

// SchoolDirectory resolves school references.
type SchoolDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}
