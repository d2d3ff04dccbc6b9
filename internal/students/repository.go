package students

import (
	"context"

	"github.com/schooladmin/schooladmin/internal/classrooms"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// RepositoryPort defines data access methods for students.
type RepositoryPort interface {
	Create(ctx context.Context, student Student) (Student, error)
	Get(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]Student, int, error)
	// Update loads the student under a row lock, applies fn and persists the
	// result in the same transaction.
	Update(ctx context.Context, id string, fn func(*Student) error) (Student, error)
	Delete(ctx context.Context, id string) error
}

// SchoolDirectory resolves school references.
type SchoolDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ClassroomDirectory resolves classroom references.
type ClassroomDirectory interface {
	Get(ctx context.Context, id string) (*classrooms.Classroom, error)
}
