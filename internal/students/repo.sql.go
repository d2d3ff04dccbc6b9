package students

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
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

// Create inserts a new student document.
func (r *Repository) Create(ctx context.Context, s Student) (Student, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return Student{}, err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO students (id, school_id, classroom_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.SchoolID, s.ClassroomID, doc, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if missing := missingReference(err); missing != nil {
			return Student{}, missing
		}
		return Student{}, fmt.Errorf("students: insert: %w", err)
	}
	return s, nil
}

// Get returns the student with id.
func (r *Repository) Get(ctx context.Context, id string) (*Student, error) {
	s, err := scanStudent(r.pool.QueryRow(ctx, `SELECT doc FROM students WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, shared.NotFound(MsgNotFound)
		}
		return nil, fmt.Errorf("students: get: %w", err)
	}
	return s, nil
}

// List returns one page of students matching filter.
func (r *Repository) List(ctx context.Context, f ListFilter, page shared.PageRequest) ([]Student, int, error) {
	const where = `WHERE ($1 = '' OR id = $1) AND ($2 = '' OR school_id = $2) AND ($3 = '' OR classroom_id = $3)`
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students `+where,
		f.ID, f.SchoolID, f.ClassroomID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("students: count: %w", err)
	}
	rows, err := r.pool.Query(ctx, `SELECT doc FROM students `+where+`
		ORDER BY created_at, id LIMIT $4 OFFSET $5`,
		f.ID, f.SchoolID, f.ClassroomID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("students: list: %w", err)
	}
	defer rows.Close()
	result := make([]Student, 0, page.Limit)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *s)
	}
	return result, total, rows.Err()
}

// Update applies fn to the locked student row inside one transaction.
func (r *Repository) Update(ctx context.Context, id string, fn func(*Student) error) (Student, error) {
	var updated Student
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		s, err := scanStudent(tx.QueryRow(ctx, `SELECT doc FROM students WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if db.IsNoRows(err) {
				return shared.NotFound(MsgNotFound)
			}
			return fmt.Errorf("students: lock: %w", err)
		}
		if err := fn(s); err != nil {
			return err
		}
		doc, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE students SET school_id = $2, classroom_id = $3, doc = $4, updated_at = $5 WHERE id = $1`,
			id, s.SchoolID, s.ClassroomID, doc, s.UpdatedAt)
		if err != nil {
			if missing := missingReference(err); missing != nil {
				return missing
			}
			return fmt.Errorf("students: update: %w", err)
		}
		updated = *s
		return nil
	})
	return updated, err
}

// Delete removes the student with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("students: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound(MsgNotFound)
	}
	return nil
}

func scanStudent(row pgx.Row) (*Student, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var s Student
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("students: decode document: %w", err)
	}
	if s.TransferHistory == nil {
		s.TransferHistory = []Transfer{}
	}
	return &s, nil
}

// missingReference maps a foreign key violation to the not-found error of the
// parent that vanished, or returns nil.
func missingReference(err error) error {
	constraint, ok := db.IsForeignKeyViolation(err)
	if !ok {
		return nil
	}
	if constraint == "fk_students_school" {
		return shared.NotFound(MsgSchoolMissing)
	}
	return shared.NotFound(MsgClassroomMissing)
}

var _ RepositoryPort = (*Repository)(nil)
