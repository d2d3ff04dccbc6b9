package classrooms

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

// Create inserts a new classroom document.
func (r *Repository) Create(ctx context.Context, c Classroom) (Classroom, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return Classroom{}, err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO classrooms (id, school_id, name, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.SchoolID, c.Name, doc, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if _, ok := db.IsUniqueViolation(err); ok {
			return Classroom{}, shared.Duplicate(MsgDuplicate)
		}
		if _, ok := db.IsForeignKeyViolation(err); ok {
			return Classroom{}, shared.NotFound(MsgSchoolMissing)
		}
		return Classroom{}, fmt.Errorf("classrooms: insert: %w", err)
	}
	return c, nil
}

// Get returns the classroom with id.
func (r *Repository) Get(ctx context.Context, id string) (*Classroom, error) {
	c, err := scanClassroom(r.pool.QueryRow(ctx, `SELECT doc FROM classrooms WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, shared.NotFound(MsgNotFound)
		}
		return nil, fmt.Errorf("classrooms: get: %w", err)
	}
	return c, nil
}

// FindByName returns the classroom named name within a school.
func (r *Repository) FindByName(ctx context.Context, schoolID, name string) (*Classroom, error) {
	c, err := scanClassroom(r.pool.QueryRow(ctx,
		`SELECT doc FROM classrooms WHERE school_id = $1 AND name = $2`, schoolID, name))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, shared.NotFound(MsgNotFound)
		}
		return nil, fmt.Errorf("classrooms: find by name: %w", err)
	}
	return c, nil
}

// List returns one page of classrooms matching filter.
func (r *Repository) List(ctx context.Context, f ListFilter, page shared.PageRequest) ([]Classroom, int, error) {
	const where = `WHERE ($1 = '' OR id = $1) AND ($2 = '' OR school_id = $2)`
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM classrooms `+where, f.ID, f.SchoolID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("classrooms: count: %w", err)
	}
	rows, err := r.pool.Query(ctx, `SELECT doc FROM classrooms `+where+`
		ORDER BY created_at, id LIMIT $3 OFFSET $4`, f.ID, f.SchoolID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("classrooms: list: %w", err)
	}
	defer rows.Close()
	result := make([]Classroom, 0, page.Limit)
	for rows.Next() {
		c, err := scanClassroom(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *c)
	}
	return result, total, rows.Err()
}

// Update applies fn to the locked classroom row inside one transaction.
func (r *Repository) Update(ctx context.Context, id string, fn func(*Classroom) error) (Classroom, error) {
	var updated Classroom
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		c, err := scanClassroom(tx.QueryRow(ctx, `SELECT doc FROM classrooms WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if db.IsNoRows(err) {
				return shared.NotFound(MsgNotFound)
			}
			return fmt.Errorf("classrooms: lock: %w", err)
		}
		if err := fn(c); err != nil {
			return err
		}
		doc, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE classrooms SET school_id = $2, name = $3, doc = $4, updated_at = $5 WHERE id = $1`,
			id, c.SchoolID, c.Name, doc, c.UpdatedAt)
		if err != nil {
			if _, ok := db.IsUniqueViolation(err); ok {
				return shared.Duplicate(MsgDuplicate)
			}
			if _, ok := db.IsForeignKeyViolation(err); ok {
				return shared.NotFound(MsgSchoolMissing)
			}
			return fmt.Errorf("classrooms: update: %w", err)
		}
		updated = *c
		return nil
	})
	return updated, err
}

// Delete removes the classroom with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classrooms WHERE id = $1`, id)
	if err != nil {
		if _, ok := db.IsForeignKeyViolation(err); ok {
			return shared.Conflict(MsgHasStudents)
		}
		return fmt.Errorf("classrooms: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound(MsgNotFound)
	}
	return nil
}

// CountStudents counts students assigned to the classroom.
func (r *Repository) CountStudents(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE classroom_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("classrooms: count students: %w", err)
	}
	return n, nil
}

func scanClassroom(row pgx.Row) (*Classroom, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var c Classroom
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("classrooms: decode document: %w", err)
	}
	return &c, nil
}

var _ RepositoryPort = (*Repository)(nil)
