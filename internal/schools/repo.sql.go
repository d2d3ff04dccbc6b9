package schools

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

// Create inserts a new school document.
func (r *Repository) Create(ctx context.Context, s School) (School, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return School{}, err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO schools (id, name, email, created_by, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Contact.Email, s.CreatedBy, doc, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if _, ok := db.IsUniqueViolation(err); ok {
			return School{}, shared.Duplicate(MsgDuplicate)
		}
		return School{}, fmt.Errorf("schools: insert: %w", err)
	}
	return s, nil
}

// Get returns the school with id.
func (r *Repository) Get(ctx context.Context, id string) (*School, error) {
	s, err := scanSchool(r.pool.QueryRow(ctx, `SELECT doc FROM schools WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, shared.NotFound(fmt.Sprintf(MsgNoSchoolWithID, id))
		}
		return nil, fmt.Errorf("schools: get: %w", err)
	}
	return s, nil
}

// FindByNameOrEmail returns the first school matching name or email.
func (r *Repository) FindByNameOrEmail(ctx context.Context, name, email string) (*School, error) {
	s, err := scanSchool(r.pool.QueryRow(ctx, `SELECT doc FROM schools WHERE name = $1 OR email = $2 LIMIT 1`, name, email))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, shared.NotFound(MsgNotFound)
		}
		return nil, fmt.Errorf("schools: find by name or email: %w", err)
	}
	return s, nil
}

// List returns one page of schools, newest first.
func (r *Repository) List(ctx context.Context, page shared.PageRequest) ([]School, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM schools`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("schools: count: %w", err)
	}
	rows, err := r.pool.Query(ctx, `SELECT doc FROM schools ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("schools: list: %w", err)
	}
	defer rows.Close()
	result := make([]School, 0, page.Limit)
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *s)
	}
	return result, total, rows.Err()
}

// Update applies fn to the locked school row inside one transaction.
func (r *Repository) Update(ctx context.Context, id string, fn func(*School) error) (School, error) {
	var updated School
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		s, err := scanSchool(tx.QueryRow(ctx, `SELECT doc FROM schools WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if db.IsNoRows(err) {
				return shared.NotFound(MsgNotFound)
			}
			return fmt.Errorf("schools: lock: %w", err)
		}
		if err := fn(s); err != nil {
			return err
		}
		doc, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE schools SET name = $2, email = $3, doc = $4, updated_at = $5 WHERE id = $1`,
			id, s.Name, s.Contact.Email, doc, s.UpdatedAt)
		if err != nil {
			if _, ok := db.IsUniqueViolation(err); ok {
				return shared.Duplicate(MsgDuplicate)
			}
			return fmt.Errorf("schools: update: %w", err)
		}
		updated = *s
		return nil
	})
	return updated, err
}

// Delete removes the school with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		if _, ok := db.IsForeignKeyViolation(err); ok {
			return shared.Conflict(MsgHasClassrooms)
		}
		return fmt.Errorf("schools: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound(MsgNotFound)
	}
	return nil
}

// CountClassrooms counts classrooms referencing the school.
func (r *Repository) CountClassrooms(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM classrooms WHERE school_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("schools: count classrooms: %w", err)
	}
	return n, nil
}

func scanSchool(row pgx.Row) (*School, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var s School
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("schools: decode document: %w", err)
	}
	return &s, nil
}

var _ RepositoryPort = (*Repository)(nil)
