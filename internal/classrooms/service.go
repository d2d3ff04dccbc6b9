package classrooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// Client messages.
const (
	MsgRequired        = "Name, schoolId, capacity, and managedBy are required fields."
	MsgCapacity        = "Capacity must be at least 1."
	MsgTooLong         = "One or more fields exceed their maximum length."
	MsgSchoolMissing   = "The specified schoolId does not exist."
	MsgDuplicate       = "The specified classroom in this school already exists."
	MsgNoneFound       = "Classroom(s) not found."
	MsgNotFound        = "Classroom not found."
	MsgUpdateIDMissing = "Classroom ID is required to perform update."
	MsgDeleteIDMissing = "Classroom ID is required to delete a record."
	MsgHasStudents     = "Cannot delete a classroom that still has students."
	MsgMoveWithStudent = "Cannot move a classroom that still has students to another school."
)

// Service handles classroom business logic.
type Service struct {
	repo     RepositoryPort
	schools  SchoolDirectory
	validate *validator.Validate
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, schools SchoolDirectory) *Service {
	return &Service{repo: repo, schools: schools, validate: validator.New(), now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores a classroom in an existing school.
func (s *Service) Create(ctx context.Context, req CreateClassroomRequest) (Classroom, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.SchoolID = strings.TrimSpace(req.SchoolID)
	req.ManagedBy = strings.TrimSpace(req.ManagedBy)
	if err := s.check(req); err != nil {
		return Classroom{}, err
	}
	if err := s.requireSchool(ctx, req.SchoolID); err != nil {
		return Classroom{}, err
	}

	existing, err := s.repo.FindByName(ctx, req.SchoolID, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return Classroom{}, err
	}
	if existing != nil {
		return Classroom{}, shared.Duplicate(MsgDuplicate)
	}

	resources := req.Resources
	if resources == nil {
		resources = []string{}
	}
	now := s.now().UTC()
	return s.repo.Create(ctx, Classroom{
		ID:        shared.NewID(shared.PrefixClassroom),
		Name:      req.Name,
		SchoolID:  req.SchoolID,
		Capacity:  req.Capacity,
		Resources: resources,
		ManagedBy: req.ManagedBy,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Get returns a single classroom.
func (s *Service) Get(ctx context.Context, id string) (*Classroom, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of classrooms matching filter. An empty page is
// reported as not found.
func (s *Service) List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]Classroom, int, error) {
	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return nil, total, shared.NotFound(MsgNoneFound)
	}
	return items, total, nil
}

// Update applies the supplied fields to the classroom.
func (s *Service) Update(ctx context.Context, id string, req UpdateClassroomRequest) (Classroom, error) {
	if strings.TrimSpace(id) == "" {
		return Classroom{}, shared.Validation(MsgUpdateIDMissing)
	}
	if req.Empty() {
		return Classroom{}, shared.Validation(shared.MsgNoUpdateFields)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Classroom{}, err
	}
	if req.SchoolID != nil {
		schoolID := strings.TrimSpace(*req.SchoolID)
		if schoolID == "" {
			return Classroom{}, shared.Validation(MsgRequired)
		}
		if schoolID != current.SchoolID {
			if err := s.requireSchool(ctx, schoolID); err != nil {
				return Classroom{}, err
			}
			n, err := s.repo.CountStudents(ctx, id)
			if err != nil {
				return Classroom{}, err
			}
			if n > 0 {
				return Classroom{}, shared.Conflict(MsgMoveWithStudent)
			}
		}
	}

	return s.repo.Update(ctx, id, func(c *Classroom) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return shared.Validation(MsgRequired)
			}
			c.Name = name
		}
		if req.SchoolID != nil {
			c.SchoolID = strings.TrimSpace(*req.SchoolID)
		}
		if req.Capacity != nil {
			if *req.Capacity < 1 {
				return shared.Validation(MsgCapacity)
			}
			c.Capacity = *req.Capacity
		}
		if req.Resources != nil {
			c.Resources = append([]string{}, *req.Resources...)
		}
		if req.ManagedBy != nil {
			managedBy := strings.TrimSpace(*req.ManagedBy)
			if managedBy == "" {
				return shared.Validation(MsgRequired)
			}
			c.ManagedBy = managedBy
		}
		c.UpdatedAt = s.now().UTC()
		return nil
	})
}

// Delete removes a classroom without students.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return shared.Validation(MsgDeleteIDMissing)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountStudents(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.Conflict(MsgHasStudents)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) requireSchool(ctx context.Context, schoolID string) error {
	ok, err := s.schools.Exists(ctx, schoolID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound(MsgSchoolMissing)
	}
	return nil
}

func (s *Service) check(req CreateClassroomRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("classrooms: validate: %w", err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return shared.Validation(MsgRequired)
		}
	}
	for _, fe := range verrs {
		if fe.Field() == "Capacity" {
			return shared.Validation(MsgCapacity)
		}
	}
	return shared.Validation(MsgTooLong)
}
