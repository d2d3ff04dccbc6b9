package schools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// Client messages.
const (
	MsgRequired        = "Name, address, phone, email, and establishedYear are required."
	MsgInvalidEmail    = "A valid contact email is required."
	MsgInvalidWebsite  = "Website must be a valid http or https URL."
	MsgInvalidYear     = "Established year must be between 1800 and the current year."
	MsgTooLong         = "One or more fields exceed their maximum length."
	MsgDuplicate       = "A school with the same name or email already exists."
	MsgNoSchoolWithID  = "No school found with id: %s"
	MsgNotFound        = "School not found with the given ID."
	MsgUpdateIDMissing = "School ID is required to update a record."
	MsgDeleteIDMissing = "School ID is required to delete a record."
	MsgHasClassrooms   = "Cannot delete a school that still has classrooms."
)

// MinEstablishedYear is the earliest accepted founding year.
const MinEstablishedYear = 1800

const lookupTimeout = 10 * time.Second

// Service handles school business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	lookups  singleflight.Group
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New(), now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates and stores a new school on behalf of createdBy.
func (s *Service) Create(ctx context.Context, req CreateSchoolRequest, createdBy string) (School, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Website = strings.TrimSpace(req.Website)
	req.AdditionalInfo = strings.TrimSpace(req.AdditionalInfo)
	if err := s.check(req); err != nil {
		return School{}, err
	}
	if err := s.checkYear(req.EstablishedYear); err != nil {
		return School{}, err
	}

	existing, err := s.repo.FindByNameOrEmail(ctx, req.Name, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return School{}, err
	}
	if existing != nil {
		return School{}, shared.Duplicate(MsgDuplicate)
	}

	now := s.now().UTC()
	school := School{
		ID:      shared.NewID(shared.PrefixSchool),
		Name:    req.Name,
		Address: req.Address,
		Contact: Contact{Phone: req.Phone, Email: req.Email},
		Profile: Profile{
			EstablishedYear: req.EstablishedYear,
			Website:         req.Website,
			AdditionalInfo:  req.AdditionalInfo,
		},
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.Create(ctx, school)
}

// Get returns a single school.
func (s *Service) Get(ctx context.Context, id string) (*School, error) {
	return s.repo.Get(ctx, id)
}

// Exists reports whether a school with id is stored. Concurrent lookups of
// the same id share one query.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	ch := s.lookups.DoChan(id, func() (interface{}, error) {
		// Callers share this lookup; none of them may cancel it for the others.
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		_, err := s.repo.Get(lookupCtx, id)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, shared.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

// List returns a page of schools, newest first.
func (s *Service) List(ctx context.Context, page shared.PageRequest) ([]School, int, error) {
	return s.repo.List(ctx, page)
}

// Update applies the whitelisted fields of req to the school.
func (s *Service) Update(ctx context.Context, id string, req UpdateSchoolRequest) (School, error) {
	if strings.TrimSpace(id) == "" {
		return School{}, shared.Validation(MsgUpdateIDMissing)
	}
	if req.Empty() {
		return School{}, shared.Validation(shared.MsgNoUpdateFields)
	}
	return s.repo.Update(ctx, id, func(school *School) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return shared.Validation(MsgRequired)
			}
			school.Name = name
		}
		if req.Address != nil {
			address := strings.TrimSpace(*req.Address)
			if address == "" {
				return shared.Validation(MsgRequired)
			}
			school.Address = address
		}
		if c := req.Contact; c != nil {
			if c.Phone != nil {
				phone := strings.TrimSpace(*c.Phone)
				if phone == "" {
					return shared.Validation(MsgRequired)
				}
				school.Contact.Phone = phone
			}
			if c.Email != nil {
				email := strings.ToLower(strings.TrimSpace(*c.Email))
				if s.validate.Var(email, "required,email") != nil {
					return shared.Validation(MsgInvalidEmail)
				}
				school.Contact.Email = email
			}
		}
		if p := req.Profile; p != nil {
			if p.EstablishedYear != nil {
				if err := s.checkYear(*p.EstablishedYear); err != nil {
					return err
				}
				school.Profile.EstablishedYear = *p.EstablishedYear
			}
			if p.Website != nil {
				website := strings.TrimSpace(*p.Website)
				if website != "" && s.validate.Var(website, "http_url") != nil {
					return shared.Validation(MsgInvalidWebsite)
				}
				school.Profile.Website = website
			}
			if p.AdditionalInfo != nil {
				school.Profile.AdditionalInfo = strings.TrimSpace(*p.AdditionalInfo)
			}
		}
		school.UpdatedAt = s.now().UTC()
		return nil
	})
}

// Delete removes a school that no classroom references.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return shared.Validation(MsgDeleteIDMissing)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound(MsgNotFound)
		}
		return err
	}
	n, err := s.repo.CountClassrooms(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.Conflict(MsgHasClassrooms)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkYear(year int) error {
	if year < MinEstablishedYear || year > s.now().Year() {
		return shared.Validation(MsgInvalidYear)
	}
	return nil
}

func (s *Service) check(req CreateSchoolRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("schools: validate: %w", err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return shared.Validation(MsgRequired)
		}
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "email":
			return shared.Validation(MsgInvalidEmail)
		case "http_url":
			return shared.Validation(MsgInvalidWebsite)
		}
	}
	return shared.Validation(MsgTooLong)
}
