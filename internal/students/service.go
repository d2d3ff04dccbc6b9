package students

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/schooladmin/schooladmin/internal/classrooms"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// Client messages.
const (
	MsgRequired         = "FirstName, lastName, dob, schoolId, classroomId, and enrollmentDate are required fields."
	MsgInvalidDate      = "Dates must use the YYYY-MM-DD format."
	MsgInvalidProfile   = "Profile requires an address and a parent phone and email."
	MsgTooLong          = "One or more fields exceed their maximum length."
	MsgSchoolMissing    = "The specified schoolId does not exist."
	MsgClassroomMissing = "The specified classroomId does not exist."
	MsgClassroomSchool  = "The specified classroom does not belong to the specified school."
	MsgNoneFound        = "Student(s) not found."
	MsgNotFound         = "Student not found."
	MsgUpdateIDMissing  = "Student ID is required to perform update."
	MsgDeleteIDMissing  = "Student ID is required to delete a record."
)

// Service handles student business logic.
type Service struct {
	repo       RepositoryPort
	schools    SchoolDirectory
	classrooms ClassroomDirectory
	validate   *validator.Validate
	now        func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, schools SchoolDirectory, classrooms ClassroomDirectory) *Service {
	return &Service{
		repo:       repo,
		schools:    schools,
		classrooms: classrooms,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create enrols a student in an existing classroom of an existing school.
func (s *Service) Create(ctx context.Context, req CreateStudentRequest) (Student, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.DOB = strings.TrimSpace(req.DOB)
	req.SchoolID = strings.TrimSpace(req.SchoolID)
	req.ClassroomID = strings.TrimSpace(req.ClassroomID)
	req.EnrollmentDate = strings.TrimSpace(req.EnrollmentDate)
	if err := s.check(req); err != nil {
		return Student{}, err
	}
	if err := s.checkPlacement(ctx, req.SchoolID, req.ClassroomID, true, true); err != nil {
		return Student{}, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, Student{
		ID:              shared.NewID(shared.PrefixStudent),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DOB:             req.DOB,
		SchoolID:        req.SchoolID,
		ClassroomID:     req.ClassroomID,
		EnrollmentDate:  req.EnrollmentDate,
		TransferHistory: []Transfer{},
		Profile:         normalizeProfile(req.Profile),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// List returns a page of students matching filter. An empty page is reported
// as not found.
func (s *Service) List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]Student, int, error) {
	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return nil, total, shared.NotFound(MsgNoneFound)
	}
	return items, total, nil
}

// Update applies the supplied fields. Moving the student to another
// classroom appends exactly one transfer entry, recorded in the same
// transaction as the move.
func (s *Service) Update(ctx context.Context, id string, req UpdateStudentRequest) (Student, error) {
	if strings.TrimSpace(id) == "" {
		return Student{}, shared.Validation(MsgUpdateIDMissing)
	}
	if req.Empty() {
		return Student{}, shared.Validation(shared.MsgNoUpdateFields)
	}
	if err := s.checkUpdate(req); err != nil {
		return Student{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	schoolID, classroomID := current.SchoolID, current.ClassroomID
	if req.SchoolID != nil {
		schoolID = strings.TrimSpace(*req.SchoolID)
	}
	if req.ClassroomID != nil {
		classroomID = strings.TrimSpace(*req.ClassroomID)
	}
	schoolChanged := schoolID != current.SchoolID
	classroomChanged := classroomID != current.ClassroomID
	if schoolChanged || classroomChanged {
		if err := s.checkPlacement(ctx, schoolID, classroomID, schoolChanged, true); err != nil {
			return Student{}, err
		}
	}

	return s.repo.Update(ctx, id, func(st *Student) error {
		now := s.now().UTC()
		if req.FirstName != nil {
			st.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			st.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.DOB != nil {
			st.DOB = strings.TrimSpace(*req.DOB)
		}
		if req.EnrollmentDate != nil {
			st.EnrollmentDate = strings.TrimSpace(*req.EnrollmentDate)
		}
		if req.Profile != nil {
			st.Profile = normalizeProfile(req.Profile)
		}
		if req.SchoolID != nil {
			st.SchoolID = schoolID
		}
		if req.ClassroomID != nil && classroomID != st.ClassroomID {
			st.TransferHistory = append(st.TransferHistory, Transfer{
				FromClassroomID: st.ClassroomID,
				ToClassroomID:   classroomID,
				TransferDate:    now,
			})
			st.ClassroomID = classroomID
		}
		st.UpdatedAt = now
		return nil
	})
}

// Delete removes a student.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return shared.Validation(MsgDeleteIDMissing)
	}
	return s.repo.Delete(ctx, id)
}

// checkPlacement verifies that the school exists, that the classroom exists
// and that the classroom belongs to the school. Both lookups run concurrently.
func (s *Service) checkPlacement(ctx context.Context, schoolID, classroomID string, checkSchool, checkClassroom bool) error {
	var (
		schoolFound = true
		classroom   *classrooms.Classroom
	)
	g, gctx := errgroup.WithContext(ctx)
	if checkSchool {
		g.Go(func() error {
			ok, err := s.schools.Exists(gctx, schoolID)
			if err != nil {
				return err
			}
			schoolFound = ok
			return nil
		})
	}
	if checkClassroom {
		g.Go(func() error {
			c, err := s.classrooms.Get(gctx, classroomID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			classroom = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if !schoolFound {
		return shared.NotFound(MsgSchoolMissing)
	}
	if classroom == nil {
		return shared.NotFound(MsgClassroomMissing)
	}
	if classroom.SchoolID != schoolID {
		return shared.Validation(MsgClassroomSchool)
	}
	return nil
}

func (s *Service) check(req CreateStudentRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	return s.translate(err)
}

func (s *Service) checkUpdate(req UpdateStudentRequest) error {
	for _, field := range []*string{req.FirstName, req.LastName, req.SchoolID, req.ClassroomID} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return shared.Validation(MsgRequired)
		}
	}
	for _, date := range []*string{req.DOB, req.EnrollmentDate} {
		if date == nil {
			continue
		}
		if _, err := time.Parse(DateLayout, strings.TrimSpace(*date)); err != nil {
			return shared.Validation(MsgInvalidDate)
		}
	}
	if req.Profile != nil {
		if err := s.validate.Struct(req.Profile); err != nil {
			return s.translate(err)
		}
	}
	return nil
}

func (s *Service) translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("students: validate: %w", err)
	}
	for _, fe := range verrs {
		if strings.Contains(fe.Namespace(), "Profile") {
			return shared.Validation(MsgInvalidProfile)
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return shared.Validation(MsgRequired)
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "datetime" {
			return shared.Validation(MsgInvalidDate)
		}
	}
	return shared.Validation(MsgTooLong)
}

func normalizeProfile(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		Address: strings.TrimSpace(p.Address),
		ParentContact: ParentContact{
			Phone: strings.TrimSpace(p.ParentContact.Phone),
			Email: strings.ToLower(strings.TrimSpace(p.ParentContact.Email)),
		},
	}
}
