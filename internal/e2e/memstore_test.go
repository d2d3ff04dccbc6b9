package e2e

import (
	"context"
	"sync"

	"github.com/schooladmin/schooladmin/internal/classrooms"
	"github.com/schooladmin/schooladmin/internal/schools"
	"github.com/schooladmin/schooladmin/internal/shared"
	"github.com/schooladmin/schooladmin/internal/students"
	"github.com/schooladmin/schooladmin/internal/users"
)

// store is an in-memory stand-in for the PostgreSQL document tables.
type store struct {
	mu         sync.Mutex
	accounts   []users.Account
	schools    []schools.School
	classrooms []classrooms.Classroom
	students   []students.Student
}

func page[T any](items []T, p shared.PageRequest) []T {
	start := p.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}

type accountRepo struct{ *store }

func (r accountRepo) Create(ctx context.Context, a users.Account) (users.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.accounts {
		if e.Username == a.Username || e.Email == a.Email {
			return users.Account{}, shared.Duplicate(users.MsgDuplicate)
		}
	}
	r.accounts = append(r.accounts, a)
	return a, nil
}

func (r accountRepo) FindByLogin(ctx context.Context, username, email string) (*users.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if (username != "" && a.Username == username) || (email != "" && a.Email == email) {
			return &a, nil
		}
	}
	return nil, shared.NotFound(users.MsgNotFound)
}

func (r accountRepo) List(ctx context.Context, p shared.PageRequest) ([]users.Account, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.accounts, p), len(r.accounts), nil
}

type schoolRepo struct{ *store }

func (r schoolRepo) Create(ctx context.Context, s schools.School) (schools.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.schools {
		if e.Name == s.Name || e.Contact.Email == s.Contact.Email {
			return schools.School{}, shared.Duplicate(schools.MsgDuplicate)
		}
	}
	r.schools = append([]schools.School{s}, r.schools...)
	return s, nil
}

func (r schoolRepo) Get(ctx context.Context, id string) (*schools.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schools {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, shared.NotFound("No school found with id: " + id)
}

func (r schoolRepo) List(ctx context.Context, p shared.PageRequest) ([]schools.School, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.schools, p), len(r.schools), nil
}

func (r schoolRepo) Update(ctx context.Context, id string, fn func(*schools.School) error) (schools.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.schools {
		if r.schools[i].ID == id {
			s := r.schools[i]
			if err := fn(&s); err != nil {
				return schools.School{}, err
			}
			r.schools[i] = s
			return s, nil
		}
	}
	return schools.School{}, shared.NotFound(schools.MsgNotFound)
}

func (r schoolRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.schools {
		if r.schools[i].ID == id {
			r.schools = append(r.schools[:i], r.schools[i+1:]...)
			return nil
		}
	}
	return shared.NotFound(schools.MsgNotFound)
}

func (r schoolRepo) FindByNameOrEmail(ctx context.Context, name, email string) (*schools.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schools {
		if s.Name == name || s.Contact.Email == email {
			return &s, nil
		}
	}
	return nil, shared.NotFound(schools.MsgNotFound)
}

func (r schoolRepo) CountClassrooms(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.classrooms {
		if c.SchoolID == id {
			n++
		}
	}
	return n, nil
}

type classroomRepo struct{ *store }

func (r classroomRepo) Create(ctx context.Context, c classrooms.Classroom) (classrooms.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.classrooms {
		if e.SchoolID == c.SchoolID && e.Name == c.Name {
			return classrooms.Classroom{}, shared.Duplicate(classrooms.MsgDuplicate)
		}
	}
	r.classrooms = append(r.classrooms, c)
	return c, nil
}

func (r classroomRepo) Get(ctx context.Context, id string) (*classrooms.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.classrooms {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, shared.NotFound(classrooms.MsgNotFound)
}

func (r classroomRepo) FindByName(ctx context.Context, schoolID, name string) (*classrooms.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.classrooms {
		if c.SchoolID == schoolID && c.Name == name {
			return &c, nil
		}
	}
	return nil, shared.NotFound(classrooms.MsgNotFound)
}

func (r classroomRepo) List(ctx context.Context, f classrooms.ListFilter, p shared.PageRequest) ([]classrooms.Classroom, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []classrooms.Classroom
	for _, c := range r.classrooms {
		if (f.ID == "" || c.ID == f.ID) && (f.SchoolID == "" || c.SchoolID == f.SchoolID) {
			matched = append(matched, c)
		}
	}
	return page(matched, p), len(matched), nil
}

func (r classroomRepo) Update(ctx context.Context, id string, fn func(*classrooms.Classroom) error) (classrooms.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.classrooms {
		if r.classrooms[i].ID == id {
			c := r.classrooms[i]
			if err := fn(&c); err != nil {
				return classrooms.Classroom{}, err
			}
			r.classrooms[i] = c
			return c, nil
		}
	}
	return classrooms.Classroom{}, shared.NotFound(classrooms.MsgNotFound)
}

func (r classroomRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.classrooms {
		if r.classrooms[i].ID == id {
			r.classrooms = append(r.classrooms[:i], r.classrooms[i+1:]...)
			return nil
		}
	}
	return shared.NotFound(classrooms.MsgNotFound)
}

func (r classroomRepo) CountStudents(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.students {
		if s.ClassroomID == id {
			n++
		}
	}
	return n, nil
}

type studentRepo struct{ *store }

func (r studentRepo) Create(ctx context.Context, s students.Student) (students.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = append(r.students, s)
	return s, nil
}

func (r studentRepo) Get(ctx context.Context, id string) (*students.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, shared.NotFound(students.MsgNotFound)
}

func (r studentRepo) List(ctx context.Context, f students.ListFilter, p shared.PageRequest) ([]students.Student, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []students.Student
	for _, s := range r.students {
		if (f.ID == "" || s.ID == f.ID) &&
			(f.SchoolID == "" || s.SchoolID == f.SchoolID) &&
			(f.ClassroomID == "" || s.ClassroomID == f.ClassroomID) {
			matched = append(matched, s)
		}
	}
	return page(matched, p), len(matched), nil
}

func (r studentRepo) Update(ctx context.Context, id string, fn func(*students.Student) error) (students.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.students {
		if r.students[i].ID == id {
			s := r.students[i]
			s.TransferHistory = append([]students.Transfer(nil), s.TransferHistory...)
			if err := fn(&s); err != nil {
				return students.Student{}, err
			}
			r.students[i] = s
			return s, nil
		}
	}
	return students.Student{}, shared.NotFound(students.MsgNotFound)
}

func (r studentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.students {
		if r.students[i].ID == id {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return shared.NotFound(students.MsgNotFound)
}
