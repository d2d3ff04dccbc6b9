package students

import "time"

// DateLayout is the calendar date format for dob and enrollmentDate.
const DateLayout = "2006-01-02"

// Student is the stored student document.
type Student struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	DOB             string     `json:"dob"`
	SchoolID        string     `json:"schoolId"`
	ClassroomID     string     `json:"classroomId"`
	EnrollmentDate  string     `json:"enrollmentDate"`
	TransferHistory []Transfer `json:"transferHistory"`
	Profile         *Profile   `json:"profile,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Transfer records one classroom change. Entries are only ever appended.
type Transfer struct {
	FromClassroomID string    `json:"fromClassroomId"`
	ToClassroomID   string    `json:"toClassroomId"`
	TransferDate    time.Time `json:"transferDate"`
}

// Profile holds the student's address and parent contact.
type Profile struct {
	Address       string        `json:"address" validate:"required,max=500"`
	ParentContact ParentContact `json:"parentContact"`
}

// ParentContact is how to reach the student's parent.
type ParentContact struct {
	Phone string `json:"phone" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email,max=254"`
}

// CreateStudentRequest is the payload for enrolling a student.
type CreateStudentRequest struct {
	FirstName      string   `json:"firstName" validate:"required,max=100"`
	LastName       string   `json:"lastName" validate:"required,max=100"`
	DOB            string   `json:"dob" validate:"required,datetime=2006-01-02"`
	SchoolID       string   `json:"schoolId" validate:"required"`
	ClassroomID    string   `json:"classroomId" validate:"required"`
	EnrollmentDate string   `json:"enrollmentDate" validate:"required,datetime=2006-01-02"`
	Profile        *Profile `json:"profile"`
}

// UpdateStudentRequest holds the updatable student fields. Transfer history
// is not among them.
type UpdateStudentRequest struct {
	FirstName      *string  `json:"firstName,omitempty"`
	LastName       *string  `json:"lastName,omitempty"`
	DOB            *string  `json:"dob,omitempty"`
	SchoolID       *string  `json:"schoolId,omitempty"`
	ClassroomID    *string  `json:"classroomId,omitempty"`
	EnrollmentDate *string  `json:"enrollmentDate,omitempty"`
	Profile        *Profile `json:"profile,omitempty"`
}

// Empty reports whether the request names no updatable field.
func (u UpdateStudentRequest) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.DOB == nil && u.SchoolID == nil &&
		u.ClassroomID == nil && u.EnrollmentDate == nil && u.Profile == nil
}

// ListFilter narrows student listings. Empty fields match everything.
type ListFilter struct {
	ID          string
	SchoolID    string
	ClassroomID string
}
