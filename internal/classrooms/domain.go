package classrooms

import "time"

// Classroom is the stored classroom document.
type Classroom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SchoolID  string    `json:"schoolId"`
	Capacity  int       `json:"capacity"`
	Resources []string  `json:"resources"`
	ManagedBy string    `json:"managedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateClassroomRequest is the payload for creating a classroom.
type CreateClassroomRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	SchoolID  string   `json:"schoolId" validate:"required"`
	Capacity  int      `json:"capacity" validate:"required,min=1"`
	Resources []string `json:"resources" validate:"omitempty,dive,max=200"`
	ManagedBy string   `json:"managedBy" validate:"required"`
}

// UpdateClassroomRequest holds the updatable classroom fields.
type UpdateClassroomRequest struct {
	Name      *string   `json:"name,omitempty"`
	SchoolID  *string   `json:"schoolId,omitempty"`
	Capacity  *int      `json:"capacity,omitempty"`
	Resources *[]string `json:"resources,omitempty"`
	ManagedBy *string   `json:"managedBy,omitempty"`
}

// Empty reports whether the request names no updatable field.
func (u UpdateClassroomRequest) Empty() bool {
	return u.Name == nil && u.SchoolID == nil && u.Capacity == nil && u.Resources == nil && u.ManagedBy == nil
}

// ListFilter narrows classroom listings. Empty fields match everything.
type ListFilter struct {
	ID       string
	SchoolID string
}
