package shared

// Account roles.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleReadOnly   = "readonly"
)

// HeaderRole carries the client-asserted role on every guarded request.
const HeaderRole = "user_role"

// AllRoles lists every role an account may hold.
func AllRoles() []string {
	return []string{
		RoleSuperAdmin,
		RoleAdmin,
		RoleReadOnly,
	}
}

// SchoolManagers may create, read, update and delete schools.
func SchoolManagers() []string {
	return []string{RoleSuperAdmin}
}

// ClassroomManagers may manage classrooms and students.
func ClassroomManagers() []string {
	return []string{RoleAdmin, RoleSuperAdmin}
}

// ValidRole reports whether role is one of AllRoles.
func ValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
