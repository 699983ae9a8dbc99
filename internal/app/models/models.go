package models

// Role represents a staff account role
type Role string

const (
	RoleHeadmaster Role = "HEADMASTER"
	RoleTeacher    Role = "TEACHER"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleHeadmaster || r == RoleTeacher
}
