package models

import "time"

// Staff represents a staff account (teacher or headmaster)
type Staff struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsHeadmaster reports whether this staff member reviews submissions.
func (s *Staff) IsHeadmaster() bool {
	return s.Role == RoleHeadmaster
}
