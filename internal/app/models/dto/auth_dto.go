package dto

import "github.com/yusuf/schoolsphere/internal/app/models"

// LoginRequest is a staff login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StaffResponse is the wire form of a staff account
type StaffResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// FromStaff converts a models.Staff to its response form
func FromStaff(staff *models.Staff) StaffResponse {
	return StaffResponse{
		ID:    staff.ID,
		Name:  staff.Name,
		Email: staff.Email,
		Role:  string(staff.Role),
	}
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"`
	Staff     StaffResponse `json:"staff"`
}
