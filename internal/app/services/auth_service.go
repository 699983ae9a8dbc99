package services

import (
	"context"
	"fmt"

	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/app/repositories"
	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
	"github.com/yusuf/schoolsphere/internal/pkg/auth"
	"github.com/yusuf/schoolsphere/internal/pkg/logger"
)

// AuthService handles staff authentication
type AuthService struct {
	staffRepo  *repositories.StaffRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(staffRepo *repositories.StaffRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error looking up staff: %w", err)
	}
	if staff == nil || !auth.CheckPassword(staff.Password, req.Password) {
		logger.Warn().Str("email", req.Email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(staff)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Staff:     dto.FromStaff(staff),
	}, nil
}
