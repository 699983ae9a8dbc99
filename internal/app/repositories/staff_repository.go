package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yusuf/schoolsphere/internal/app/models"
)

// StaffRepository handles database operations for staff accounts
type StaffRepository struct {
	db *pgxpool.Pool
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetByID retrieves a staff member by ID, nil when not found
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*models.Staff, error) {
	query := `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	var staff models.Staff
	err := r.db.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.Password,
		&staff.Role,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting staff member: %w", err)
	}

	return &staff, nil
}

// GetByEmail retrieves a staff member by email, nil when not found
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	query := `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM staff
		WHERE email = $1
	`

	var staff models.Staff
	err := r.db.QueryRow(ctx, query, email).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.Password,
		&staff.Role,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting staff member by email: %w", err)
	}

	return &staff, nil
}

// Create creates a new staff account
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) (int64, error) {
	query := `
		INSERT INTO staff (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.Password,
		staff.Role,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating staff member: %w", err)
	}

	return id, nil
}

// ListTeachers retrieves all teacher accounts
func (r *StaffRepository) ListTeachers(ctx context.Context) ([]models.Staff, error) {
	query := `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM staff
		WHERE role = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, models.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	var teachers []models.Staff
	for rows.Next() {
		var staff models.Staff
		if err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.Email,
			&staff.Password,
			&staff.Role,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning teacher row: %w", err)
		}
		teachers = append(teachers, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teacher rows: %w", err)
	}

	return teachers, nil
}
