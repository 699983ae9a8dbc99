package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yusuf/schoolsphere/internal/app/models"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// GetByID retrieves a subject by ID, nil when not found
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := `
		SELECT id, name, code, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Code,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting subject: %w", err)
	}

	return &subject, nil
}

// ListByStaff retrieves the subjects assigned to a teacher
func (r *SubjectRepository) ListByStaff(ctx context.Context, staffID int64) ([]models.Subject, error) {
	query := `
		SELECT s.id, s.name, s.code, s.created_at, s.updated_at
		FROM subjects s
		JOIN staff_subjects ss ON ss.subject_id = s.id
		WHERE ss.staff_id = $1
		ORDER BY s.name
	`

	rows, err := r.db.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects for staff: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.Code,
			&subject.CreatedAt,
			&subject.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning subject row: %w", err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}

	return subjects, nil
}
