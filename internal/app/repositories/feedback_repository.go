package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
)

// FeedbackRepository handles database operations for work file feedback.
// Feedback is append-only: new reviews are inserted, history is never
// deleted, and the only update is the teacher-read timestamp.
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create appends a feedback record to a file's history
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) (int64, error) {
	query := `
		INSERT INTO work_item_feedback (work_file_id, reviewer_id, feedback, status, reviewed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		fb.WorkFileID,
		fb.ReviewerID,
		fb.Comment,
		fb.Status,
		fb.ReviewedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating feedback: %w", err)
	}

	return id, nil
}

// GetByID retrieves a feedback record, nil when not found
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	query := `
		SELECT id, work_file_id, reviewer_id, feedback, status, reviewed_at, teacher_read_at
		FROM work_item_feedback
		WHERE id = $1
	`

	var fb models.Feedback
	err := r.db.QueryRow(ctx, query, id).Scan(
		&fb.ID,
		&fb.WorkFileID,
		&fb.ReviewerID,
		&fb.Comment,
		&fb.Status,
		&fb.ReviewedAt,
		&fb.TeacherReadAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting feedback: %w", err)
	}

	return &fb, nil
}

// LatestByWorkFile retrieves the most recently reviewed feedback for a file,
// nil when the file has none. Latest is selected explicitly by reviewed_at.
func (r *FeedbackRepository) LatestByWorkFile(ctx context.Context, workFileID int64) (*models.Feedback, error) {
	query := `
		SELECT id, work_file_id, reviewer_id, feedback, status, reviewed_at, teacher_read_at
		FROM work_item_feedback
		WHERE work_file_id = $1
		ORDER BY reviewed_at DESC
		LIMIT 1
	`

	var fb models.Feedback
	err := r.db.QueryRow(ctx, query, workFileID).Scan(
		&fb.ID,
		&fb.WorkFileID,
		&fb.ReviewerID,
		&fb.Comment,
		&fb.Status,
		&fb.ReviewedAt,
		&fb.TeacherReadAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting latest feedback: %w", err)
	}

	return &fb, nil
}

// MarkRead sets the teacher-read timestamp on one feedback record if it is
// still unread.
func (r *FeedbackRepository) MarkRead(ctx context.Context, id int64) error {
	query := `
		UPDATE work_item_feedback
		SET teacher_read_at = NOW()
		WHERE id = $1 AND teacher_read_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking feedback read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrFeedbackNotFound
	}

	return nil
}

// MarkAllReadForTeacher sets the teacher-read timestamp on every unread
// feedback record across all of the teacher's files.
func (r *FeedbackRepository) MarkAllReadForTeacher(ctx context.Context, staffID int64) (int64, error) {
	query := `
		UPDATE work_item_feedback f
		SET teacher_read_at = NOW()
		FROM teacher_work_files wf
		JOIN teacher_subject_work w ON w.id = wf.teacher_work_id
		WHERE f.work_file_id = wf.id
		  AND w.staff_id = $1
		  AND f.teacher_read_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, staffID)
	if err != nil {
		return 0, fmt.Errorf("error marking all feedback read: %w", err)
	}

	return result.RowsAffected(), nil
}
