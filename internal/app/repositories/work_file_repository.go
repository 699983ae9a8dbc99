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

// WorkFileRepository handles database operations for uploaded work files
type WorkFileRepository struct {
	db *pgxpool.Pool
}

// NewWorkFileRepository creates a new WorkFileRepository
func NewWorkFileRepository(db *pgxpool.Pool) *WorkFileRepository {
	return &WorkFileRepository{db: db}
}

// Create records a successfully transferred file. Size and MIME type are the
// values observed at upload time; nothing ever re-derives them later.
func (r *WorkFileRepository) Create(ctx context.Context, file *models.WorkFile) (int64, error) {
	query := `
		INSERT INTO teacher_work_files
			(teacher_work_id, file_name, file_url, file_path, file_size, mime_type, uploaded_at, views, downloads)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		file.TeacherWorkID,
		file.FileName,
		file.FileURL,
		file.FilePath,
		file.FileSize,
		file.MimeType,
		file.UploadedAt,
		file.Views,
		file.Downloads,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating work file: %w", err)
	}

	return id, nil
}

// GetByID retrieves a work file with its owning binding, nil when not found
func (r *WorkFileRepository) GetByID(ctx context.Context, id int64) (*models.WorkFile, *models.TeacherWork, error) {
	query := `
		SELECT f.id, f.teacher_work_id, f.file_name, f.file_url, f.file_path, f.file_size,
		       f.mime_type, f.uploaded_at, f.last_accessed, f.views, f.downloads,
		       w.id, w.staff_id, w.subject_id, w.work_item_id, w.folder_id, w.folder_name,
		       w.created_at, w.updated_at
		FROM teacher_work_files f
		JOIN teacher_subject_work w ON w.id = f.teacher_work_id
		WHERE f.id = $1
	`

	var file models.WorkFile
	var work models.TeacherWork
	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.TeacherWorkID,
		&file.FileName,
		&file.FileURL,
		&file.FilePath,
		&file.FileSize,
		&file.MimeType,
		&file.UploadedAt,
		&file.LastAccessed,
		&file.Views,
		&file.Downloads,
		&work.ID,
		&work.StaffID,
		&work.SubjectID,
		&work.WorkItemID,
		&work.FolderID,
		&work.FolderName,
		&work.CreatedAt,
		&work.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error getting work file: %w", err)
	}

	return &file, &work, nil
}

// ListByTeacherWork retrieves every file under one binding with its feedback
// history loaded, oldest upload first.
func (r *WorkFileRepository) ListByTeacherWork(ctx context.Context, teacherWorkID int64) ([]models.WorkFile, error) {
	query := `
		SELECT id, teacher_work_id, file_name, file_url, file_path, file_size, mime_type,
		       uploaded_at, last_accessed, views, downloads
		FROM teacher_work_files
		WHERE teacher_work_id = $1
		ORDER BY uploaded_at
	`

	rows, err := r.db.Query(ctx, query, teacherWorkID)
	if err != nil {
		return nil, fmt.Errorf("error listing work files: %w", err)
	}
	defer rows.Close()

	var files []models.WorkFile
	var fileIDs []int64
	for rows.Next() {
		var file models.WorkFile
		if err := rows.Scan(
			&file.ID,
			&file.TeacherWorkID,
			&file.FileName,
			&file.FileURL,
			&file.FilePath,
			&file.FileSize,
			&file.MimeType,
			&file.UploadedAt,
			&file.LastAccessed,
			&file.Views,
			&file.Downloads,
		); err != nil {
			return nil, fmt.Errorf("error scanning work file row: %w", err)
		}
		files = append(files, file)
		fileIDs = append(fileIDs, file.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work file rows: %w", err)
	}

	if len(files) == 0 {
		return files, nil
	}

	feedbackQuery := `
		SELECT f.id, f.work_file_id, f.reviewer_id, st.name, f.feedback, f.status,
		       f.reviewed_at, f.teacher_read_at
		FROM work_item_feedback f
		JOIN staff st ON st.id = f.reviewer_id
		WHERE f.work_file_id = ANY($1)
		ORDER BY f.reviewed_at
	`

	fbRows, err := r.db.Query(ctx, feedbackQuery, fileIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading feedback: %w", err)
	}
	defer fbRows.Close()

	feedbackByFile := make(map[int64][]models.Feedback)
	for fbRows.Next() {
		var fb models.Feedback
		if err := fbRows.Scan(
			&fb.ID,
			&fb.WorkFileID,
			&fb.ReviewerID,
			&fb.ReviewerName,
			&fb.Comment,
			&fb.Status,
			&fb.ReviewedAt,
			&fb.TeacherReadAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		feedbackByFile[fb.WorkFileID] = append(feedbackByFile[fb.WorkFileID], fb)
	}
	if err := fbRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}

	for i := range files {
		files[i].Feedbacks = feedbackByFile[files[i].ID]
	}

	return files, nil
}

// TrackAccess bumps the engagement counters for a file: every access counts
// as a view and refreshes last_accessed; downloads additionally bump the
// download counter. Counters only ever go up.
func (r *WorkFileRepository) TrackAccess(ctx context.Context, id int64, action string) error {
	query := `
		UPDATE teacher_work_files
		SET views = views + 1,
		    downloads = downloads + CASE WHEN $2 = 'download' THEN 1 ELSE 0 END,
		    last_accessed = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, action)
	if err != nil {
		return fmt.Errorf("error tracking file access: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrWorkFileNotFound
	}

	return nil
}

// Delete removes a work file record; feedback cascades at the schema level
func (r *WorkFileRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM teacher_work_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting work file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrWorkFileNotFound
	}

	return nil
}
