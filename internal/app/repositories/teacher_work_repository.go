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

// TeacherWorkRepository handles database operations for teacher-subject-work
// bindings. The (staff, subject, work item) triple is unique at the schema
// level; GetOrCreate leans on that for idempotency.
type TeacherWorkRepository struct {
	db *pgxpool.Pool
}

// NewTeacherWorkRepository creates a new TeacherWorkRepository
func NewTeacherWorkRepository(db *pgxpool.Pool) *TeacherWorkRepository {
	return &TeacherWorkRepository{db: db}
}

// GetByID retrieves a binding by ID, nil when not found
func (r *TeacherWorkRepository) GetByID(ctx context.Context, id int64) (*models.TeacherWork, error) {
	query := `
		SELECT id, staff_id, subject_id, work_item_id, folder_id, folder_name, created_at, updated_at
		FROM teacher_subject_work
		WHERE id = $1
	`

	var work models.TeacherWork
	err := r.db.QueryRow(ctx, query, id).Scan(
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
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting teacher work: %w", err)
	}

	return &work, nil
}

// GetByTriple retrieves the binding for a (staff, subject, work item) triple,
// nil when not found.
func (r *TeacherWorkRepository) GetByTriple(ctx context.Context, staffID, subjectID, workItemID int64) (*models.TeacherWork, error) {
	query := `
		SELECT id, staff_id, subject_id, work_item_id, folder_id, folder_name, created_at, updated_at
		FROM teacher_subject_work
		WHERE staff_id = $1 AND subject_id = $2 AND work_item_id = $3
	`

	var work models.TeacherWork
	err := r.db.QueryRow(ctx, query, staffID, subjectID, workItemID).Scan(
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
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting teacher work by triple: %w", err)
	}

	return &work, nil
}

// GetOrCreate returns the binding for the triple, creating it when absent.
// The upsert keeps repeated initialization a no-op: the uniqueness invariant
// means at most one row per triple ever exists.
func (r *TeacherWorkRepository) GetOrCreate(ctx context.Context, staffID, subjectID, workItemID int64, folderName string) (*models.TeacherWork, error) {
	query := `
		INSERT INTO teacher_subject_work (staff_id, subject_id, work_item_id, folder_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (staff_id, subject_id, work_item_id)
		DO UPDATE SET updated_at = NOW()
		RETURNING id, staff_id, subject_id, work_item_id, folder_id, folder_name, created_at, updated_at
	`

	var work models.TeacherWork
	err := r.db.QueryRow(ctx, query, staffID, subjectID, workItemID, folderName).Scan(
		&work.ID,
		&work.StaffID,
		&work.SubjectID,
		&work.WorkItemID,
		&work.FolderID,
		&work.FolderName,
		&work.CreatedAt,
		&work.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error upserting teacher work: %w", err)
	}

	return &work, nil
}

// SetFolder records the provisioned external folder on a binding
func (r *TeacherWorkRepository) SetFolder(ctx context.Context, id int64, folderID, folderName string) error {
	query := `
		UPDATE teacher_subject_work
		SET folder_id = $1, folder_name = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, folderID, folderName, id)
	if err != nil {
		return fmt.Errorf("error setting teacher work folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrTeacherWorkNotFound
	}

	return nil
}

// ListByTeacher retrieves every binding for a teacher with its work item,
// subject, files and feedback history loaded.
func (r *TeacherWorkRepository) ListByTeacher(ctx context.Context, staffID int64) ([]models.TeacherWork, error) {
	query := `
		SELECT w.id, w.staff_id, w.subject_id, w.work_item_id, w.folder_id, w.folder_name,
		       w.created_at, w.updated_at,
		       i.id, i.name, i.is_required, i.created_by_role, i.created_at, i.updated_at,
		       s.id, s.name, s.code, s.created_at, s.updated_at
		FROM teacher_subject_work w
		JOIN work_items i ON i.id = w.work_item_id
		JOIN subjects s ON s.id = w.subject_id
		WHERE w.staff_id = $1
		ORDER BY s.name, i.id
	`

	rows, err := r.db.Query(ctx, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("error listing teacher works: %w", err)
	}
	defer rows.Close()

	var works []models.TeacherWork
	for rows.Next() {
		var work models.TeacherWork
		var item models.WorkItem
		var subject models.Subject
		if err := rows.Scan(
			&work.ID,
			&work.StaffID,
			&work.SubjectID,
			&work.WorkItemID,
			&work.FolderID,
			&work.FolderName,
			&work.CreatedAt,
			&work.UpdatedAt,
			&item.ID,
			&item.Name,
			&item.IsRequired,
			&item.CreatedByRole,
			&item.CreatedAt,
			&item.UpdatedAt,
			&subject.ID,
			&subject.Name,
			&subject.Code,
			&subject.CreatedAt,
			&subject.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning teacher work row: %w", err)
		}
		work.WorkItem = &item
		work.Subject = &subject
		works = append(works, work)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teacher work rows: %w", err)
	}

	if err := r.attachFiles(ctx, works); err != nil {
		return nil, err
	}

	return works, nil
}

// attachFiles loads files and their feedback history for the given bindings.
func (r *TeacherWorkRepository) attachFiles(ctx context.Context, works []models.TeacherWork) error {
	if len(works) == 0 {
		return nil
	}

	workIDs := make([]int64, len(works))
	index := make(map[int64]*models.TeacherWork, len(works))
	for i := range works {
		workIDs[i] = works[i].ID
		index[works[i].ID] = &works[i]
	}

	fileQuery := `
		SELECT id, teacher_work_id, file_name, file_url, file_path, file_size, mime_type,
		       uploaded_at, last_accessed, views, downloads
		FROM teacher_work_files
		WHERE teacher_work_id = ANY($1)
		ORDER BY uploaded_at
	`

	rows, err := r.db.Query(ctx, fileQuery, workIDs)
	if err != nil {
		return fmt.Errorf("error loading work files: %w", err)
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
			return fmt.Errorf("error scanning work file row: %w", err)
		}
		files = append(files, file)
		fileIDs = append(fileIDs, file.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating work file rows: %w", err)
	}

	if len(files) == 0 {
		return nil
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
		return fmt.Errorf("error loading feedback: %w", err)
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
			return fmt.Errorf("error scanning feedback row: %w", err)
		}
		feedbackByFile[fb.WorkFileID] = append(feedbackByFile[fb.WorkFileID], fb)
	}
	if err := fbRows.Err(); err != nil {
		return fmt.Errorf("error iterating feedback rows: %w", err)
	}

	for i := range files {
		files[i].Feedbacks = feedbackByFile[files[i].ID]
		work := index[files[i].TeacherWorkID]
		work.Files = append(work.Files, files[i])
	}

	return nil
}
