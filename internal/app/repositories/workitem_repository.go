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

// WorkItemRepository handles database operations for work items
type WorkItemRepository struct {
	db *pgxpool.Pool
}

// NewWorkItemRepository creates a new WorkItemRepository
func NewWorkItemRepository(db *pgxpool.Pool) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

// GetAll retrieves every work item ordered by creation
func (r *WorkItemRepository) GetAll(ctx context.Context) ([]models.WorkItem, error) {
	query := `
		SELECT id, name, is_required, created_by_role, created_at, updated_at
		FROM work_items
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error getting work items: %w", err)
	}
	defer rows.Close()

	var items []models.WorkItem
	for rows.Next() {
		var item models.WorkItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.IsRequired,
			&item.CreatedByRole,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning work item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work item rows: %w", err)
	}

	return items, nil
}

// GetByID retrieves a work item by ID, nil when not found
func (r *WorkItemRepository) GetByID(ctx context.Context, id int64) (*models.WorkItem, error) {
	query := `
		SELECT id, name, is_required, created_by_role, created_at, updated_at
		FROM work_items
		WHERE id = $1
	`

	var item models.WorkItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.IsRequired,
		&item.CreatedByRole,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting work item: %w", err)
	}

	return &item, nil
}

// ExistsByName reports whether a work item with the given name exists
func (r *WorkItemRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM work_items WHERE name = $1)`
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking work item name: %w", err)
	}
	return exists, nil
}

// Create creates a new work item
func (r *WorkItemRepository) Create(ctx context.Context, item *models.WorkItem) (int64, error) {
	query := `
		INSERT INTO work_items (name, is_required, created_by_role)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		item.Name,
		item.IsRequired,
		item.CreatedByRole,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating work item: %w", err)
	}

	return id, nil
}

// Rename updates a work item's name; rename is the only permitted mutation
func (r *WorkItemRepository) Rename(ctx context.Context, id int64, name string) error {
	query := `
		UPDATE work_items
		SET name = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("error renaming work item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrWorkItemNotFound
	}

	return nil
}

// CountSubmissions counts uploaded files bound to a work item across all
// teachers, used to guard deletion.
func (r *WorkItemRepository) CountSubmissions(ctx context.Context, id int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM teacher_work_files f
		JOIN teacher_subject_work w ON w.id = f.teacher_work_id
		WHERE w.work_item_id = $1
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting work item submissions: %w", err)
	}
	return count, nil
}

// Delete deletes a work item. Bindings and their files cascade at the
// schema level; callers enforce the no-submissions guard first.
func (r *WorkItemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM work_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting work item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrWorkItemNotFound
	}

	return nil
}
