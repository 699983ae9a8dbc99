package dto

import (
	"time"

	"github.com/yusuf/schoolsphere/internal/app/models"
)

// CreateWorkItemRequest is a headmaster's request to add a deliverable category
type CreateWorkItemRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=150"`
	IsRequired bool   `json:"is_required"`
}

// CreateTeacherWorkItemRequest is a teacher's request to add a personal,
// always-optional work item
type CreateTeacherWorkItemRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
}

// UpdateWorkItemRequest renames a work item; rename is the only permitted mutation
type UpdateWorkItemRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
}

// WorkItemResponse is the wire form of a work item
type WorkItemResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	IsRequired    bool      `json:"is_required"`
	CreatedByRole string    `json:"created_by_role"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromWorkItem converts a models.WorkItem to its response form
func FromWorkItem(item *models.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		IsRequired:    item.IsRequired,
		CreatedByRole: string(item.CreatedByRole),
		CreatedAt:     item.CreatedAt,
	}
}

// InitFoldersRequest asks the storage gateway to provision the folder tree
// for one (teacher, subject) pair
type InitFoldersRequest struct {
	TeacherID int64 `json:"teacher_id" binding:"required"`
	SubjectID int64 `json:"subject_id" binding:"required"`
}

// InitFoldersResponse reports the outcome of folder initialization
type InitFoldersResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LookupWorkResponse returns the binding identifier uploads are issued against
type LookupWorkResponse struct {
	TeacherWorkID int64   `json:"teacher_subject_work_id"`
	FolderID      *string `json:"folder_id,omitempty"`
}
