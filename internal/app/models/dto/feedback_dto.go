package dto

import (
	"time"

	"github.com/yusuf/schoolsphere/internal/app/models"
)

// CreateFeedbackRequest attaches a reviewer's assessment to a work file.
// Earlier feedback for the same file stays in history.
type CreateFeedbackRequest struct {
	WorkFileID int64  `json:"teacher_work_file_id" binding:"required"`
	Feedback   string `json:"feedback" binding:"required,min=1,max=2000"`
	Status     string `json:"status" binding:"required,oneof=pending approved needs_revision"`
}

// FeedbackResponse is the wire form of one feedback record
type FeedbackResponse struct {
	ID            int64      `json:"id"`
	WorkFileID    int64      `json:"work_file_id"`
	ReviewerID    int64      `json:"reviewer_id"`
	ReviewerName  string     `json:"reviewer_name,omitempty"`
	Feedback      string     `json:"feedback"`
	Status        string     `json:"status"`
	ReviewedAt    time.Time  `json:"reviewed_at"`
	TeacherReadAt *time.Time `json:"teacher_read_at,omitempty"`
}

// FromFeedback converts a models.Feedback to its response form
func FromFeedback(fb *models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:            fb.ID,
		WorkFileID:    fb.WorkFileID,
		ReviewerID:    fb.ReviewerID,
		ReviewerName:  fb.ReviewerName,
		Feedback:      fb.Comment,
		Status:        string(fb.Status),
		ReviewedAt:    fb.ReviewedAt,
		TeacherReadAt: fb.TeacherReadAt,
	}
}

// RecentFeedback is one entry in a teacher's notification summary
type RecentFeedback struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"file_name"`
	WorkItemName string    `json:"work_item_name"`
	SubjectName  string    `json:"subject_name"`
	Feedback     string    `json:"feedback"`
	Status       string    `json:"status"`
	ReviewerName string    `json:"reviewer_name"`
	ReviewedAt   time.Time `json:"reviewed_at"`
	IsUnread     bool      `json:"is_unread"`
}

// FeedbackSummaryResponse is the teacher's notification summary
type FeedbackSummaryResponse struct {
	TotalFiles         int              `json:"total_files"`
	PendingFeedback    int              `json:"pending_feedback"`
	ApprovedFiles      int              `json:"approved_files"`
	NeedsRevisionFiles int              `json:"needs_revision_files"`
	UnreadFeedback     int              `json:"unread_feedback"`
	HasNewFeedback     bool             `json:"has_new_feedback"`
	RecentFeedbacks    []RecentFeedback `json:"recent_feedbacks"`
}
