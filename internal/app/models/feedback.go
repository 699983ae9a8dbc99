package models

import "time"

// FeedbackStatus represents a reviewer's verdict on a work file
type FeedbackStatus string

const (
	FeedbackPending       FeedbackStatus = "pending"
	FeedbackApproved      FeedbackStatus = "approved"
	FeedbackNeedsRevision FeedbackStatus = "needs_revision"
)

// Valid reports whether the status is one of the known feedback statuses.
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackPending, FeedbackApproved, FeedbackNeedsRevision:
		return true
	}
	return false
}

// Feedback represents a reviewer's assessment of one work file. Files
// accumulate feedback over resubmission cycles; records are never deleted
// and only TeacherReadAt is ever updated.
type Feedback struct {
	ID            int64          `json:"id"`
	WorkFileID    int64          `json:"work_file_id"`
	ReviewerID    int64          `json:"reviewer_id"`
	ReviewerName  string         `json:"reviewer_name,omitempty"`
	Comment       string         `json:"feedback"`
	Status        FeedbackStatus `json:"status"`
	ReviewedAt    time.Time      `json:"reviewed_at"`
	TeacherReadAt *time.Time     `json:"teacher_read_at,omitempty"`
}

// IsUnread reports whether the teacher has not seen this feedback yet.
func (f *Feedback) IsUnread() bool {
	return f.TeacherReadAt == nil
}
