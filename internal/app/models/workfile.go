package models

import "time"

// WorkFile represents one uploaded artifact under a TeacherWork binding.
// FileSize and MimeType are captured at upload time and never re-derived
// from the remote store.
type WorkFile struct {
	ID            int64      `json:"id"`
	TeacherWorkID int64      `json:"teacher_work_id"`
	FileName      string     `json:"file_name"`
	FileURL       string     `json:"file_url"`
	FilePath      string     `json:"file_path"`
	FileSize      int64      `json:"file_size"`
	MimeType      string     `json:"mime_type"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	LastAccessed  *time.Time `json:"last_accessed,omitempty"`
	Views         int64      `json:"views"`
	Downloads     int64      `json:"downloads"`

	// Relations
	Feedbacks []Feedback `json:"feedbacks,omitempty"`
}

// LatestFeedback returns the most recently reviewed feedback for the file,
// or nil when it has none. Latest is defined by reviewed_at, not by the
// order feedback rows were loaded in.
func (f *WorkFile) LatestFeedback() *Feedback {
	var latest *Feedback
	for i := range f.Feedbacks {
		fb := &f.Feedbacks[i]
		if latest == nil || fb.ReviewedAt.After(latest.ReviewedAt) {
			latest = fb
		}
	}
	return latest
}

// ReviewState returns the effective review status of the file: the status of
// its latest feedback, or pending when no feedback exists yet.
func (f *WorkFile) ReviewState() FeedbackStatus {
	if fb := f.LatestFeedback(); fb != nil {
		return fb.Status
	}
	return FeedbackPending
}
