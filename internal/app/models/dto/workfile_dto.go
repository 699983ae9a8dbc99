package dto

import (
	"time"

	"github.com/yusuf/schoolsphere/internal/app/models"
)

// WorkFileResponse is the wire form of an uploaded work file. Size and MIME
// type are the values captured at upload time.
type WorkFileResponse struct {
	ID           int64      `json:"id"`
	FileName     string     `json:"file_name"`
	FileURL      string     `json:"file_url"`
	FileSize     int64      `json:"file_size"`
	MimeType     string     `json:"mime_type"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	Views        int64      `json:"views"`
	Downloads    int64      `json:"downloads"`

	LatestFeedback *FeedbackResponse `json:"latest_feedback,omitempty"`
}

// FromWorkFile converts a models.WorkFile to its response form, resolving the
// latest feedback explicitly by reviewed time.
func FromWorkFile(file *models.WorkFile) WorkFileResponse {
	resp := WorkFileResponse{
		ID:           file.ID,
		FileName:     file.FileName,
		FileURL:      file.FileURL,
		FileSize:     file.FileSize,
		MimeType:     file.MimeType,
		UploadedAt:   file.UploadedAt,
		LastAccessed: file.LastAccessed,
		Views:        file.Views,
		Downloads:    file.Downloads,
	}
	if fb := file.LatestFeedback(); fb != nil {
		converted := FromFeedback(fb)
		resp.LatestFeedback = &converted
	}
	return resp
}

// UploadBatchResponse aggregates one multi-file upload run
type UploadBatchResponse struct {
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Files     []WorkFileResponse `json:"files"`
	Errors    []UploadEntryError `json:"errors,omitempty"`
	Rejected  []string           `json:"rejected,omitempty"`
}

// UploadEntryError describes one failed file in a batch
type UploadEntryError struct {
	FileName string `json:"file_name"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// TrackAccessRequest is a fire-and-forget engagement event for a work file
type TrackAccessRequest struct {
	Action string `json:"action" binding:"required,oneof=view download"`
}
