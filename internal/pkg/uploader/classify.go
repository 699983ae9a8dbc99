package uploader

import (
	"context"
	"errors"
	"net"

	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
	"github.com/yusuf/schoolsphere/internal/pkg/drive"
)

// ErrorKind is the failure taxonomy used to select user messaging and retry
// eligibility for a queue entry.
type ErrorKind string

const (
	// ErrKindValidation covers rejected files and server-side field
	// validation. Never retried automatically.
	ErrKindValidation ErrorKind = "validation"
	// ErrKindAuth covers credential expiry that survived the transport's
	// single refresh-and-retry.
	ErrKindAuth ErrorKind = "auth"
	// ErrKindNetwork covers transfers where no response reached us.
	// User-retryable via RetryFailed.
	ErrKindNetwork ErrorKind = "network"
	// ErrKindStorage covers recoverable provider errors such as missing
	// folder initialization. Retryable after addressing the cause.
	ErrKindStorage ErrorKind = "storage_provider"
	// ErrKindServer covers responses the server classified as its own fault.
	ErrKindServer ErrorKind = "server"
	// ErrKindUnknown is the catch-all.
	ErrKindUnknown ErrorKind = "unknown"
)

// UploadError pairs a failure with its classification and a message fit for
// showing next to the queue entry.
type UploadError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *UploadError) Error() string { return e.Message }

func (e *UploadError) Unwrap() error { return e.Err }

// Classify buckets a transfer failure into the error taxonomy. Sentinel
// errors from the storage gateway and the app error set map to specific
// kinds; transport-level failures map to network; anything else is unknown.
func Classify(err error) *UploadError {
	if err == nil {
		return nil
	}

	var already *UploadError
	if errors.As(err, &already) {
		return already
	}

	switch {
	case errors.Is(err, drive.ErrAuthExpired):
		return &UploadError{
			Kind:    ErrKindAuth,
			Message: "Session with the storage provider expired. Please try again.",
			Err:     err,
		}
	case errors.Is(err, drive.ErrNotAuthenticated):
		return &UploadError{
			Kind:    ErrKindStorage,
			Message: "Not authenticated with the storage provider. Ask an administrator to reconnect it.",
			Err:     err,
		}
	case errors.Is(err, drive.ErrFolderNotFound),
		errors.Is(err, apperrors.ErrFoldersNotReady),
		errors.Is(err, apperrors.ErrTeacherWorkNotFound):
		return &UploadError{
			Kind:    ErrKindStorage,
			Message: "Work folders are not initialized. Initialize folders and retry.",
			Err:     err,
		}
	case errors.Is(err, drive.ErrQuotaExceeded):
		return &UploadError{
			Kind:    ErrKindStorage,
			Message: "Storage quota exceeded.",
			Err:     err,
		}
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return &UploadError{
			Kind:    ErrKindValidation,
			Message: "Invalid file or request: " + err.Error(),
			Err:     err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return &UploadError{
			Kind:    ErrKindNetwork,
			Message: "Network error. Check the connection and retry.",
			Err:     err,
		}
	}

	return &UploadError{
		Kind:    ErrKindUnknown,
		Message: "Upload failed: " + err.Error(),
		Err:     err,
	}
}
