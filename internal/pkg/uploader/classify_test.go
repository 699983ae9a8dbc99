package uploader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
	"github.com/yusuf/schoolsphere/internal/pkg/drive"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"auth expired", drive.ErrAuthExpired, ErrKindAuth},
		{"wrapped auth expired", fmt.Errorf("upload: %w", drive.ErrAuthExpired), ErrKindAuth},
		{"not authenticated", drive.ErrNotAuthenticated, ErrKindStorage},
		{"folder missing", drive.ErrFolderNotFound, ErrKindStorage},
		{"folders not initialized", apperrors.ErrFoldersNotReady, ErrKindStorage},
		{"work binding missing", apperrors.ErrTeacherWorkNotFound, ErrKindStorage},
		{"quota", drive.ErrQuotaExceeded, ErrKindStorage},
		{"validation", apperrors.ErrValidationFailed, ErrKindValidation},
		{"bad request", apperrors.ErrBadRequest, ErrKindValidation},
		{"deadline", context.DeadlineExceeded, ErrKindNetwork},
		{"canceled", context.Canceled, ErrKindNetwork},
		{"unknown", errors.New("something odd"), ErrKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got == nil {
				t.Fatal("Classify() = nil")
			}
			if got.Kind != tt.want {
				t.Errorf("Classify(%v).Kind = %s, want %s", tt.err, got.Kind, tt.want)
			}
			if got.Message == "" {
				t.Error("classified error carries no message")
			}
			if !errors.Is(got, tt.err) && got.Err != tt.err {
				// Unwrap must reach the original cause.
				t.Errorf("classified error does not wrap the cause %v", tt.err)
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassifyPassesThroughUploadError(t *testing.T) {
	original := &UploadError{Kind: ErrKindNetwork, Message: "network down"}
	wrapped := fmt.Errorf("transfer: %w", original)

	got := Classify(wrapped)
	if got != original {
		t.Errorf("Classify() re-classified an already classified error: %+v", got)
	}
}
