package drive

import (
	"context"
	"errors"
	"io"
	"time"
)

// Provider errors classified by the upload pipeline. Implementations must
// return (or wrap) these sentinels so callers can react without knowing the
// provider.
var (
	// ErrAuthExpired signals a credential that was valid when the request
	// started but expired in flight. Eligible for exactly one refresh-and-retry.
	ErrAuthExpired = errors.New("storage credential expired")
	// ErrNotAuthenticated signals a provider that has no usable credential at
	// all. Requires operator action, never retried automatically.
	ErrNotAuthenticated = errors.New("not authenticated with storage provider")
	// ErrFolderNotFound signals an upload against a folder that does not exist
	// in the remote store.
	ErrFolderNotFound = errors.New("storage folder not found")
	// ErrQuotaExceeded signals the provider refused the write for capacity reasons.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// FolderSet is the result of provisioning the folder tree for one
// (teacher, subject) pair: the teacher-subject root plus one subfolder per
// work item category.
type FolderSet struct {
	RootID     string
	Categories map[string]string // category name -> folder identifier
}

// RemoteFile describes a file after a successful transfer.
type RemoteFile struct {
	Ref        string // provider-native reference, used for later deletion
	URL        string // shareable URL
	Path       string // provider-scheme path persisted on the work file record
	UploadedAt time.Time
}

// ProgressFunc receives transfer progress as an integer percentage.
// Implementations guarantee the reported value never decreases.
type ProgressFunc func(percent int)

// Client is the contract the submission pipeline requires from a storage
// provider. EnsureTeacherFolders must be idempotent: provisioning the same
// (subject, teacher) pair twice returns the same folder set without error.
type Client interface {
	EnsureTeacherFolders(ctx context.Context, subjectFolder, teacherFolder string, categories []string) (*FolderSet, error)
	Upload(ctx context.Context, folderID, name string, r io.ReadSeeker, size int64, mimeType string, onProgress ProgressFunc) (*RemoteFile, error)
	Delete(ctx context.Context, ref string) error
}

// TokenSource provides and rotates the provider credential. Token returns the
// current credential; Refresh forces a rotation and returns the new one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}
