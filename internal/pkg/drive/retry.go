package drive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yusuf/schoolsphere/internal/pkg/logger"
)

// maxAuthRetries bounds the transparent refresh-and-retry loop. One retry
// tolerates a token-rotation race; anything beyond that is a real auth
// problem and must surface.
const maxAuthRetries = 1

// authRetryClient decorates a Client with a bounded credential-refresh retry.
// When a call fails with ErrAuthExpired it refreshes the token exactly once
// and reissues the same request. A second expiry on the reissued request is
// terminal.
type authRetryClient struct {
	inner  Client
	tokens TokenSource
}

// WithAuthRetry wraps client so that every operation gets one transparent
// refresh-and-retry on credential expiry.
func WithAuthRetry(client Client, tokens TokenSource) Client {
	return &authRetryClient{inner: client, tokens: tokens}
}

func (c *authRetryClient) EnsureTeacherFolders(ctx context.Context, subjectFolder, teacherFolder string, categories []string) (*FolderSet, error) {
	var set *FolderSet
	err := c.withRetry(ctx, func() error {
		var err error
		set, err = c.inner.EnsureTeacherFolders(ctx, subjectFolder, teacherFolder, categories)
		return err
	}, nil)
	return set, err
}

func (c *authRetryClient) Upload(ctx context.Context, folderID, name string, r io.ReadSeeker, size int64, mimeType string, onProgress ProgressFunc) (*RemoteFile, error) {
	var file *RemoteFile
	err := c.withRetry(ctx, func() error {
		var err error
		file, err = c.inner.Upload(ctx, folderID, name, r, size, mimeType, onProgress)
		return err
	}, r)
	return file, err
}

func (c *authRetryClient) Delete(ctx context.Context, ref string) error {
	return c.withRetry(ctx, func() error {
		return c.inner.Delete(ctx, ref)
	}, nil)
}

// withRetry runs call, refreshing the credential and reissuing once on
// ErrAuthExpired. body, when non-nil, is rewound before the reissue so the
// payload is re-sent from the start.
func (c *authRetryClient) withRetry(ctx context.Context, call func() error, body io.Seeker) error {
	err := call()
	for attempt := 0; attempt < maxAuthRetries && errors.Is(err, ErrAuthExpired); attempt++ {
		logger.Warn().Msg("Storage credential expired, refreshing and retrying once")

		if _, refreshErr := c.tokens.Refresh(ctx); refreshErr != nil {
			return fmt.Errorf("refreshing storage credential: %w", refreshErr)
		}
		if body != nil {
			if _, seekErr := body.Seek(0, io.SeekStart); seekErr != nil {
				return fmt.Errorf("rewinding upload payload for retry: %w", seekErr)
			}
		}
		err = call()
	}
	if errors.Is(err, ErrAuthExpired) {
		// Second expiry on the retried request: terminal.
		return fmt.Errorf("storage credential expired again after refresh: %w", err)
	}
	return err
}
