package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

// fakeClient scripts per-call failures so the retry decorator's behavior can
// be observed: errs[i] is returned by call i, calls past the script succeed.
type fakeClient struct {
	errs    []error
	calls   int
	readAll []byte // payload observed on the last successful upload
}

func (f *fakeClient) nextErr() error {
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	return err
}

func (f *fakeClient) EnsureTeacherFolders(_ context.Context, subjectFolder, teacherFolder string, categories []string) (*FolderSet, error) {
	if err := f.nextErr(); err != nil {
		return nil, err
	}
	return &FolderSet{RootID: subjectFolder + "/" + teacherFolder}, nil
}

func (f *fakeClient) Upload(_ context.Context, folderID, name string, r io.ReadSeeker, size int64, mimeType string, onProgress ProgressFunc) (*RemoteFile, error) {
	// Consume the payload before deciding the outcome, like a real transport
	// would. A retry without a rewind would then see an empty stream.
	data, readErr := io.ReadAll(r)
	if readErr != nil {
		return nil, readErr
	}
	if err := f.nextErr(); err != nil {
		return nil, err
	}
	f.readAll = data
	return &RemoteFile{Ref: folderID + "/" + name}, nil
}

func (f *fakeClient) Delete(_ context.Context, ref string) error {
	return f.nextErr()
}

type countingTokens struct {
	refreshes  int
	refreshErr error
}

func (c *countingTokens) Token(_ context.Context) (string, error) { return "tok", nil }

func (c *countingTokens) Refresh(_ context.Context) (string, error) {
	c.refreshes++
	return "tok2", c.refreshErr
}

func TestWithAuthRetryRefreshesOnceAndReplays(t *testing.T) {
	inner := &fakeClient{errs: []error{fmt.Errorf("upload: %w", ErrAuthExpired)}}
	tokens := &countingTokens{}
	client := WithAuthRetry(inner, tokens)

	payload := []byte("work file content")
	file, err := client.Upload(context.Background(), "folder", "a.pdf", bytes.NewReader(payload), int64(len(payload)), "application/pdf", nil)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if tokens.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", tokens.refreshes)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
	if !bytes.Equal(inner.readAll, payload) {
		t.Errorf("retried upload saw %q, want the full payload (rewind before reissue)", inner.readAll)
	}
	if file == nil || file.Ref != "folder/a.pdf" {
		t.Errorf("file = %+v, want ref folder/a.pdf", file)
	}
}

func TestWithAuthRetrySecondExpiryIsTerminal(t *testing.T) {
	inner := &fakeClient{errs: []error{ErrAuthExpired, ErrAuthExpired}}
	tokens := &countingTokens{}
	client := WithAuthRetry(inner, tokens)

	_, err := client.Upload(context.Background(), "folder", "a.pdf", bytes.NewReader([]byte("x")), 1, "", nil)
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("Upload() error = %v, want ErrAuthExpired", err)
	}
	if tokens.refreshes != 1 {
		t.Errorf("refreshes = %d, want exactly 1 (never loop)", tokens.refreshes)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestWithAuthRetryRefreshFailureSurfaces(t *testing.T) {
	inner := &fakeClient{errs: []error{ErrAuthExpired}}
	tokens := &countingTokens{refreshErr: errors.New("refresh endpoint down")}
	client := WithAuthRetry(inner, tokens)

	err := client.Delete(context.Background(), "folder/a.pdf")
	if err == nil || !errors.Is(err, tokens.refreshErr) {
		t.Fatalf("Delete() error = %v, want the refresh failure", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (no reissue after failed refresh)", inner.calls)
	}
}

func TestWithAuthRetryOtherErrorsPassThrough(t *testing.T) {
	inner := &fakeClient{errs: []error{ErrQuotaExceeded}}
	tokens := &countingTokens{}
	client := WithAuthRetry(inner, tokens)

	_, err := client.EnsureTeacherFolders(context.Background(), "Math (MTK)", "Alice", []string{"Module"})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("error = %v, want ErrQuotaExceeded untouched", err)
	}
	if tokens.refreshes != 0 {
		t.Errorf("refreshes = %d, want 0 for non-auth errors", tokens.refreshes)
	}
}

func TestWithAuthRetryNoErrorNoRefresh(t *testing.T) {
	inner := &fakeClient{}
	tokens := &countingTokens{}
	client := WithAuthRetry(inner, tokens)

	set, err := client.EnsureTeacherFolders(context.Background(), "Math (MTK)", "Alice", nil)
	if err != nil {
		t.Fatalf("EnsureTeacherFolders() error = %v", err)
	}
	if set == nil || set.RootID != "Math (MTK)/Alice" {
		t.Errorf("set = %+v", set)
	}
	if tokens.refreshes != 0 {
		t.Errorf("refreshes = %d, want 0", tokens.refreshes)
	}
}

func TestStaticTokenSource(t *testing.T) {
	src := NewStaticTokenSource("api-key")

	tok, err := src.Token(context.Background())
	if err != nil || tok != "api-key" {
		t.Errorf("Token() = %q, %v", tok, err)
	}
	tok, err = src.Refresh(context.Background())
	if err != nil || tok != "api-key" {
		t.Errorf("Refresh() = %q, %v", tok, err)
	}
}
