package uploader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
)

type nopReadSeekCloser struct {
	*bytes.Reader
}

func (nopReadSeekCloser) Close() error { return nil }

func testCandidate(name string, size int64) Candidate {
	return Candidate{
		Name:     name,
		Size:     size,
		MimeType: "application/pdf",
		Open: func() (io.ReadSeekCloser, error) {
			return nopReadSeekCloser{bytes.NewReader(make([]byte, int(size)))}, nil
		},
	}
}

func TestEnqueueRejectsInvalidWithoutFailing(t *testing.T) {
	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		return nil
	}, Options{MaxFiles: 3, MaxFileSizeMB: 1})

	added, rejected := orch.Enqueue([]Candidate{
		testCandidate("ok.pdf", 100),
		testCandidate("bad.exe", 100),
		testCandidate("huge.pdf", 2*1024*1024),
	})

	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if len(rejected) != 2 {
		t.Errorf("rejected = %d, want 2: %v", len(rejected), rejected)
	}
	if got := orch.Stats().Pending; got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}
}

func TestUploadAllIsAllSettled(t *testing.T) {
	// One failing entry must not abort its siblings.
	var mu sync.Mutex
	uploaded := map[string]bool{}

	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		if entry.Name == "fails.pdf" {
			return errors.New("boom")
		}
		mu.Lock()
		uploaded[entry.Name] = true
		mu.Unlock()
		return nil
	}, Options{MaxFiles: 10, MaxFileSizeMB: 10})

	orch.Enqueue([]Candidate{
		testCandidate("a.pdf", 10),
		testCandidate("fails.pdf", 10),
		testCandidate("b.pdf", 10),
	})

	result, err := orch.UploadAll(context.Background())
	if err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 succeeded / 1 failed", result)
	}
	if !uploaded["a.pdf"] || !uploaded["b.pdf"] {
		t.Errorf("siblings of the failing entry were not uploaded: %v", uploaded)
	}
}

func TestUploadAllPrunesCompletedKeepsFailed(t *testing.T) {
	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		if entry.Name == "fails.pdf" {
			return errors.New("boom")
		}
		return nil
	}, Options{MaxFiles: 10, MaxFileSizeMB: 10})

	orch.Enqueue([]Candidate{
		testCandidate("done.pdf", 10),
		testCandidate("fails.pdf", 10),
	})

	if _, err := orch.UploadAll(context.Background()); err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}

	entries := orch.Entries()
	if len(entries) != 1 {
		t.Fatalf("queue holds %d entries after run, want 1 (completed should be pruned)", len(entries))
	}
	if entries[0].Name != "fails.pdf" || entries[0].Status != StatusError {
		t.Errorf("remaining entry = %s/%s, want fails.pdf in error state", entries[0].Name, entries[0].Status)
	}
}

func TestUploadAllNoPruneOnFullFailure(t *testing.T) {
	batchDoneFired := false
	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		return errors.New("boom")
	}, Options{
		MaxFiles:      10,
		MaxFileSizeMB: 10,
		OnBatchDone:   func(succeeded, failed int) { batchDoneFired = true },
	})

	orch.Enqueue([]Candidate{testCandidate("a.pdf", 10), testCandidate("b.pdf", 10)})

	result, err := orch.UploadAll(context.Background())
	if err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}
	if result.Failed != 2 || result.Succeeded != 0 {
		t.Errorf("result = %+v, want 0 succeeded / 2 failed", result)
	}
	if batchDoneFired {
		t.Error("OnBatchDone fired for a run with no successes")
	}
	if got := orch.Stats().Failed; got != 2 {
		t.Errorf("failed entries kept = %d, want 2", got)
	}
}

func TestUploadAllEmptyQueue(t *testing.T) {
	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		return nil
	}, Options{})

	if _, err := orch.UploadAll(context.Background()); !errors.Is(err, ErrNothingToUpload) {
		t.Errorf("UploadAll() error = %v, want ErrNothingToUpload", err)
	}
}

func TestUploadAllRefusesConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		close(started)
		<-release
		return nil
	}, Options{})

	orch.Enqueue([]Candidate{testCandidate("slow.pdf", 10)})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := orch.UploadAll(context.Background()); err != nil {
			t.Errorf("first UploadAll() error = %v", err)
		}
	}()

	<-started
	if _, err := orch.UploadAll(context.Background()); !errors.Is(err, ErrBatchInProgress) {
		t.Errorf("second UploadAll() error = %v, want ErrBatchInProgress", err)
	}
	close(release)
	<-done
}

func TestRetryFailedResetsErroredEntries(t *testing.T) {
	attempts := map[string]int{}
	var mu sync.Mutex

	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		mu.Lock()
		attempts[entry.Name]++
		n := attempts[entry.Name]
		mu.Unlock()
		if n == 1 {
			return errors.New("transient")
		}
		return nil
	}, Options{})

	orch.Enqueue([]Candidate{testCandidate("flaky.pdf", 10)})

	if _, err := orch.UploadAll(context.Background()); err != nil {
		t.Fatalf("first UploadAll() error = %v", err)
	}
	if reset := orch.RetryFailed(); reset != 1 {
		t.Fatalf("RetryFailed() = %d, want 1", reset)
	}

	entries := orch.Entries()
	if entries[0].Status != StatusPending || entries[0].Error != "" || entries[0].Progress != 0 {
		t.Fatalf("entry not reset: %+v", entries[0])
	}

	result, err := orch.UploadAll(context.Background())
	if err != nil {
		t.Fatalf("second UploadAll() error = %v", err)
	}
	if result.Succeeded != 1 {
		t.Errorf("retry run = %+v, want 1 succeeded", result)
	}
}

func TestRemoveRefusesMidTransfer(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		close(started)
		<-release
		return nil
	}, Options{})

	orch.Enqueue([]Candidate{testCandidate("inflight.pdf", 10)})
	id := orch.Entries()[0].ID

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = orch.UploadAll(context.Background())
	}()

	<-started
	if err := orch.Remove(id); !errors.Is(err, ErrEntryUploading) {
		t.Errorf("Remove() mid-transfer error = %v, want ErrEntryUploading", err)
	}
	close(release)
	<-done

	if err := orch.Remove("no-such-id"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Remove() unknown id error = %v, want ErrEntryNotFound", err)
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	var mu sync.Mutex
	var reported []int

	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		// Deliberately report out of order; observers must never see a decrease.
		for _, pct := range []int{10, 40, 25, 70, 60, 100} {
			onProgress(pct)
		}
		return nil
	}, Options{
		OnProgress: func(entryID string, percent int) {
			mu.Lock()
			reported = append(reported, percent)
			mu.Unlock()
		},
	})

	orch.Enqueue([]Candidate{testCandidate("jitter.pdf", 10)})
	if _, err := orch.UploadAll(context.Background()); err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}

	for i := 1; i < len(reported); i++ {
		if reported[i] < reported[i-1] {
			t.Fatalf("progress decreased: %v", reported)
		}
	}
}

func TestUploadOne(t *testing.T) {
	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		if entry.Name == "bad.pdf" {
			return errors.New("boom")
		}
		return nil
	}, Options{})

	orch.Enqueue([]Candidate{testCandidate("good.pdf", 10), testCandidate("bad.pdf", 10)})
	entries := orch.Entries()

	if err := orch.UploadOne(context.Background(), entries[0].ID); err != nil {
		t.Errorf("UploadOne(good) error = %v", err)
	}

	err := orch.UploadOne(context.Background(), entries[1].ID)
	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("UploadOne(bad) error = %v, want *UploadError", err)
	}

	if err := orch.UploadOne(context.Background(), "missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("UploadOne(missing) error = %v, want ErrEntryNotFound", err)
	}
}

func TestClearKeepsInFlightEntries(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	orch := New(func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(int)) error {
		close(started)
		<-release
		return nil
	}, Options{})

	orch.Enqueue([]Candidate{testCandidate("inflight.pdf", 10)})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = orch.UploadAll(context.Background())
	}()

	<-started
	orch.Enqueue([]Candidate{testCandidate("waiting.pdf", 10)})
	orch.Clear()

	stats := orch.Stats()
	if stats.Uploading != 1 || stats.Pending != 0 {
		t.Errorf("stats after Clear = %+v, want the in-flight entry kept and pending dropped", stats)
	}
	close(release)
	<-done
}
