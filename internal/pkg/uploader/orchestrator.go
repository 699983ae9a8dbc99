package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/yusuf/schoolsphere/internal/pkg/logger"
)

// Status is the lifecycle state of a queued file.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Queue operation errors.
var (
	ErrEntryNotFound   = errors.New("queue entry not found")
	ErrEntryUploading  = errors.New("queue entry is mid-transfer")
	ErrEntryCompleted  = errors.New("queue entry already completed")
	ErrBatchInProgress = errors.New("an upload batch is already running")
	ErrNothingToUpload = errors.New("no pending entries to upload")
)

// Candidate describes a file selected for upload, before validation. Open
// provides the payload on demand so queued files do not hold descriptors.
type Candidate struct {
	Name     string
	Size     int64
	MimeType string
	Open     func() (io.ReadSeekCloser, error)
}

// FileEntry is one queued file with its transfer state.
type FileEntry struct {
	ID       string
	Name     string
	Size     int64
	MimeType string
	Status   Status
	Progress int
	Error    string
	Kind     ErrorKind

	open       func() (io.ReadSeekCloser, error)
	enqueuedAt time.Time
}

// UploadFunc transfers one file payload and persists its record, reporting
// progress as an integer percentage. It resolves the owning teacher work
// binding itself, creating it when absent.
type UploadFunc func(ctx context.Context, entry *FileEntry, r io.ReadSeeker, onProgress func(percent int)) error

// Options configures an Orchestrator.
type Options struct {
	MaxFiles      int
	MaxFileSizeMB int64
	// OnProgress observes per-entry progress. Values for one entry never
	// decrease.
	OnProgress func(entryID string, percent int)
	// OnBatchDone fires once per UploadAll run that completed at least one
	// file, so the caller can refresh listings. Failed entries stay queued.
	OnBatchDone func(succeeded, failed int)
}

// UploadResult is the aggregate outcome of one UploadAll run.
type UploadResult struct {
	Succeeded int
	Failed    int
}

// Stats summarizes the queue by entry status.
type Stats struct {
	Total     int
	Pending   int
	Uploading int
	Completed int
	Failed    int
}

// Orchestrator owns the upload queue for one submission target and drives
// concurrent transfers over it. All queue mutation goes through its methods;
// the entry slice is never shared out (Entries returns copies).
type Orchestrator struct {
	mu      sync.Mutex
	entries []*FileEntry
	running bool

	upload UploadFunc
	opts   Options
}

// New creates an Orchestrator that transfers files with upload.
func New(upload UploadFunc, opts Options) *Orchestrator {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 10
	}
	if opts.MaxFileSizeMB <= 0 {
		opts.MaxFileSizeMB = 10
	}
	return &Orchestrator{
		upload: upload,
		opts:   opts,
	}
}

// Enqueue validates the candidates and appends the accepted ones as pending
// entries. Rejected candidates never fail the enqueue; their reasons are
// returned for the caller to surface (see SummarizeRejections).
func (o *Orchestrator) Enqueue(candidates []Candidate) (added int, rejected []string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	queued := make([]QueuedFile, len(o.entries))
	for i, e := range o.entries {
		queued[i] = QueuedFile{Name: e.Name, Size: e.Size}
	}

	accepted, rejected := ValidateFiles(candidates, queued, o.opts.MaxFiles, o.opts.MaxFileSizeMB)
	now := time.Now()
	for _, c := range accepted {
		o.entries = append(o.entries, &FileEntry{
			ID:         entryID(c.Name, c.Size, now),
			Name:       c.Name,
			Size:       c.Size,
			MimeType:   c.MimeType,
			Status:     StatusPending,
			open:       c.Open,
			enqueuedAt: now,
		})
	}
	return len(accepted), rejected
}

// UploadAll transfers every pending entry concurrently. One failing entry
// never aborts its siblings; the run always waits for all of them. On any
// success the completed entries are pruned and OnBatchDone fires once.
// Concurrent runs on the same queue are refused.
func (o *Orchestrator) UploadAll(ctx context.Context) (UploadResult, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return UploadResult{}, ErrBatchInProgress
	}
	var batch []*FileEntry
	for _, e := range o.entries {
		if e.Status == StatusPending {
			batch = append(batch, e)
		}
	}
	if len(batch) == 0 {
		o.mu.Unlock()
		return UploadResult{}, ErrNothingToUpload
	}
	o.running = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	var wg sync.WaitGroup
	for _, entry := range batch {
		wg.Add(1)
		go func(e *FileEntry) {
			defer wg.Done()
			o.transfer(ctx, e)
		}(entry)
	}
	wg.Wait()

	var result UploadResult
	o.mu.Lock()
	for _, e := range batch {
		if e.Status == StatusCompleted {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	if result.Succeeded > 0 {
		kept := o.entries[:0]
		for _, e := range o.entries {
			if e.Status != StatusCompleted {
				kept = append(kept, e)
			}
		}
		o.entries = kept
	}
	o.mu.Unlock()

	if result.Succeeded > 0 && o.opts.OnBatchDone != nil {
		o.opts.OnBatchDone(result.Succeeded, result.Failed)
	}
	if result.Failed > 0 && result.Succeeded == 0 {
		// Full-batch failure is reported once, not per file.
		logger.Error().Int("failed", result.Failed).Msg("All file uploads in batch failed")
	}

	return result, nil
}

// UploadOne transfers a single entry by id. Calling it for an entry that
// already completed is a caller error, as is calling it mid-transfer.
func (o *Orchestrator) UploadOne(ctx context.Context, id string) error {
	o.mu.Lock()
	entry := o.find(id)
	if entry == nil {
		o.mu.Unlock()
		return ErrEntryNotFound
	}
	switch entry.Status {
	case StatusCompleted:
		o.mu.Unlock()
		return ErrEntryCompleted
	case StatusUploading:
		o.mu.Unlock()
		return ErrEntryUploading
	}
	o.mu.Unlock()

	o.transfer(ctx, entry)

	o.mu.Lock()
	defer o.mu.Unlock()
	if entry.Status == StatusError {
		return &UploadError{Kind: entry.Kind, Message: entry.Error}
	}
	return nil
}

// RetryFailed resets every errored entry back to pending with progress and
// error cleared. It does not start a new run; the caller triggers UploadAll
// explicitly.
func (o *Orchestrator) RetryFailed() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	reset := 0
	for _, e := range o.entries {
		if e.Status == StatusError {
			e.Status = StatusPending
			e.Progress = 0
			e.Error = ""
			e.Kind = ""
			reset++
		}
	}
	return reset
}

// Remove drops an entry from the queue unless it is mid-transfer.
func (o *Orchestrator) Remove(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, e := range o.entries {
		if e.ID != id {
			continue
		}
		if e.Status == StatusUploading {
			return ErrEntryUploading
		}
		o.entries = append(o.entries[:i], o.entries[i+1:]...)
		return nil
	}
	return ErrEntryNotFound
}

// Clear drops every entry that is not mid-transfer.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.entries[:0]
	for _, e := range o.entries {
		if e.Status == StatusUploading {
			kept = append(kept, e)
		}
	}
	o.entries = kept
}

// Entries returns a snapshot of the queue in enqueue order.
func (o *Orchestrator) Entries() []FileEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]FileEntry, len(o.entries))
	for i, e := range o.entries {
		out[i] = *e
	}
	return out
}

// Stats summarizes the queue by status.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Stats{Total: len(o.entries)}
	for _, e := range o.entries {
		switch e.Status {
		case StatusPending:
			s.Pending++
		case StatusUploading:
			s.Uploading++
		case StatusCompleted:
			s.Completed++
		case StatusError:
			s.Failed++
		}
	}
	return s
}

// transfer runs one entry through the upload function, maintaining its state
// under the queue lock. Progress updates are monotonic per entry.
func (o *Orchestrator) transfer(ctx context.Context, entry *FileEntry) {
	o.mu.Lock()
	entry.Status = StatusUploading
	entry.Progress = 0
	entry.Error = ""
	entry.Kind = ""
	o.mu.Unlock()

	err := o.send(ctx, entry)
	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		classified := Classify(err)
		entry.Status = StatusError
		entry.Error = classified.Message
		entry.Kind = classified.Kind
		entry.Progress = 0
		logger.Warn().
			Str("file", entry.Name).
			Str("kind", string(classified.Kind)).
			Err(err).
			Msg("File upload failed")
		return
	}

	entry.Status = StatusCompleted
	entry.Progress = 100
}

func (o *Orchestrator) send(ctx context.Context, entry *FileEntry) error {
	payload, err := entry.open()
	if err != nil {
		return fmt.Errorf("opening payload: %w", err)
	}
	defer payload.Close()

	return o.upload(ctx, entry, payload, func(percent int) {
		o.mu.Lock()
		if percent > entry.Progress && entry.Status == StatusUploading {
			entry.Progress = percent
		} else {
			percent = entry.Progress
		}
		o.mu.Unlock()
		if o.opts.OnProgress != nil {
			o.opts.OnProgress(entry.ID, percent)
		}
	})
}

func (o *Orchestrator) find(id string) *FileEntry {
	for _, e := range o.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// entryID disambiguates same-named files across batches: name and size plus
// the enqueue instant.
func entryID(name string, size int64, at time.Time) string {
	return fmt.Sprintf("%s-%d-%d", name, size, at.UnixNano())
}
