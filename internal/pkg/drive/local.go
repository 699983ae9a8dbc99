package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yusuf/schoolsphere/internal/pkg/logger"
)

// LocalDrive stores work files on the local filesystem, mirroring the folder
// convention hosted providers use: subject folder -> teacher folder -> one
// subfolder per work item category. Folder identifiers are the paths relative
// to basePath and are treated as opaque by callers.
type LocalDrive struct {
	basePath string // root directory for all work folders
	baseURL  string // prepended to returned file URLs, optional
}

// NewLocalDrive creates a LocalDrive rooted at basePath, creating it if needed.
func NewLocalDrive(basePath, baseURL string) (*LocalDrive, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage root")
		return nil, fmt.Errorf("failed to create storage root %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local work storage root ensured")

	return &LocalDrive{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// EnsureTeacherFolders provisions the subject/teacher/category tree. MkdirAll
// makes this idempotent: repeated calls for the same pair return the same
// folder set.
func (d *LocalDrive) EnsureTeacherFolders(_ context.Context, subjectFolder, teacherFolder string, categories []string) (*FolderSet, error) {
	rootRel := filepath.Join(sanitizeFolderName(subjectFolder), sanitizeFolderName(teacherFolder))
	set := &FolderSet{
		RootID:     rootRel,
		Categories: make(map[string]string, len(categories)),
	}

	for _, category := range categories {
		rel := filepath.Join(rootRel, sanitizeFolderName(category))
		if err := os.MkdirAll(filepath.Join(d.basePath, rel), os.ModePerm); err != nil {
			logger.Error().Err(err).Str("folder", rel).Msg("Failed to create work folder")
			return nil, fmt.Errorf("failed to create work folder %s: %w", rel, err)
		}
		set.Categories[category] = rel
	}

	logger.Info().
		Str("subject", subjectFolder).
		Str("teacher", teacherFolder).
		Int("categories", len(categories)).
		Msg("Work folders ensured")
	return set, nil
}

// Upload copies the payload into the folder, reporting progress as an integer
// percentage that never decreases. The stored name gets a uuid suffix so
// same-named resubmissions never collide.
func (d *LocalDrive) Upload(ctx context.Context, folderID, name string, r io.ReadSeeker, size int64, mimeType string, onProgress ProgressFunc) (*RemoteFile, error) {
	dir := filepath.Join(d.basePath, folderID)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderID)
	}

	ext := filepath.Ext(name)
	storedName := strings.TrimSuffix(name, ext) + "_" + uuid.New().String() + ext
	dstPath := filepath.Join(dir, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	src := io.Reader(r)
	if onProgress != nil && size > 0 {
		src = &progressReader{r: r, total: size, report: onProgress}
	}

	if _, err := copyWithContext(ctx, dst, src); err != nil {
		// Drop the partial file, the entry will be retried as a whole.
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to store file content: %w", err)
	}

	ref := filepath.ToSlash(filepath.Join(folderID, storedName))
	file := &RemoteFile{
		Ref:        ref,
		URL:        d.fileURL(ref),
		Path:       "local://" + ref,
		UploadedAt: time.Now(),
	}

	logger.Info().
		Str("filename", name).
		Str("stored_as", storedName).
		Str("mime_type", mimeType).
		Int64("size", size).
		Msg("Work file stored")
	return file, nil
}

// Delete removes a stored file by its reference. A missing file is treated as
// already deleted.
func (d *LocalDrive) Delete(_ context.Context, ref string) error {
	path := filepath.Join(d.basePath, filepath.FromSlash(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}
	return nil
}

func (d *LocalDrive) fileURL(ref string) string {
	if d.baseURL != "" {
		return strings.TrimRight(d.baseURL, "/") + "/" + ref
	}
	return filepath.ToSlash(filepath.Join("work-files", ref))
}

// sanitizeFolderName keeps folder names filesystem-safe.
func sanitizeFolderName(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "..", "-")
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "unnamed"
	}
	return cleaned
}

// progressReader reports copy progress as a monotonically non-decreasing
// integer percentage.
type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	last   int
	report ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		pct := int(p.loaded * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

// copyWithContext copies src to dst in chunks, honoring ctx cancellation
// between chunks.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
