package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/app/repositories"
	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
	"github.com/yusuf/schoolsphere/internal/pkg/drive"
	"github.com/yusuf/schoolsphere/internal/pkg/logger"
	"github.com/yusuf/schoolsphere/internal/pkg/uploader"
)

// UploadService handles multi-file submission batches. Each request gets its
// own queue: validation, concurrent transfer and per-file error state all
// live in the uploader package; this service binds them to a teacher work
// record and persists the outcome.
type UploadService struct {
	workRepo      *repositories.TeacherWorkRepository
	fileRepo      *repositories.WorkFileRepository
	store         drive.Client
	maxFiles      int
	maxFileSizeMB int64
}

// NewUploadService creates a new upload service instance
func NewUploadService(
	workRepo *repositories.TeacherWorkRepository,
	fileRepo *repositories.WorkFileRepository,
	store drive.Client,
	maxFiles int,
	maxFileSizeMB int64,
) *UploadService {
	return &UploadService{
		workRepo:      workRepo,
		fileRepo:      fileRepo,
		store:         store,
		maxFiles:      maxFiles,
		maxFileSizeMB: maxFileSizeMB,
	}
}

// UploadBatch transfers the given files against one teacher work binding.
// Invalid files are rejected up front without failing the batch; accepted
// files upload concurrently and one failure never aborts its siblings. Each
// successful transfer is persisted individually, so a partial batch leaves
// the succeeded files in place.
func (s *UploadService) UploadBatch(ctx context.Context, staffID, teacherWorkID int64, headers []*multipart.FileHeader) (*dto.UploadBatchResponse, error) {
	if len(headers) == 0 {
		return nil, apperrors.NewBadRequestError("no files provided")
	}

	work, err := s.workRepo.GetByID(ctx, teacherWorkID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teacher work: %w", err)
	}
	if work == nil {
		return nil, apperrors.ErrTeacherWorkNotFound
	}
	if work.StaffID != staffID {
		return nil, apperrors.ErrNotFileOwner
	}
	if !work.HasFolder() {
		return nil, apperrors.ErrFoldersNotReady
	}

	candidates := make([]uploader.Candidate, len(headers))
	for i, fh := range headers {
		fh := fh
		candidates[i] = uploader.Candidate{
			Name:     fh.Filename,
			Size:     fh.Size,
			MimeType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadSeekCloser, error) {
				return fh.Open()
			},
		}
	}

	var mu sync.Mutex
	var created []models.WorkFile

	orch := uploader.New(s.transferFunc(work, &mu, &created), uploader.Options{
		MaxFiles:      s.maxFiles,
		MaxFileSizeMB: s.maxFileSizeMB,
	})

	added, rejected := orch.Enqueue(candidates)
	resp := &dto.UploadBatchResponse{Rejected: rejected}
	if added == 0 {
		return resp, nil
	}

	result, err := orch.UploadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error running upload batch: %w", err)
	}

	resp.Succeeded = result.Succeeded
	resp.Failed = result.Failed
	for i := range created {
		resp.Files = append(resp.Files, dto.FromWorkFile(&created[i]))
	}
	for _, entry := range orch.Entries() {
		if entry.Status != uploader.StatusError {
			continue
		}
		resp.Errors = append(resp.Errors, dto.UploadEntryError{
			FileName: entry.Name,
			Kind:     string(entry.Kind),
			Message:  entry.Error,
		})
	}

	logger.Info().
		Int64("teacher_work_id", work.ID).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Int("rejected", len(rejected)).
		Msg("Upload batch finished")

	return resp, nil
}

// transferFunc builds the per-entry transfer: push the payload to the store,
// then persist the record with the size and MIME type captured at enqueue
// time. A failed insert rolls the remote copy back so store and database
// stay consistent.
func (s *UploadService) transferFunc(work *models.TeacherWork, mu *sync.Mutex, created *[]models.WorkFile) uploader.UploadFunc {
	return func(ctx context.Context, entry *uploader.FileEntry, r io.ReadSeeker, onProgress func(percent int)) error {
		remote, err := s.store.Upload(ctx, *work.FolderID, entry.Name, r, entry.Size, entry.MimeType, onProgress)
		if err != nil {
			return err
		}

		file := models.WorkFile{
			TeacherWorkID: work.ID,
			FileName:      entry.Name,
			FileURL:       remote.URL,
			FilePath:      remote.Path,
			FileSize:      entry.Size,
			MimeType:      entry.MimeType,
			UploadedAt:    remote.UploadedAt,
			Views:         1,
			Downloads:     0,
		}
		id, err := s.fileRepo.Create(ctx, &file)
		if err != nil {
			if delErr := s.store.Delete(ctx, remote.Ref); delErr != nil {
				logger.Warn().Err(delErr).Str("ref", remote.Ref).Msg("Failed to roll back stored file")
			}
			return fmt.Errorf("error persisting work file: %w", err)
		}
		file.ID = id

		mu.Lock()
		*created = append(*created, file)
		mu.Unlock()
		return nil
	}
}

// ListFiles retrieves the files under one binding, feedback history included.
func (s *UploadService) ListFiles(ctx context.Context, staffID, teacherWorkID int64) ([]dto.WorkFileResponse, error) {
	work, err := s.workRepo.GetByID(ctx, teacherWorkID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teacher work: %w", err)
	}
	if work == nil {
		return nil, apperrors.ErrTeacherWorkNotFound
	}
	if work.StaffID != staffID {
		return nil, apperrors.ErrNotFileOwner
	}

	files, err := s.fileRepo.ListByTeacherWork(ctx, teacherWorkID)
	if err != nil {
		return nil, fmt.Errorf("error listing work files: %w", err)
	}

	responses := make([]dto.WorkFileResponse, len(files))
	for i := range files {
		responses[i] = dto.FromWorkFile(&files[i])
	}
	return responses, nil
}

// DeleteFile removes a work file. Teachers may only delete their own files;
// the headmaster may delete any. The database record goes first; the remote
// copy is removed best-effort afterwards.
func (s *UploadService) DeleteFile(ctx context.Context, staffID, fileID int64, isHeadmaster bool) error {
	file, work, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("error retrieving work file: %w", err)
	}
	if file == nil {
		return apperrors.ErrWorkFileNotFound
	}
	if !isHeadmaster && work.StaffID != staffID {
		return apperrors.ErrNotFileOwner
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("error deleting work file: %w", err)
	}

	if ref := storageRef(file.FilePath); ref != "" {
		if err := s.store.Delete(ctx, ref); err != nil {
			logger.Warn().Err(err).Str("ref", ref).Msg("Failed to delete stored file")
		}
	}

	logger.Info().Int64("file_id", fileID).Str("file_name", file.FileName).Msg("Work file deleted")
	return nil
}

// TrackAccess records one view or download of a file. Any staff member may
// trigger it; reviewers opening files count the same as the owner.
func (s *UploadService) TrackAccess(ctx context.Context, fileID int64, action string) error {
	if err := s.fileRepo.TrackAccess(ctx, fileID, action); err != nil {
		return fmt.Errorf("error tracking file access: %w", err)
	}
	return nil
}

// storageRef strips the provider scheme from a persisted file path.
func storageRef(path string) string {
	if _, ref, ok := strings.Cut(path, "://"); ok {
		return ref
	}
	return path
}
