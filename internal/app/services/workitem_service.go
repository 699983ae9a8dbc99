package services

import (
	"context"
	"fmt"

	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/app/repositories"
	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
	"github.com/yusuf/schoolsphere/internal/pkg/drive"
	"github.com/yusuf/schoolsphere/internal/pkg/logger"
)

// WorkItemService handles the work item catalog and folder provisioning.
// Headmaster-created items are mandatory for every teacher; items teachers
// add for themselves are always optional.
type WorkItemService struct {
	workItemRepo *repositories.WorkItemRepository
	workRepo     *repositories.TeacherWorkRepository
	staffRepo    *repositories.StaffRepository
	subjectRepo  *repositories.SubjectRepository
	store        drive.Client
}

// NewWorkItemService creates a new work item service instance
func NewWorkItemService(
	workItemRepo *repositories.WorkItemRepository,
	workRepo *repositories.TeacherWorkRepository,
	staffRepo *repositories.StaffRepository,
	subjectRepo *repositories.SubjectRepository,
	store drive.Client,
) *WorkItemService {
	return &WorkItemService{
		workItemRepo: workItemRepo,
		workRepo:     workRepo,
		staffRepo:    staffRepo,
		subjectRepo:  subjectRepo,
		store:        store,
	}
}

// GetWorkItems retrieves the full work item catalog
func (s *WorkItemService) GetWorkItems(ctx context.Context) ([]dto.WorkItemResponse, error) {
	items, err := s.workItemRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving work items: %w", err)
	}

	responses := make([]dto.WorkItemResponse, len(items))
	for i := range items {
		responses[i] = dto.FromWorkItem(&items[i])
	}
	return responses, nil
}

// CreateWorkItem adds a headmaster-defined deliverable category. Names are
// unique across the catalog.
func (s *WorkItemService) CreateWorkItem(ctx context.Context, req *dto.CreateWorkItemRequest) (*dto.WorkItemResponse, error) {
	exists, err := s.workItemRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("error checking work item name: %w", err)
	}
	if exists {
		return nil, apperrors.ErrWorkItemNameExists
	}

	item := &models.WorkItem{
		Name:          req.Name,
		IsRequired:    req.IsRequired,
		CreatedByRole: models.RoleHeadmaster,
	}
	id, err := s.workItemRepo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating work item: %w", err)
	}
	item.ID = id

	logger.Info().Str("name", item.Name).Bool("required", item.IsRequired).Msg("Work item created")
	resp := dto.FromWorkItem(item)
	return &resp, nil
}

// CreateTeacherWorkItem adds a teacher's personal work item. These are forced
// optional regardless of what the caller asks for.
func (s *WorkItemService) CreateTeacherWorkItem(ctx context.Context, req *dto.CreateTeacherWorkItemRequest) (*dto.WorkItemResponse, error) {
	exists, err := s.workItemRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("error checking work item name: %w", err)
	}
	if exists {
		return nil, apperrors.ErrWorkItemNameExists
	}

	item := &models.WorkItem{
		Name:          req.Name,
		IsRequired:    false,
		CreatedByRole: models.RoleTeacher,
	}
	id, err := s.workItemRepo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating work item: %w", err)
	}
	item.ID = id

	resp := dto.FromWorkItem(item)
	return &resp, nil
}

// RenameWorkItem renames a work item; rename is the only permitted mutation
// so requirement status never flips under existing submissions.
func (s *WorkItemService) RenameWorkItem(ctx context.Context, id int64, req *dto.UpdateWorkItemRequest) (*dto.WorkItemResponse, error) {
	item, err := s.workItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving work item: %w", err)
	}
	if item == nil {
		return nil, apperrors.ErrWorkItemNotFound
	}

	if item.Name != req.Name {
		exists, err := s.workItemRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, fmt.Errorf("error checking work item name: %w", err)
		}
		if exists {
			return nil, apperrors.ErrWorkItemNameExists
		}
	}

	if err := s.workItemRepo.Rename(ctx, id, req.Name); err != nil {
		return nil, fmt.Errorf("error renaming work item: %w", err)
	}

	item.Name = req.Name
	resp := dto.FromWorkItem(item)
	return &resp, nil
}

// DeleteWorkItem deletes a work item unless any teacher has submitted files
// against it.
func (s *WorkItemService) DeleteWorkItem(ctx context.Context, id int64) error {
	item, err := s.workItemRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error retrieving work item: %w", err)
	}
	if item == nil {
		return apperrors.ErrWorkItemNotFound
	}

	count, err := s.workItemRepo.CountSubmissions(ctx, id)
	if err != nil {
		return fmt.Errorf("error counting submissions: %w", err)
	}
	if count > 0 {
		return apperrors.ErrWorkItemHasUploads
	}

	if err := s.workItemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting work item: %w", err)
	}

	logger.Info().Int64("work_item_id", id).Str("name", item.Name).Msg("Work item deleted")
	return nil
}

// InitializeTeacherFolders provisions the external folder tree for one
// (teacher, subject) pair: a subject folder, a teacher folder under it, and
// one category subfolder per work item. Re-running for the same pair is a
// no-op that returns the same folders.
func (s *WorkItemService) InitializeTeacherFolders(ctx context.Context, req *dto.InitFoldersRequest) (*dto.InitFoldersResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving staff: %w", err)
	}
	if staff == nil {
		return nil, apperrors.ErrStaffNotFound
	}
	if staff.Role != models.RoleTeacher {
		return nil, apperrors.NewBadRequestError("folders can only be initialized for teachers")
	}

	subject, err := s.subjectRepo.GetByID(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	if subject == nil {
		return nil, apperrors.ErrSubjectNotFound
	}

	items, err := s.workItemRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving work items: %w", err)
	}
	if len(items) == 0 {
		return nil, apperrors.NewBadRequestError("no work items defined yet")
	}

	categories := make([]string, len(items))
	for i, item := range items {
		categories[i] = item.Name
	}

	subjectFolder := fmt.Sprintf("%s (%s)", subject.Name, subject.Code)
	set, err := s.store.EnsureTeacherFolders(ctx, subjectFolder, staff.Name, categories)
	if err != nil {
		return nil, fmt.Errorf("error provisioning work folders: %w", err)
	}

	for _, item := range items {
		work, err := s.workRepo.GetOrCreate(ctx, staff.ID, subject.ID, item.ID, item.Name)
		if err != nil {
			return nil, fmt.Errorf("error binding work item %q: %w", item.Name, err)
		}
		folderID, ok := set.Categories[item.Name]
		if !ok {
			return nil, fmt.Errorf("provider returned no folder for category %q", item.Name)
		}
		if err := s.workRepo.SetFolder(ctx, work.ID, folderID, item.Name); err != nil {
			return nil, fmt.Errorf("error recording folder for %q: %w", item.Name, err)
		}
	}

	logger.Info().
		Int64("teacher_id", staff.ID).
		Int64("subject_id", subject.ID).
		Int("work_items", len(items)).
		Msg("Teacher work folders initialized")

	return &dto.InitFoldersResponse{
		Success: true,
		Message: fmt.Sprintf("Folders initialized for %s / %s", subjectFolder, staff.Name),
	}, nil
}

// LookupWork resolves the binding uploads are issued against. A missing
// binding means folders were never initialized for the pair.
func (s *WorkItemService) LookupWork(ctx context.Context, staffID, subjectID, workItemID int64) (*dto.LookupWorkResponse, error) {
	work, err := s.workRepo.GetByTriple(ctx, staffID, subjectID, workItemID)
	if err != nil {
		return nil, fmt.Errorf("error looking up teacher work: %w", err)
	}
	if work == nil {
		return nil, apperrors.ErrTeacherWorkNotFound
	}

	return &dto.LookupWorkResponse{
		TeacherWorkID: work.ID,
		FolderID:      work.FolderID,
	}, nil
}
