package services

import (
	"context"
	"fmt"
	"math"

	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/app/repositories"
	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
)

// ProgressService derives submission progress views. All classification goes
// through ComputeProgress; this service only loads the inputs and shapes the
// per-subject breakdown.
type ProgressService struct {
	staffRepo    *repositories.StaffRepository
	workRepo     *repositories.TeacherWorkRepository
	workItemRepo *repositories.WorkItemRepository
}

// NewProgressService creates a new progress service instance
func NewProgressService(
	staffRepo *repositories.StaffRepository,
	workRepo *repositories.TeacherWorkRepository,
	workItemRepo *repositories.WorkItemRepository,
) *ProgressService {
	return &ProgressService{
		staffRepo:    staffRepo,
		workRepo:     workRepo,
		workItemRepo: workItemRepo,
	}
}

// GetTeacherProgress builds the full progress view for one teacher: the
// derived summary plus a per-subject work item breakdown.
func (s *ProgressService) GetTeacherProgress(ctx context.Context, teacherID int64) (*dto.TeacherProgressResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving staff: %w", err)
	}
	if staff == nil {
		return nil, apperrors.ErrStaffNotFound
	}
	if staff.Role != models.RoleTeacher {
		return nil, apperrors.NewBadRequestError("progress is only tracked for teachers")
	}

	works, err := s.workRepo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing teacher works: %w", err)
	}
	items, err := s.workItemRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving work items: %w", err)
	}

	return &dto.TeacherProgressResponse{
		TeacherID: teacherID,
		Summary:   ComputeProgress(works, items),
		Subjects:  buildSubjectBreakdown(works),
	}, nil
}

// GetProgressStats rolls up every teacher's derived status for the admin
// dashboard.
func (s *ProgressService) GetProgressStats(ctx context.Context) (*dto.ProgressStatsResponse, error) {
	teachers, err := s.staffRepo.ListTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	items, err := s.workItemRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving work items: %w", err)
	}

	stats := &dto.ProgressStatsResponse{TotalTeachers: len(teachers)}
	totalProgress := 0
	for i := range teachers {
		works, err := s.workRepo.ListByTeacher(ctx, teachers[i].ID)
		if err != nil {
			return nil, fmt.Errorf("error listing works for teacher %d: %w", teachers[i].ID, err)
		}
		summary := ComputeProgress(works, items)
		totalProgress += summary.ProgressPercentage
		switch OverallStatus(summary.OverallStatus) {
		case OverallComplete:
			stats.Complete++
		case OverallInProgress:
			stats.InProgress++
		default:
			stats.Behind++
		}
	}
	if len(teachers) > 0 {
		stats.AverageProgress = int(math.Round(float64(totalProgress) / float64(len(teachers))))
	}

	return stats, nil
}

// buildSubjectBreakdown groups a teacher's bindings by subject, preserving
// the subject ordering the repository returns.
func buildSubjectBreakdown(works []models.TeacherWork) []dto.SubjectProgress {
	var subjects []dto.SubjectProgress
	bySubject := make(map[int64]int)

	for wi := range works {
		work := &works[wi]
		idx, seen := bySubject[work.SubjectID]
		if !seen {
			sp := dto.SubjectProgress{SubjectID: work.SubjectID}
			if work.Subject != nil {
				sp.SubjectName = work.Subject.Name
			}
			subjects = append(subjects, sp)
			idx = len(subjects) - 1
			bySubject[work.SubjectID] = idx
		}
		subject := &subjects[idx]

		item := dto.WorkItemProgress{
			HasFolder:  work.HasFolder(),
			FilesCount: len(work.Files),
			Files:      []dto.WorkFileResponse{},
		}
		if work.WorkItem != nil {
			item.WorkItem = dto.FromWorkItem(work.WorkItem)
		}
		for fi := range work.Files {
			item.Files = append(item.Files, dto.FromWorkFile(&work.Files[fi]))
		}

		subject.WorkItems = append(subject.WorkItems, item)
		subject.TotalWorkItems++
		if len(work.Files) > 0 {
			subject.CompletedWorkItems++
		}
	}

	for i := range subjects {
		if subjects[i].TotalWorkItems > 0 {
			subjects[i].CompletionPercentage = int(math.Round(
				100 * float64(subjects[i].CompletedWorkItems) / float64(subjects[i].TotalWorkItems)))
		}
	}
	return subjects
}
