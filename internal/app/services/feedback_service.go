package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/app/repositories"
	"github.com/yusuf/schoolsphere/internal/pkg/apperrors"
	"github.com/yusuf/schoolsphere/internal/pkg/logger"
)

// recentFeedbackLimit caps the notification summary's recent list.
const recentFeedbackLimit = 10

// FeedbackService handles reviewer feedback on work files. Feedback is
// append-only: resubmission cycles accumulate history and only the latest
// record (by reviewed time) determines a file's effective status.
type FeedbackService struct {
	feedbackRepo *repositories.FeedbackRepository
	fileRepo     *repositories.WorkFileRepository
	workRepo     *repositories.TeacherWorkRepository
	staffRepo    *repositories.StaffRepository
}

// NewFeedbackService creates a new feedback service instance
func NewFeedbackService(
	feedbackRepo *repositories.FeedbackRepository,
	fileRepo *repositories.WorkFileRepository,
	workRepo *repositories.TeacherWorkRepository,
	staffRepo *repositories.StaffRepository,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		fileRepo:     fileRepo,
		workRepo:     workRepo,
		staffRepo:    staffRepo,
	}
}

// CreateFeedback appends a reviewer's assessment to a work file. Earlier
// feedback for the same file stays in history untouched.
func (s *FeedbackService) CreateFeedback(ctx context.Context, reviewerID int64, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	reviewer, err := s.staffRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving reviewer: %w", err)
	}
	if reviewer == nil {
		return nil, apperrors.ErrStaffNotFound
	}

	file, _, err := s.fileRepo.GetByID(ctx, req.WorkFileID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving work file: %w", err)
	}
	if file == nil {
		return nil, apperrors.ErrWorkFileNotFound
	}

	status := models.FeedbackStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.NewBadRequestError("invalid feedback status")
	}

	fb := &models.Feedback{
		WorkFileID: file.ID,
		ReviewerID: reviewer.ID,
		Comment:    req.Feedback,
		Status:     status,
		ReviewedAt: time.Now(),
	}
	id, err := s.feedbackRepo.Create(ctx, fb)
	if err != nil {
		return nil, fmt.Errorf("error creating feedback: %w", err)
	}
	fb.ID = id
	fb.ReviewerName = reviewer.Name

	logger.Info().
		Int64("file_id", file.ID).
		Int64("reviewer_id", reviewer.ID).
		Str("status", string(status)).
		Msg("Feedback recorded")

	resp := dto.FromFeedback(fb)
	return &resp, nil
}

// MarkRead marks one feedback record as seen by the owning teacher. Marking
// already-read feedback is a no-op.
func (s *FeedbackService) MarkRead(ctx context.Context, staffID, feedbackID int64) error {
	fb, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		return fmt.Errorf("error retrieving feedback: %w", err)
	}
	if fb == nil {
		return apperrors.ErrFeedbackNotFound
	}

	_, work, err := s.fileRepo.GetByID(ctx, fb.WorkFileID)
	if err != nil {
		return fmt.Errorf("error retrieving work file: %w", err)
	}
	if work == nil {
		return apperrors.ErrFeedbackNotFound
	}
	if work.StaffID != staffID {
		return apperrors.ErrNotFileOwner
	}

	if fb.TeacherReadAt != nil {
		return nil
	}
	if err := s.feedbackRepo.MarkRead(ctx, feedbackID); err != nil {
		return fmt.Errorf("error marking feedback read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread feedback record across the teacher's files
// as seen, returning how many records changed.
func (s *FeedbackService) MarkAllRead(ctx context.Context, staffID int64) (int64, error) {
	count, err := s.feedbackRepo.MarkAllReadForTeacher(ctx, staffID)
	if err != nil {
		return 0, fmt.Errorf("error marking all feedback read: %w", err)
	}
	return count, nil
}

// GetSummary builds the teacher's notification view: per-status file counts
// over the latest feedback, the unread count, and the most recent feedback
// entries newest first.
func (s *FeedbackService) GetSummary(ctx context.Context, staffID int64) (*dto.FeedbackSummaryResponse, error) {
	works, err := s.workRepo.ListByTeacher(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("error listing teacher works: %w", err)
	}

	summary := &dto.FeedbackSummaryResponse{
		RecentFeedbacks: []dto.RecentFeedback{},
	}
	var all []dto.RecentFeedback
	for wi := range works {
		work := &works[wi]
		for fi := range work.Files {
			file := &work.Files[fi]
			summary.TotalFiles++
			switch file.ReviewState() {
			case models.FeedbackApproved:
				summary.ApprovedFiles++
			case models.FeedbackNeedsRevision:
				summary.NeedsRevisionFiles++
			default:
				summary.PendingFeedback++
			}

			for i := range file.Feedbacks {
				fb := &file.Feedbacks[i]
				if fb.IsUnread() {
					summary.UnreadFeedback++
				}
				entry := dto.RecentFeedback{
					ID:           fb.ID,
					FileName:     file.FileName,
					Feedback:     fb.Comment,
					Status:       string(fb.Status),
					ReviewerName: fb.ReviewerName,
					ReviewedAt:   fb.ReviewedAt,
					IsUnread:     fb.IsUnread(),
				}
				if work.WorkItem != nil {
					entry.WorkItemName = work.WorkItem.Name
				}
				if work.Subject != nil {
					entry.SubjectName = work.Subject.Name
				}
				all = append(all, entry)
			}
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ReviewedAt.After(all[j].ReviewedAt)
	})
	if len(all) > recentFeedbackLimit {
		all = all[:recentFeedbackLimit]
	}
	summary.RecentFeedbacks = append(summary.RecentFeedbacks, all...)
	summary.HasNewFeedback = summary.UnreadFeedback > 0

	return summary, nil
}
