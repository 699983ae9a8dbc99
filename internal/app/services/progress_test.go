package services

import (
	"testing"
	"time"

	"github.com/yusuf/schoolsphere/internal/app/models"
)

func requiredItems(ids ...int64) []models.WorkItem {
	items := make([]models.WorkItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, models.WorkItem{ID: id, IsRequired: true})
	}
	return items
}

func fileWithStatus(status models.FeedbackStatus, reviewedAt time.Time) models.WorkFile {
	if status == "" {
		return models.WorkFile{}
	}
	return models.WorkFile{
		Feedbacks: []models.Feedback{{Status: status, ReviewedAt: reviewedAt}},
	}
}

func TestComputeProgressEmpty(t *testing.T) {
	summary := ComputeProgress(nil, requiredItems(1, 2, 3, 4, 5))

	if summary.ProgressPercentage != 0 {
		t.Errorf("percentage = %d, want 0", summary.ProgressPercentage)
	}
	if summary.OverallStatus != string(OverallBehind) {
		t.Errorf("status = %s, want behind", summary.OverallStatus)
	}
	if summary.TotalRequired != 5 {
		t.Errorf("total required = %d, want 5", summary.TotalRequired)
	}
}

func TestComputeProgressNoRequiredItems(t *testing.T) {
	// Only optional items in the catalog: percentage stays 0 without division.
	items := []models.WorkItem{{ID: 1, IsRequired: false}}
	works := []models.TeacherWork{{WorkItemID: 1, Files: []models.WorkFile{fileWithStatus("", time.Time{})}}}

	summary := ComputeProgress(works, items)
	if summary.TotalRequired != 0 || summary.ProgressPercentage != 0 {
		t.Errorf("summary = %+v, want 0 required and 0 percent", summary)
	}
	if summary.TotalFiles != 1 {
		t.Errorf("total files = %d, want 1", summary.TotalFiles)
	}
}

func TestComputeProgressClassification(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		works      []models.TeacherWork
		items      []models.WorkItem
		wantPct    int
		wantStatus OverallStatus
	}{
		{
			name:       "no files is behind",
			works:      []models.TeacherWork{{WorkItemID: 1}},
			items:      requiredItems(1, 2),
			wantPct:    0,
			wantStatus: OverallBehind,
		},
		{
			name: "under half submitted is behind",
			works: []models.TeacherWork{
				{WorkItemID: 1, Files: []models.WorkFile{fileWithStatus(models.FeedbackApproved, now)}},
			},
			items:      requiredItems(1, 2, 3, 4, 5),
			wantPct:    20,
			wantStatus: OverallBehind,
		},
		{
			name: "half submitted is in progress",
			works: []models.TeacherWork{
				{WorkItemID: 1, Files: []models.WorkFile{fileWithStatus("", now)}},
			},
			items:      requiredItems(1, 2),
			wantPct:    50,
			wantStatus: OverallInProgress,
		},
		{
			name: "fully submitted all approved is complete",
			works: []models.TeacherWork{
				{WorkItemID: 1, Files: []models.WorkFile{fileWithStatus(models.FeedbackApproved, now)}},
				{WorkItemID: 2, Files: []models.WorkFile{fileWithStatus(models.FeedbackApproved, now)}},
			},
			items:      requiredItems(1, 2),
			wantPct:    100,
			wantStatus: OverallComplete,
		},
		{
			name: "fully submitted below approval threshold stays in progress",
			works: []models.TeacherWork{
				{WorkItemID: 1, Files: []models.WorkFile{
					fileWithStatus(models.FeedbackApproved, now),
					fileWithStatus("", now),
				}},
				{WorkItemID: 2, Files: []models.WorkFile{fileWithStatus("", now)}},
			},
			items:      requiredItems(1, 2),
			wantPct:    100,
			wantStatus: OverallInProgress,
		},
		{
			name: "needs revision blocks complete",
			works: []models.TeacherWork{
				{WorkItemID: 1, Files: []models.WorkFile{
					fileWithStatus(models.FeedbackApproved, now),
					fileWithStatus(models.FeedbackApproved, now),
					fileWithStatus(models.FeedbackApproved, now),
					fileWithStatus(models.FeedbackApproved, now),
				}},
				{WorkItemID: 2, Files: []models.WorkFile{fileWithStatus(models.FeedbackNeedsRevision, now)}},
			},
			items:      requiredItems(1, 2),
			wantPct:    100,
			wantStatus: OverallInProgress,
		},
		{
			name: "exactly 80 percent approved is complete",
			works: []models.TeacherWork{
				{WorkItemID: 1, Files: []models.WorkFile{
					fileWithStatus(models.FeedbackApproved, now),
					fileWithStatus(models.FeedbackApproved, now),
					fileWithStatus(models.FeedbackApproved, now),
					fileWithStatus(models.FeedbackApproved, now),
				}},
				{WorkItemID: 2, Files: []models.WorkFile{fileWithStatus("", now)}},
			},
			items:      requiredItems(1, 2),
			wantPct:    100,
			wantStatus: OverallComplete,
		},
		{
			name: "optional items never count toward the percentage",
			works: []models.TeacherWork{
				{WorkItemID: 9, Files: []models.WorkFile{fileWithStatus(models.FeedbackApproved, now)}},
			},
			items: append(requiredItems(1, 2), models.WorkItem{ID: 9, IsRequired: false}),
			// A submitted optional item still leaves both required items open.
			wantPct:    0,
			wantStatus: OverallBehind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := ComputeProgress(tt.works, tt.items)
			if summary.ProgressPercentage != tt.wantPct {
				t.Errorf("percentage = %d, want %d", summary.ProgressPercentage, tt.wantPct)
			}
			if summary.OverallStatus != string(tt.wantStatus) {
				t.Errorf("status = %s, want %s", summary.OverallStatus, tt.wantStatus)
			}
		})
	}
}

func TestComputeProgressUsesLatestFeedbackPerFile(t *testing.T) {
	now := time.Now()
	file := models.WorkFile{
		Feedbacks: []models.Feedback{
			{Status: models.FeedbackNeedsRevision, ReviewedAt: now.Add(-time.Hour)},
			{Status: models.FeedbackApproved, ReviewedAt: now},
		},
	}
	works := []models.TeacherWork{{WorkItemID: 1, Files: []models.WorkFile{file}}}

	summary := ComputeProgress(works, requiredItems(1))
	if summary.ApprovedFiles != 1 || summary.NeedsRevisionFiles != 0 {
		t.Errorf("summary = %+v, want the latest feedback (approved) to win", summary)
	}
	if summary.OverallStatus != string(OverallComplete) {
		t.Errorf("status = %s, want complete", summary.OverallStatus)
	}
}

func TestComputeProgressOrderInvariant(t *testing.T) {
	now := time.Now()
	works := []models.TeacherWork{
		{WorkItemID: 1, Files: []models.WorkFile{fileWithStatus(models.FeedbackApproved, now)}},
		{WorkItemID: 2, Files: []models.WorkFile{fileWithStatus("", now)}},
		{WorkItemID: 3},
	}
	items := requiredItems(1, 2, 3)

	forward := ComputeProgress(works, items)

	reversedWorks := []models.TeacherWork{works[2], works[1], works[0]}
	reversedItems := []models.WorkItem{items[2], items[1], items[0]}
	backward := ComputeProgress(reversedWorks, reversedItems)

	if forward != backward {
		t.Errorf("order changed the result:\nforward  = %+v\nbackward = %+v", forward, backward)
	}
}

func TestComputeProgressMultipleBindingsSameItem(t *testing.T) {
	// The same work item submitted under two subjects counts once.
	now := time.Now()
	works := []models.TeacherWork{
		{SubjectID: 1, WorkItemID: 1, Files: []models.WorkFile{fileWithStatus(models.FeedbackApproved, now)}},
		{SubjectID: 2, WorkItemID: 1, Files: []models.WorkFile{fileWithStatus(models.FeedbackApproved, now)}},
	}

	summary := ComputeProgress(works, requiredItems(1, 2))
	if summary.CompletedWorkItems != 1 {
		t.Errorf("completed = %d, want 1", summary.CompletedWorkItems)
	}
	if summary.TotalFiles != 2 {
		t.Errorf("total files = %d, want 2", summary.TotalFiles)
	}
}
