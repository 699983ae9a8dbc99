package services

import (
	"math"

	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
)

// OverallStatus classifies a teacher's submission completeness.
type OverallStatus string

const (
	OverallComplete   OverallStatus = "complete"
	OverallInProgress OverallStatus = "in-progress"
	OverallBehind     OverallStatus = "behind"
)

// approvalThreshold is the share of files that must carry an approved latest
// feedback before a fully-submitted teacher counts as complete.
const approvalThreshold = 0.8

// ComputeProgress derives a teacher's completion state from their work
// bindings and the work item catalog. It is a pure function: same inputs,
// same output, regardless of input order, and it never touches storage.
//
// A work item counts as completed when at least one file exists under any of
// the teacher's bindings for it. File counters aggregate per file over the
// latest feedback (by reviewed time); files without feedback count as pending.
func ComputeProgress(works []models.TeacherWork, workItems []models.WorkItem) dto.ProgressSummary {
	submitted := make(map[int64]bool)
	for _, w := range works {
		if len(w.Files) > 0 {
			submitted[w.WorkItemID] = true
		}
	}

	totalRequired := 0
	completed := 0
	for _, item := range workItems {
		if !item.IsRequired {
			continue
		}
		totalRequired++
		if submitted[item.ID] {
			completed++
		}
	}

	percentage := 0
	if totalRequired > 0 {
		percentage = int(math.Round(100 * float64(completed) / float64(totalRequired)))
	}

	var totalFiles, approved, pending, needsRevision int
	for _, w := range works {
		for i := range w.Files {
			totalFiles++
			switch w.Files[i].ReviewState() {
			case models.FeedbackApproved:
				approved++
			case models.FeedbackNeedsRevision:
				needsRevision++
			default:
				pending++
			}
		}
	}

	return dto.ProgressSummary{
		CompletedWorkItems: completed,
		TotalRequired:      totalRequired,
		ProgressPercentage: percentage,
		TotalFiles:         totalFiles,
		ApprovedFiles:      approved,
		PendingFiles:       pending,
		NeedsRevisionFiles: needsRevision,
		OverallStatus:      string(classifyOverall(percentage, totalFiles, approved, needsRevision)),
	}
}

// classifyOverall applies the classification precedence: no files at all is
// behind no matter how the percentage falls out; under half submitted is
// behind; fully submitted is complete only once at least 80% of files are
// approved and none need revision; everything else is in progress.
func classifyOverall(percentage, totalFiles, approved, needsRevision int) OverallStatus {
	if totalFiles == 0 {
		return OverallBehind
	}
	if percentage < 50 {
		return OverallBehind
	}
	if percentage >= 100 &&
		float64(approved)/float64(totalFiles) >= approvalThreshold &&
		needsRevision == 0 {
		return OverallComplete
	}
	return OverallInProgress
}
