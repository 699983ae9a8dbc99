package dto

// WorkItemProgress is the per-work-item breakdown for one subject
type WorkItemProgress struct {
	WorkItem   WorkItemResponse   `json:"work_item"`
	HasFolder  bool               `json:"has_folder"`
	FilesCount int                `json:"files_count"`
	Files      []WorkFileResponse `json:"files"`
	FolderURL  string             `json:"folder_url,omitempty"`
}

// SubjectProgress is a teacher's progress within one subject
type SubjectProgress struct {
	SubjectID            int64              `json:"subject_id"`
	SubjectName          string             `json:"subject_name"`
	TotalWorkItems       int                `json:"total_work_items"`
	CompletedWorkItems   int                `json:"completed_work_items"`
	CompletionPercentage int                `json:"completion_percentage"`
	WorkItems            []WorkItemProgress `json:"work_items"`
}

// TeacherProgressResponse is the full per-teacher progress view:
// the derived summary plus the per-subject breakdown.
type TeacherProgressResponse struct {
	TeacherID int64             `json:"teacher_id"`
	Summary   ProgressSummary   `json:"summary"`
	Subjects  []SubjectProgress `json:"subjects"`
}

// ProgressSummary is the derived completion state for one teacher
type ProgressSummary struct {
	CompletedWorkItems int    `json:"completed_work_items"`
	TotalRequired      int    `json:"total_required"`
	ProgressPercentage int    `json:"progress_percentage"`
	TotalFiles         int    `json:"total_files"`
	ApprovedFiles      int    `json:"approved_files"`
	PendingFiles       int    `json:"pending_files"`
	NeedsRevisionFiles int    `json:"needs_revision_files"`
	OverallStatus      string `json:"overall_status"`
}

// ProgressStatsResponse is the school-wide rollup for the admin dashboard
type ProgressStatsResponse struct {
	TotalTeachers   int `json:"total_teachers"`
	Complete        int `json:"complete"`
	InProgress      int `json:"in_progress"`
	Behind          int `json:"behind"`
	AverageProgress int `json:"average_progress"`
}
