package models

import "time"

// TeacherWork binds one teacher to one subject to one work item. The triple
// (staff, subject, work item) is unique and corresponds to one folder in the
// external store. FolderID stays nil until folders are initialized.
type TeacherWork struct {
	ID         int64     `json:"id"`
	StaffID    int64     `json:"staff_id"`
	SubjectID  int64     `json:"subject_id"`
	WorkItemID int64     `json:"work_item_id"`
	FolderID   *string   `json:"folder_id,omitempty"`
	FolderName string    `json:"folder_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	WorkItem *WorkItem  `json:"work_item,omitempty"`
	Subject  *Subject   `json:"subject,omitempty"`
	Files    []WorkFile `json:"files,omitempty"`
}

// HasFolder reports whether the external folder has been provisioned.
func (w *TeacherWork) HasFolder() bool {
	return w.FolderID != nil && *w.FolderID != ""
}
