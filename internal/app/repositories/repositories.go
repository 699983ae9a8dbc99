package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles all repository instances for dependency injection
type Repositories struct {
	Staff       *StaffRepository
	Subject     *SubjectRepository
	WorkItem    *WorkItemRepository
	TeacherWork *TeacherWorkRepository
	WorkFile    *WorkFileRepository
	Feedback    *FeedbackRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Staff:       NewStaffRepository(db),
		Subject:     NewSubjectRepository(db),
		WorkItem:    NewWorkItemRepository(db),
		TeacherWork: NewTeacherWorkRepository(db),
		WorkFile:    NewWorkFileRepository(db),
		Feedback:    NewFeedbackRepository(db),
	}
}
