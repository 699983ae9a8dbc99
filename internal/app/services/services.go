package services

import (
	"github.com/yusuf/schoolsphere/internal/app/repositories"
	"github.com/yusuf/schoolsphere/internal/pkg/auth"
	"github.com/yusuf/schoolsphere/internal/pkg/drive"
)

// Services bundles all service instances for dependency injection
type Services struct {
	Auth     *AuthService
	WorkItem *WorkItemService
	Upload   *UploadService
	Feedback *FeedbackService
	Progress *ProgressService
}

// NewServices wires all services over the repositories and the storage client
func NewServices(repos *repositories.Repositories, store drive.Client, jwtService *auth.JWTService, maxFiles int, maxFileSizeMB int64) *Services {
	return &Services{
		Auth:     NewAuthService(repos.Staff, jwtService),
		WorkItem: NewWorkItemService(repos.WorkItem, repos.TeacherWork, repos.Staff, repos.Subject, store),
		Upload:   NewUploadService(repos.TeacherWork, repos.WorkFile, store, maxFiles, maxFileSizeMB),
		Feedback: NewFeedbackService(repos.Feedback, repos.WorkFile, repos.TeacherWork, repos.Staff),
		Progress: NewProgressService(repos.Staff, repos.TeacherWork, repos.WorkItem),
	}
}
