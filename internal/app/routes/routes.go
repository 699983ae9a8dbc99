package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yusuf/schoolsphere/internal/app/controllers"
	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	workItemController *controllers.WorkItemController,
	workFileController *controllers.WorkFileController,
	feedbackController *controllers.FeedbackController,
	progressController *controllers.ProgressController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Work item catalog routes
		workItems := authenticated.Group("/work-items")
		{
			workItems.GET("", workItemController.GetWorkItems)
			workItems.GET("/lookup", workItemController.LookupWork)

			// Teachers can only add optional personal items to the catalog
			workItems.POST("/personal", workItemController.CreateTeacherWorkItem)

			// Folder provisioning; teachers may only provision their own
			// folders, enforced in the controller
			workItems.POST("/init-folders", workItemController.InitFolders)

			// Catalog management is restricted to the headmaster
			workItemsHeadmasterProtected := workItems.Group("")
			workItemsHeadmasterProtected.Use(authMiddleware.RoleRequired(string(models.RoleHeadmaster)))
			{
				workItemsHeadmasterProtected.POST("", workItemController.CreateWorkItem)
				workItemsHeadmasterProtected.PUT("/:id", workItemController.RenameWorkItem)
				workItemsHeadmasterProtected.DELETE("/:id", workItemController.DeleteWorkItem)
			}
		}

		// Work file routes - upload and listing are scoped to a teacher work
		// assignment, ownership is enforced in the service layer
		teacherWorks := authenticated.Group("/teacher-works")
		{
			teacherWorks.POST("/:id/files", workFileController.UploadFiles)
			teacherWorks.GET("/:id/files", workFileController.ListFiles)
		}

		workFiles := authenticated.Group("/work-files")
		{
			workFiles.DELETE("/:id", workFileController.DeleteFile)
			workFiles.POST("/:id/track", workFileController.TrackAccess)
		}

		// Feedback routes
		feedback := authenticated.Group("/feedback")
		{
			feedback.POST("/:id/read", feedbackController.MarkRead)
			feedback.POST("/read-all", feedbackController.MarkAllRead)
			feedback.GET("/summary", feedbackController.GetSummary)

			// Only the headmaster reviews submissions
			feedbackHeadmasterProtected := feedback.Group("")
			feedbackHeadmasterProtected.Use(authMiddleware.RoleRequired(string(models.RoleHeadmaster)))
			{
				feedbackHeadmasterProtected.POST("", feedbackController.CreateFeedback)
			}
		}

		// Progress routes
		progress := authenticated.Group("/progress")
		{
			// Teachers may only view their own progress, enforced in the controller
			progress.GET("/teachers/:id", progressController.GetTeacherProgress)

			progressHeadmasterProtected := progress.Group("")
			progressHeadmasterProtected.Use(authMiddleware.RoleRequired(string(models.RoleHeadmaster)))
			{
				progressHeadmasterProtected.GET("/stats", progressController.GetProgressStats)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
