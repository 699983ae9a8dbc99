package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yusuf/schoolsphere/internal/app/models"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/app/services"
	"github.com/yusuf/schoolsphere/internal/middleware"
)

// ProgressController handles derived progress views
type ProgressController struct {
	progressService *services.ProgressService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService *services.ProgressService) *ProgressController {
	return &ProgressController{
		progressService: progressService,
	}
}

// GetTeacherProgress retrieves one teacher's progress view
// @Summary Get teacher progress
// @Description Retrieves the derived completion summary and per-subject breakdown for a teacher. Teachers may only view their own progress.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherProgressResponse} "Progress retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid teacher ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Teachers may only view their own progress"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/teachers/{id} [get]
func (c *ProgressController) GetTeacherProgress(ctx *gin.Context) {
	teacherID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid teacher ID")
		errorDetail = errorDetail.WithDetails("Teacher ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	staffID, _ := middleware.CurrentStaffID(ctx)
	if role, _ := ctx.Get(middleware.ContextRole); role == string(models.RoleTeacher) && teacherID != staffID {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("Teachers may only view their own progress")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	progress, err := c.progressService.GetTeacherProgress(ctx, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      progress,
		Timestamp: time.Now(),
	})
}

// GetProgressStats retrieves the school-wide progress rollup
// @Summary Get progress statistics
// @Description Rolls up every teacher's derived status for the admin dashboard
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProgressStatsResponse} "Statistics retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/stats [get]
func (c *ProgressController) GetProgressStats(ctx *gin.Context) {
	stats, err := c.progressService.GetProgressStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}
