package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yusuf/schoolsphere/internal/app/models/dto"
	"github.com/yusuf/schoolsphere/internal/app/services"
	"github.com/yusuf/schoolsphere/internal/middleware"
)

// FeedbackController handles review feedback operations
type FeedbackController struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService *services.FeedbackService) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
	}
}

// CreateFeedback records a reviewer's assessment of a work file
// @Summary Create feedback
// @Description Appends an assessment to a file's feedback history; earlier feedback is kept
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFeedbackRequest true "Feedback information"
// @Success 201 {object} dto.APIResponse{data=dto.FeedbackResponse} "Feedback created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Work file not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback [post]
func (c *FeedbackController) CreateFeedback(ctx *gin.Context) {
	var req dto.CreateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid feedback data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	reviewerID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	fb, err := c.feedbackService.CreateFeedback(ctx, reviewerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      fb,
		Timestamp: time.Now(),
	})
}

// MarkRead marks one feedback record as seen by the owning teacher
// @Summary Mark feedback read
// @Description Marks a feedback record as read; marking already-read feedback is a no-op
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Feedback marked read"
// @Failure 400 {object} dto.ErrorResponse "Invalid feedback ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Feedback belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Feedback not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback/{id}/read [post]
func (c *FeedbackController) MarkRead(ctx *gin.Context) {
	feedbackID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid feedback ID")
		errorDetail = errorDetail.WithDetails("Feedback ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	staffID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.feedbackService.MarkRead(ctx, staffID, feedbackID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Success: true, Message: "Feedback marked read"},
		Timestamp: time.Now(),
	})
}

// MarkAllRead marks every unread feedback record of the teacher as seen
// @Summary Mark all feedback read
// @Description Marks all of the authenticated teacher's unread feedback as read
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Feedback marked read"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback/read-all [post]
func (c *FeedbackController) MarkAllRead(ctx *gin.Context) {
	staffID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	count, err := c.feedbackService.MarkAllRead(ctx, staffID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Success: true, Message: strconv.FormatInt(count, 10) + " feedback records marked read"},
		Timestamp: time.Now(),
	})
}

// GetSummary retrieves the teacher's feedback notification summary
// @Summary Get feedback summary
// @Description Retrieves per-status file counts, the unread count and the most recent feedback entries
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.FeedbackSummaryResponse} "Summary retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback/summary [get]
func (c *FeedbackController) GetSummary(ctx *gin.Context) {
	staffID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	summary, err := c.feedbackService.GetSummary(ctx, staffID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      summary,
		Timestamp: time.Now(),
	})
}
