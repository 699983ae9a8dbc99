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

// WorkFileController handles work file upload, listing and tracking operations
type WorkFileController struct {
	uploadService *services.UploadService
}

// NewWorkFileController creates a new WorkFileController
func NewWorkFileController(uploadService *services.UploadService) *WorkFileController {
	return &WorkFileController{
		uploadService: uploadService,
	}
}

// UploadFiles handles a multi-file submission batch
// @Summary Upload work files
// @Description Uploads up to the configured number of files against one work binding. Invalid files are rejected without failing the batch; valid files transfer concurrently and partial success is reported per file.
// @Tags work-files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher work binding ID"
// @Param files formData file true "Files to upload"
// @Success 200 {object} dto.APIResponse{data=dto.UploadBatchResponse} "Batch outcome"
// @Failure 400 {object} dto.ErrorResponse "No files provided"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Binding belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Binding not found, folders not initialized"
// @Failure 409 {object} dto.ErrorResponse "Folders not initialized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher-works/{id}/files [post]
func (c *WorkFileController) UploadFiles(ctx *gin.Context) {
	workID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work binding ID")
		errorDetail = errorDetail.WithDetails("Binding ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	staffID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid multipart form")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.uploadService.UploadBatch(ctx, staffID, workID, form.File["files"])
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListFiles retrieves the files under one work binding
// @Summary List work files
// @Description Retrieves the authenticated teacher's files for one binding, feedback history included
// @Tags work-files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher work binding ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.WorkFileResponse} "Files retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid binding ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Binding belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Binding not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher-works/{id}/files [get]
func (c *WorkFileController) ListFiles(ctx *gin.Context) {
	workID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work binding ID")
		errorDetail = errorDetail.WithDetails("Binding ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	staffID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	files, err := c.uploadService.ListFiles(ctx, staffID, workID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      files,
		Timestamp: time.Now(),
	})
}

// DeleteFile deletes a work file
// @Summary Delete a work file
// @Description Deletes a file the authenticated teacher owns (the headmaster may delete any); the stored copy is removed best-effort
// @Tags work-files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work file ID"
// @Success 204 "File deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid file ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - File belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-files/{id} [delete]
func (c *WorkFileController) DeleteFile(ctx *gin.Context) {
	fileID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid file ID")
		errorDetail = errorDetail.WithDetails("File ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	staffID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	role, _ := ctx.Get(middleware.ContextRole)
	isHeadmaster := role == string(models.RoleHeadmaster)

	if err := c.uploadService.DeleteFile(ctx, staffID, fileID, isHeadmaster); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Timestamp: time.Now(),
	})
}

// TrackAccess records a view or download of a work file
// @Summary Track file access
// @Description Records one view or download against a file's engagement counters
// @Tags work-files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work file ID"
// @Param request body dto.TrackAccessRequest true "Access action"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Access recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-files/{id}/track [post]
func (c *WorkFileController) TrackAccess(ctx *gin.Context) {
	fileID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid file ID")
		errorDetail = errorDetail.WithDetails("File ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.TrackAccessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid tracking data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.uploadService.TrackAccess(ctx, fileID, req.Action); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Success: true, Message: "Access recorded"},
		Timestamp: time.Now(),
	})
}
