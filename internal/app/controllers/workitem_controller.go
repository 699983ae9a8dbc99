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

// WorkItemController handles work item catalog and folder provisioning operations
type WorkItemController struct {
	workItemService *services.WorkItemService
}

// NewWorkItemController creates a new WorkItemController
func NewWorkItemController(workItemService *services.WorkItemService) *WorkItemController {
	return &WorkItemController{
		workItemService: workItemService,
	}
}

// GetWorkItems retrieves the work item catalog
// @Summary List work items
// @Description Retrieves every deliverable category teachers submit files against
// @Tags work-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.WorkItemResponse} "Work items retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-items [get]
func (c *WorkItemController) GetWorkItems(ctx *gin.Context) {
	items, err := c.workItemService.GetWorkItems(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      items,
		Timestamp: time.Now(),
	})
}

// CreateWorkItem handles headmaster work item creation
// @Summary Create a work item
// @Description Creates a deliverable category; headmaster-created items are mandatory for every teacher when marked required
// @Tags work-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateWorkItemRequest true "Work item information"
// @Success 201 {object} dto.APIResponse{data=dto.WorkItemResponse} "Work item created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 409 {object} dto.ErrorResponse "Work item name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-items [post]
func (c *WorkItemController) CreateWorkItem(ctx *gin.Context) {
	var req dto.CreateWorkItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work item data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	item, err := c.workItemService.CreateWorkItem(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      item,
		Timestamp: time.Now(),
	})
}

// CreateTeacherWorkItem handles a teacher adding a personal work item
// @Summary Create a personal work item
// @Description Adds a teacher's own deliverable category; personal items are always optional
// @Tags work-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeacherWorkItemRequest true "Work item information"
// @Success 201 {object} dto.APIResponse{data=dto.WorkItemResponse} "Work item created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Work item name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-items/personal [post]
func (c *WorkItemController) CreateTeacherWorkItem(ctx *gin.Context) {
	var req dto.CreateTeacherWorkItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work item data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	item, err := c.workItemService.CreateTeacherWorkItem(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      item,
		Timestamp: time.Now(),
	})
}

// RenameWorkItem renames a work item
// @Summary Rename a work item
// @Description Renames a work item; renaming is the only permitted mutation
// @Tags work-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work item ID"
// @Param request body dto.UpdateWorkItemRequest true "New work item name"
// @Success 200 {object} dto.APIResponse{data=dto.WorkItemResponse} "Work item renamed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Work item not found"
// @Failure 409 {object} dto.ErrorResponse "Work item name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-items/{id} [put]
func (c *WorkItemController) RenameWorkItem(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work item ID")
		errorDetail = errorDetail.WithDetails("Work item ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateWorkItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work item data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	item, err := c.workItemService.RenameWorkItem(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      item,
		Timestamp: time.Now(),
	})
}

// DeleteWorkItem deletes a work item
// @Summary Delete a work item
// @Description Deletes a work item unless any teacher has submitted files against it
// @Tags work-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Work item ID"
// @Success 204 "Work item deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid work item ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Work item not found"
// @Failure 409 {object} dto.ErrorResponse "Work item has submitted files"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-items/{id} [delete]
func (c *WorkItemController) DeleteWorkItem(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work item ID")
		errorDetail = errorDetail.WithDetails("Work item ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.workItemService.DeleteWorkItem(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Timestamp: time.Now(),
	})
}

// InitFolders provisions the external folder tree for a teacher and subject
// @Summary Initialize work folders
// @Description Provisions the subject/teacher/category folder tree in the external store; safe to repeat
// @Tags work-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InitFoldersRequest true "Teacher and subject to provision"
// @Success 200 {object} dto.APIResponse{data=dto.InitFoldersResponse} "Folders initialized successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Teachers may only initialize their own folders"
// @Failure 404 {object} dto.ErrorResponse "Teacher or subject not found"
// @Failure 502 {object} dto.ErrorResponse "Storage provider error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-items/init-folders [post]
func (c *WorkItemController) InitFolders(ctx *gin.Context) {
	var req dto.InitFoldersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid folder initialization data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// Teachers may only provision their own folders; headmasters may
	// provision for anyone.
	staffID, _ := middleware.CurrentStaffID(ctx)
	if role, _ := ctx.Get(middleware.ContextRole); role == string(models.RoleTeacher) && req.TeacherID != staffID {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("Teachers may only initialize their own folders")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.workItemService.InitializeTeacherFolders(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// LookupWork resolves the binding uploads are issued against
// @Summary Look up a work binding
// @Description Resolves the teacher-subject-work binding for the authenticated teacher; a missing binding means folders were never initialized
// @Tags work-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject_id query int true "Subject ID"
// @Param work_item_id query int true "Work item ID"
// @Success 200 {object} dto.APIResponse{data=dto.LookupWorkResponse} "Binding retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Binding not found, folders not initialized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /work-items/lookup [get]
func (c *WorkItemController) LookupWork(ctx *gin.Context) {
	subjectID, err := strconv.ParseInt(ctx.Query("subject_id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid subject ID")
		errorDetail = errorDetail.WithDetails("subject_id must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	workItemID, err := strconv.ParseInt(ctx.Query("work_item_id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid work item ID")
		errorDetail = errorDetail.WithDetails("work_item_id must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	staffID, ok := middleware.CurrentStaffID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.workItemService.LookupWork(ctx, staffID, subjectID, workItemID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}
