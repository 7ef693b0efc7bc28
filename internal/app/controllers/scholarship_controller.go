package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/app/services"
	"github.com/burakc/scholarhub/internal/middleware"
)

// ScholarshipController handles scholarship catalogue and bookmark operations
type ScholarshipController struct {
	scholarshipService services.ScholarshipService
	logger             zerolog.Logger
}

// NewScholarshipController creates a new ScholarshipController
func NewScholarshipController(scholarshipService services.ScholarshipService, logger zerolog.Logger) *ScholarshipController {
	return &ScholarshipController{scholarshipService: scholarshipService, logger: logger}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// GetAll lists scholarships
// @Summary List scholarships
// @Description Lists scholarships with optional search, category, degree level, deadline and status filters
// @Tags scholarships
// @Produce json
// @Param search query string false "Search in title and description"
// @Param category query string false "Filter by category"
// @Param degreeLevel query string false "Filter by degree level" Enums(BACHELOR, MASTER, PHD, CERTIFICATE, DIPLOMA)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipListResponse} "Scholarships"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Router /scholarships [get]
func (c *ScholarshipController) GetAll(ctx *gin.Context) {
	var filter dto.ScholarshipFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	list, err := c.scholarshipService.GetAll(ctx.Request.Context(), &filter)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list scholarships")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(list, ""))
}

// GetByID retrieves one scholarship and counts the view
// @Summary Get a scholarship
// @Description Retrieves a scholarship by ID and increments its view counter
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipResponse} "Scholarship"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id} [get]
func (c *ScholarshipController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scholarship, err := c.scholarshipService.GetByID(ctx.Request.Context(), id, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(scholarship, ""))
}

// GetAllAdmin lists scholarships with the full filter surface
// @Summary List scholarships (admin)
// @Description Lists scholarships in any lifecycle or moderation state with optional filters
// @Tags scholarships
// @Produce json
// @Param search query string false "Search in title and description"
// @Param category query string false "Filter by category"
// @Param degreeLevel query string false "Filter by degree level" Enums(BACHELOR, MASTER, PHD, CERTIFICATE, DIPLOMA)
// @Param status query string false "Filter by lifecycle status" Enums(DRAFT, ACTIVE, PAUSED)
// @Param approvalStatus query string false "Filter by moderation state" Enums(PENDING, APPROVED, REJECTED)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipListResponse} "Scholarships"
// @Failure 403 {object} dto.ErrorResponse "Administrator access required"
// @Security BearerAuth
// @Router /admin/scholarships [get]
func (c *ScholarshipController) GetAllAdmin(ctx *gin.Context) {
	var filter dto.ScholarshipFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	list, err := c.scholarshipService.GetAllAdmin(ctx.Request.Context(), &filter)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list scholarships")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(list, ""))
}

// GetByIDAdmin retrieves one scholarship regardless of moderation state
// @Summary Get a scholarship (admin)
// @Description Retrieves a scholarship by ID in any lifecycle or moderation state
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipResponse} "Scholarship"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /admin/scholarships/{id} [get]
func (c *ScholarshipController) GetByIDAdmin(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scholarship, err := c.scholarshipService.GetByIDAdmin(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(scholarship, ""))
}

// Create creates a scholarship posting
// @Summary Create a scholarship
// @Description Creates a scholarship posting. New postings start as DRAFT and await moderation unless created by a super admin.
// @Tags scholarships
// @Accept json
// @Produce json
// @Param request body dto.CreateScholarshipRequest true "Scholarship data"
// @Success 201 {object} dto.APIResponse{data=dto.ScholarshipResponse} "Scholarship created"
// @Failure 400 {object} dto.ErrorResponse "Invalid scholarship data"
// @Failure 403 {object} dto.ErrorResponse "Administrator access required"
// @Security BearerAuth
// @Router /admin/scholarships [post]
func (c *ScholarshipController) Create(ctx *gin.Context) {
	var req dto.CreateScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	creator := middleware.CurrentUser(ctx)
	scholarship, err := c.scholarshipService.Create(ctx.Request.Context(), &req, creator)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(scholarship, "Scholarship created"))
}

// Update edits a scholarship posting
// @Summary Update a scholarship
// @Description Replaces the editable fields of a scholarship
// @Tags scholarships
// @Accept json
// @Produce json
// @Param id path int true "Scholarship ID"
// @Param request body dto.UpdateScholarshipRequest true "Updated scholarship data"
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipResponse} "Scholarship updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid scholarship data"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /admin/scholarships/{id} [put]
func (c *ScholarshipController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	scholarship, err := c.scholarshipService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(scholarship, "Scholarship updated"))
}

// Delete removes a scholarship
// @Summary Delete a scholarship
// @Description Deletes a scholarship; its applications and bookmarks are removed with it
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Scholarship deleted"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /admin/scholarships/{id} [delete]
func (c *ScholarshipController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.scholarshipService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Scholarship deleted"}, ""))
}

// Publish sets a scholarship ACTIVE
// @Summary Publish a scholarship
// @Description Opens the scholarship for student applications
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Scholarship published"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /admin/scholarships/{id}/publish [post]
func (c *ScholarshipController) Publish(ctx *gin.Context) {
	c.setLifecycle(ctx, c.scholarshipService.Publish, "Scholarship published")
}

// Pause sets a scholarship PAUSED
// @Summary Pause a scholarship
// @Description Temporarily closes the scholarship to new applications
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Scholarship paused"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /admin/scholarships/{id}/pause [post]
func (c *ScholarshipController) Pause(ctx *gin.Context) {
	c.setLifecycle(ctx, c.scholarshipService.Pause, "Scholarship paused")
}

// Approve marks a scholarship approved
// @Summary Approve a scholarship
// @Description Passes the posting through moderation; requires super admin
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Scholarship approved"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /admin/scholarships/{id}/approve [post]
func (c *ScholarshipController) Approve(ctx *gin.Context) {
	c.setLifecycle(ctx, c.scholarshipService.Approve, "Scholarship approved")
}

// Reject marks a scholarship rejected
// @Summary Reject a scholarship
// @Description Fails the posting in moderation; requires super admin
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Scholarship rejected"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /admin/scholarships/{id}/reject [post]
func (c *ScholarshipController) Reject(ctx *gin.Context) {
	c.setLifecycle(ctx, c.scholarshipService.Reject, "Scholarship rejected")
}

func (c *ScholarshipController) setLifecycle(ctx *gin.Context, op func(ctxReq context.Context, id int64) error, message string) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := op(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: message}, ""))
}

// ToggleSave flips the bookmark state
// @Summary Save or unsave a scholarship
// @Description Toggles the bookmark for the authenticated student; saving twice removes it
// @Tags scholarships
// @Accept json
// @Produce json
// @Param request body dto.SaveScholarshipRequest true "Scholarship to toggle"
// @Success 200 {object} dto.APIResponse{data=dto.SaveScholarshipResponse} "Resulting bookmark state"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Security BearerAuth
// @Router /scholarships/save [post]
func (c *ScholarshipController) ToggleSave(ctx *gin.Context) {
	var req dto.SaveScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.scholarshipService.ToggleSave(ctx.Request.Context(), middleware.CurrentUserID(ctx), req.ScholarshipID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, ""))
}

// GetSaved lists the authenticated user's bookmarks
// @Summary List saved scholarships
// @Description Lists the authenticated student's bookmarked scholarships
// @Tags scholarships
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.SavedScholarshipResponse} "Saved scholarships"
// @Security BearerAuth
// @Router /scholarships/saved [get]
func (c *ScholarshipController) GetSaved(ctx *gin.Context) {
	saved, err := c.scholarshipService.GetSaved(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(saved, ""))
}
