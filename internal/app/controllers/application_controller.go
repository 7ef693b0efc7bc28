package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/app/services"
	"github.com/burakc/scholarhub/internal/middleware"
)

// ApplicationController handles scholarship application operations
type ApplicationController struct {
	applicationService services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{applicationService: applicationService, logger: logger}
}

// Submit submits a complete application
// @Summary Submit an application
// @Description Runs the full eligibility check over the form and submits the application. The GPA is derived from the marks percentage at this point.
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.SubmitApplicationRequest true "Application form"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Eligibility check failed, per-field messages in details"
// @Failure 409 {object} dto.ErrorResponse "Already applied, deadline passed or scholarship closed"
// @Security BearerAuth
// @Router /applications [post]
func (c *ApplicationController) Submit(ctx *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	application, err := c.applicationService.Submit(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(application, "Application submitted"))
}

// ValidateStep checks one form step
// @Summary Validate a form step
// @Description Checks the required fields of a single application form step without persisting anything
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.ValidateStepRequest true "Step number and partial form"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Step is valid"
// @Failure 400 {object} dto.ErrorResponse "Per-field messages in details"
// @Security BearerAuth
// @Router /applications/validate-step [post]
func (c *ApplicationController) ValidateStep(ctx *gin.Context) {
	var req dto.ValidateStepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.applicationService.ValidateStep(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Step is valid"}, ""))
}

// GetMine lists the authenticated user's applications
// @Summary List my applications
// @Description Lists the authenticated student's applications with their progress
// @Tags applications
// @Produce json
// @Param status query string false "Filter by status" Enums(APPLIED, UNDER_REVIEW, ACCEPTED, REJECTED, WAITLISTED)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse} "Applications"
// @Security BearerAuth
// @Router /applications/me [get]
func (c *ApplicationController) GetMine(ctx *gin.Context) {
	var filter dto.ApplicationFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	list, err := c.applicationService.GetMine(ctx.Request.Context(), middleware.CurrentUserID(ctx), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(list, ""))
}

// GetAll lists all applications (admin)
// @Summary List applications
// @Description Lists applications across all students, optionally filtered by scholarship, user or status
// @Tags applications
// @Produce json
// @Param scholarshipId query int false "Filter by scholarship"
// @Param userId query int false "Filter by applicant"
// @Param status query string false "Filter by status" Enums(APPLIED, UNDER_REVIEW, ACCEPTED, REJECTED, WAITLISTED)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse} "Applications"
// @Failure 403 {object} dto.ErrorResponse "Administrator access required"
// @Security BearerAuth
// @Router /admin/applications [get]
func (c *ApplicationController) GetAll(ctx *gin.Context) {
	var filter dto.ApplicationFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	list, err := c.applicationService.GetAll(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(list, ""))
}

// GetByID retrieves one application
// @Summary Get an application
// @Description Retrieves an application. Students can only read their own; administrators can read any.
// @Tags applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application"
// @Failure 403 {object} dto.ErrorResponse "Not the applicant"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Security BearerAuth
// @Router /applications/{id} [get]
func (c *ApplicationController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	application, err := c.applicationService.GetByID(ctx.Request.Context(), id, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(application, ""))
}

// UpdateStatus changes the review status
// @Summary Update application status
// @Description Sets the application to any defined review status and notifies the applicant. No transition order is enforced.
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Updated application"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Security BearerAuth
// @Router /admin/applications/{id}/status [put]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	application, err := c.applicationService.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(application, "Application status updated"))
}

// Withdraw deletes the user's own application
// @Summary Withdraw an application
// @Description Withdraws the authenticated student's application. Only possible while it is still in APPLIED.
// @Tags applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Application withdrawn"
// @Failure 403 {object} dto.ErrorResponse "Not the applicant"
// @Failure 409 {object} dto.ErrorResponse "Application already under review"
// @Security BearerAuth
// @Router /applications/{id} [delete]
func (c *ApplicationController) Withdraw(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.applicationService.Withdraw(ctx.Request.Context(), id, middleware.CurrentUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Application withdrawn"}, ""))
}
