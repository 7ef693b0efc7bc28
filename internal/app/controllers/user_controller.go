package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/app/services"
	"github.com/burakc/scholarhub/internal/middleware"
	"github.com/burakc/scholarhub/internal/pkg/filestorage"
)

// UserController handles profile and user administration operations
type UserController struct {
	userService services.UserService
	fileStorage filestorage.Storage
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, fileStorage filestorage.Storage, logger zerolog.Logger) *UserController {
	return &UserController{userService: userService, fileStorage: fileStorage, logger: logger}
}

// GetProfile returns the authenticated user's profile
// @Summary Get my profile
// @Description Returns the authenticated user's profile including preferences and completeness
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile"
// @Security BearerAuth
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user, err := c.userService.GetByID(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, ""))
}

// UpdateProfile updates the authenticated user's profile
// @Summary Update my profile
// @Description Updates profile fields and notification preferences; the profileComplete flag is recomputed
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid profile data"
// @Security BearerAuth
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, "Profile updated"))
}

// UploadProfilePhoto stores a new profile photo
// @Summary Upload profile photo
// @Description Stores the uploaded image and records its URL on the profile
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Security BearerAuth
// @Router /users/me/photo [post]
func (c *UserController) UploadProfilePhoto(ctx *gin.Context) {
	file, err := ctx.FormFile("photo")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Photo file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	userID := middleware.CurrentUserID(ctx)
	url, err := c.fileStorage.Save(ctx.Request.Context(), file, filestorage.CategoryProfilePhoto)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to store profile photo")
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.userService.UpdateProfilePhoto(ctx.Request.Context(), userID, &url); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, "Profile photo updated"))
}

// GetAll lists users (admin)
// @Summary List users
// @Description Lists users with optional role, approval, block and search filters
// @Tags users
// @Produce json
// @Param role query string false "Filter by role" Enums(STUDENT, ADMIN, SUPER_ADMIN)
// @Param approved query bool false "Filter by approval"
// @Param blocked query bool false "Filter by block state"
// @Param search query string false "Search in name and email"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users"
// @Failure 403 {object} dto.ErrorResponse "Administrator access required"
// @Security BearerAuth
// @Router /admin/users [get]
func (c *UserController) GetAll(ctx *gin.Context) {
	var filter dto.UserFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	list, err := c.userService.GetAll(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(list, ""))
}

// GetByID retrieves one user (admin)
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (c *UserController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, ""))
}

// Update edits a user record (admin)
// @Summary Update a user
// @Description Edits name, email and role of a user record
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.AdminUpdateUserRequest true "Updated user data"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated user"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.AdminUpdate(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, "User updated"))
}

// Approve grants admin approval
// @Summary Approve an admin account
// @Description Grants approval to an administrator account; requires super admin
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User approved"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/approve [post]
func (c *UserController) Approve(ctx *gin.Context) {
	c.setFlag(ctx, func(id int64) error {
		return c.userService.SetApproved(ctx.Request.Context(), id, true)
	}, "User approved")
}

// Revoke removes admin approval
// @Summary Revoke an admin account's approval
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Approval revoked"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/revoke [post]
func (c *UserController) Revoke(ctx *gin.Context) {
	c.setFlag(ctx, func(id int64) error {
		return c.userService.SetApproved(ctx.Request.Context(), id, false)
	}, "Approval revoked")
}

// Block blocks an account
// @Summary Block a user
// @Description Blocks the account; a blocked user cannot log in or use an existing session
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User blocked"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/block [post]
func (c *UserController) Block(ctx *gin.Context) {
	c.setFlag(ctx, func(id int64) error {
		return c.userService.SetBlocked(ctx.Request.Context(), id, true)
	}, "User blocked")
}

// Unblock unblocks an account
// @Summary Unblock a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User unblocked"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/unblock [post]
func (c *UserController) Unblock(ctx *gin.Context) {
	c.setFlag(ctx, func(id int64) error {
		return c.userService.SetBlocked(ctx.Request.Context(), id, false)
	}, "User unblocked")
}

func (c *UserController) setFlag(ctx *gin.Context, op func(id int64) error, message string) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := op(id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: message}, ""))
}
