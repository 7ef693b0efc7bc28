package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/helpers"
)

// UserService defines the interface for user operations
type UserService interface {
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	GetAll(ctx context.Context, filter *dto.UserFilterRequest) (*dto.UserListResponse, error)
	UpdateProfile(ctx context.Context, id int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	AdminUpdate(ctx context.Context, id int64, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	UpdateProfilePhoto(ctx context.Context, id int64, url *string) error
}

type userServiceImpl struct {
	userRepo      UserStore
	notifications NotificationService
	logger        zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, notifications NotificationService, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// GetByID retrieves a user by ID
func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// GetAll retrieves users with filtering and pagination
func (s *userServiceImpl) GetAll(ctx context.Context, filter *dto.UserFilterRequest) (*dto.UserListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	users, total, err := s.userRepo.GetAll(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *dto.NewUserResponse(u))
	}
	return &dto.UserListResponse{
		Users:          responses,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// UpdateProfile applies a self-service profile update and recomputes the
// profileComplete flag from the resulting field values.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, id int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Nationality = req.Nationality
	user.FieldOfStudy = req.FieldOfStudy
	user.DegreeLevel = req.DegreeLevel
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	user.ProfileComplete = user.ComputeProfileComplete()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// AdminUpdate applies an administrator edit to a user record
func (s *userServiceImpl) AdminUpdate(ctx context.Context, id int64, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	if err := s.userRepo.AdminUpdate(ctx, id, req.FirstName, req.LastName, req.Email, models.RoleType(req.Role)); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// SetApproved grants or revokes an admin account's approval and tells the
// account holder about the change.
func (s *userServiceImpl) SetApproved(ctx context.Context, id int64, approved bool) error {
	if err := s.userRepo.SetApproved(ctx, id, approved); err != nil {
		return err
	}

	title := "Account approved"
	message := "Your administrator account has been approved. You can now manage scholarships."
	if !approved {
		title = "Account approval revoked"
		message = "Your administrator approval has been revoked. Contact support if you believe this is a mistake."
	}
	if err := s.notifications.Emit(ctx, id, models.NotificationSystemAnnouncement, title, message); err != nil {
		s.logger.Error().Err(err).Int64("userID", id).Msg("Failed to emit approval notification")
	}
	return nil
}

// SetBlocked blocks or unblocks an account
func (s *userServiceImpl) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	if err := s.userRepo.SetBlocked(ctx, id, blocked); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Bool("blocked", blocked).Msg("User block state changed")
	return nil
}

// UpdateProfilePhoto stores or clears the user's profile photo URL
func (s *userServiceImpl) UpdateProfilePhoto(ctx context.Context, id int64, url *string) error {
	return s.userRepo.UpdateProfilePhotoURL(ctx, id, url)
}
