package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
	"github.com/burakc/scholarhub/internal/pkg/helpers"
)

// NotificationService defines the interface for notification operations
type NotificationService interface {
	Emit(ctx context.Context, userID int64, nType models.NotificationType, title, message string) error
	EmitBatch(ctx context.Context, userIDs []int64, nType models.NotificationType, title, message string) error
	List(ctx context.Context, userID int64, filter *dto.NotificationFilterRequest) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, userID, notificationID int64) error
	Announce(ctx context.Context, req *dto.AnnouncementRequest) (int, error)
}

type notificationServiceImpl struct {
	notificationRepo NotificationStore
	userRepo         UserStore
	pusher           Pusher
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService. pusher may be
// nil when no live feed is configured.
func NewNotificationService(notificationRepo NotificationStore, userRepo UserStore, pusher Pusher, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		logger:           logger,
	}
}

// Emit persists a notification for one user and pushes it to their live feed
func (s *notificationServiceImpl) Emit(ctx context.Context, userID int64, nType models.NotificationType, title, message string) error {
	n := &models.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Message: message,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("error emitting notification: %w", err)
	}
	if s.pusher != nil {
		s.pusher.Push(userID, dto.NewNotificationResponse(n))
	}
	return nil
}

// EmitBatch persists one notification per recipient
func (s *notificationServiceImpl) EmitBatch(ctx context.Context, userIDs []int64, nType models.NotificationType, title, message string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if err := s.notificationRepo.CreateBatch(ctx, userIDs, nType, title, message); err != nil {
		return fmt.Errorf("error emitting notifications: %w", err)
	}
	if s.pusher != nil {
		payload := &dto.NotificationResponse{Type: string(nType), Title: title, Message: message}
		for _, id := range userIDs {
			s.pusher.Push(id, payload)
		}
	}
	return nil
}

// List returns a page of the user's notifications with the unread counter
func (s *notificationServiceImpl) List(ctx context.Context, userID int64, filter *dto.NotificationFilterRequest) (*dto.NotificationListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	notifications, total, err := s.notificationRepo.GetByUser(ctx, userID, filter.UnreadOnly, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread notifications: %w", err)
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, *dto.NewNotificationResponse(n))
	}
	return &dto.NotificationListResponse{
		Notifications:  responses,
		UnreadCount:    unread,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// UnreadCount returns the user's unread notification count
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications read. Only the recipient
// may mutate a notification.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID int64) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperrors.ErrPermissionDenied
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks all of the user's notifications read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications
func (s *notificationServiceImpl) Delete(ctx context.Context, userID, notificationID int64) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperrors.ErrPermissionDenied
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}

// Announce sends a system announcement to every non-blocked user and returns
// the recipient count.
func (s *notificationServiceImpl) Announce(ctx context.Context, req *dto.AnnouncementRequest) (int, error) {
	ids, err := s.userRepo.GetAllActiveUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("error resolving announcement recipients: %w", err)
	}
	if err := s.EmitBatch(ctx, ids, models.NotificationSystemAnnouncement, req.Title, req.Message); err != nil {
		return 0, err
	}
	s.logger.Info().Int("recipients", len(ids)).Str("title", req.Title).Msg("System announcement sent")
	return len(ids), nil
}
