// Package services holds the business logic between the HTTP controllers and
// the repositories. Each service consumes narrow store interfaces so tests
// can substitute in-memory fakes.
package services

import (
	"context"
	"time"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
)

// UserStore is the user persistence surface consumed by services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetAll(ctx context.Context, filter *dto.UserFilterRequest, offset uint64, limit int) ([]*models.User, int64, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	AdminUpdate(ctx context.Context, id int64, firstName, lastName, email string, role models.RoleType) error
	SetApproved(ctx context.Context, id int64, approved bool) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	UpdateProfilePhotoURL(ctx context.Context, id int64, url *string) error
	UpdateLastLogin(ctx context.Context, id int64) error
	GetStudentIDsWithNewScholarshipAlerts(ctx context.Context) ([]int64, error)
	GetAllActiveUserIDs(ctx context.Context) ([]int64, error)
}

// TokenStore is the refresh token persistence surface
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenUserID(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
}

// ScholarshipStore is the scholarship persistence surface
type ScholarshipStore interface {
	Create(ctx context.Context, s *models.Scholarship) error
	GetByID(ctx context.Context, id int64) (*models.Scholarship, error)
	GetAll(ctx context.Context, filter *dto.ScholarshipFilterRequest, offset uint64, limit int) ([]*models.Scholarship, int64, error)
	Update(ctx context.Context, s *models.Scholarship) error
	SetStatus(ctx context.Context, id int64, status models.ScholarshipStatus) error
	SetApprovalStatus(ctx context.Context, id int64, status models.ApprovalStatus) error
	IncrementViews(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// SavedStore is the bookmark persistence surface
type SavedStore interface {
	Toggle(ctx context.Context, userID, scholarshipID int64) (bool, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.SavedScholarship, error)
	GetSaverIDs(ctx context.Context, scholarshipID int64) ([]int64, error)
}

// ApplicationStore is the application persistence surface
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	Exists(ctx context.Context, scholarshipID, userID int64) (bool, error)
	GetAll(ctx context.Context, filter *dto.ApplicationFilterRequest, offset uint64, limit int) ([]*models.Application, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	Delete(ctx context.Context, id int64) error
}

// NotificationStore is the notification persistence surface
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateBatch(ctx context.Context, userIDs []int64, nType models.NotificationType, title, message string) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	GetByUser(ctx context.Context, userID int64, unreadOnly bool, offset uint64, limit int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id int64) error
}

// Pusher delivers a payload to a connected user's live feed. Delivery is
// best effort; a user with no open connection simply misses the push and
// reads the notification from the list instead.
type Pusher interface {
	Push(userID int64, payload interface{})
}
