package dto

import (
	"time"

	"github.com/burakc/scholarhub/internal/app/models"
)

// NotificationResponse represents a notification returned by the API
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type" enums:"NEW_SCHOLARSHIP,DEADLINE_REMINDER,APPLICATION_UPDATE,SYSTEM_ANNOUNCEMENT"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewNotificationResponse maps a notification model to its API representation
func NewNotificationResponse(n *models.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationFilterRequest represents notification listing parameters
type NotificationFilterRequest struct {
	UnreadOnly bool `form:"unreadOnly"`
	Page       int  `form:"page,default=1" binding:"min=1"`
	PageSize   int  `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	PaginationInfo
}

// UnreadCountResponse carries the unread notification counter
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

// AnnouncementRequest represents a system-wide announcement
type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required,min=3,max=200"`
	Message string `json:"message" binding:"required"`
}
