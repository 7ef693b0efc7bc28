package models

import "time"

// Notification defines the notification model based on the 'notifications' table
type Notification struct {
	ID        int64            `db:"id"`
	UserID    int64            `db:"user_id"`
	Type      NotificationType `db:"type"`
	Title     string           `db:"title"`
	Message   string           `db:"message"`
	Read      bool             `db:"read"`
	CreatedAt time.Time        `db:"created_at"`
}
