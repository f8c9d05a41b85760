package domain

import "time"

// Notification is a fire-and-forget message tied to a rental request and a
// target user. Seen defaults to false and is flipped by the recipient.
// Notifications are bulk-deleted when their owning request is deleted.
type Notification struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	RequestID string    `json:"request_id" gorm:"type:char(36);not null;index:idx_notifications_request"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index:idx_notifications_user"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	Seen      bool      `json:"seen"       gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }
