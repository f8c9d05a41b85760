package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
)

// CreateNotification inserts a notification row.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(n).Error
}

// GetNotification fetches a notification by id.
func GetNotification(ctx context.Context, db *gorm.DB, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// ListNotificationsForUser returns a user's notifications, newest first.
func ListNotificationsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// CountUnseenNotifications counts a user's unseen notifications.
func CountUnseenNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkNotificationSeen flags a single notification as seen.
func MarkNotificationSeen(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("seen", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsSeen flags every notification of a user as seen.
func MarkAllNotificationsSeen(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Update("seen", true).Error
}

// DeleteNotificationsByRequest removes the notifications spawned by a rental
// request. Used when the request itself is withdrawn.
func DeleteNotificationsByRequest(ctx context.Context, db *gorm.DB, requestID string) error {
	return db.WithContext(ctx).
		Delete(&domain.Notification{}, "request_id = ?", requestID).Error
}
