// Package services – NotificationService
//
// This file implements the NotificationService, which serves each user's
// notification feed and lets them mark entries as seen. Notifications are
// created by RequestService as transition side effects; this service only
// reads and flags them.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/repo"
)

// NotificationService implements notification reads and seen-flagging.
type NotificationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return repo.ListNotificationsForUser(ctx, s.DB, userID)
}

// UnseenCount returns the number of a user's unseen notifications.
func (s *NotificationService) UnseenCount(ctx context.Context, userID string) (int64, error) {
	return repo.CountUnseenNotifications(ctx, s.DB, userID)
}

// MarkSeen flags one notification as seen. Only the recipient may flag it.
func (s *NotificationService) MarkSeen(ctx context.Context, actorID, id string) error {
	n, err := repo.GetNotification(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != actorID {
		return ErrForbidden
	}
	return repo.MarkNotificationSeen(ctx, s.DB, id)
}

// MarkAllSeen flags every unseen notification of the caller as seen.
func (s *NotificationService) MarkAllSeen(ctx context.Context, userID string) error {
	return repo.MarkAllNotificationsSeen(ctx, s.DB, userID)
}
