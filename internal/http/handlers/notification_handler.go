// Notification HTTP handlers.
//
// This file exposes REST endpoints for the notification feed:
//   - GET /notifications               (caller's feed)
//   - GET /notifications/unseen-count  (badge counter)
//   - PUT /notifications/{id}/seen     (flag one)
//   - PUT /notifications/seen          (flag all)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/services"
)

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List the caller's notifications
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} domain.Notification
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	items, err := h.notifSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// UnseenNotificationCount godoc
// @ID          unseenNotificationCount
// @Summary     Count unseen notifications
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /notifications/unseen-count [get]
func (h *Handlers) UnseenNotificationCount(c *gin.Context) {
	n, err := h.notifSvc.UnseenCount(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"unseen": n})
}

// MarkNotificationSeen godoc
// @ID          markNotificationSeen
// @Summary     Mark a notification seen
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     204 {string} string "No Content"
// @Failure     403 {object} handlers.ErrorResponse "Not the recipient"
// @Failure     404 {object} handlers.ErrorResponse "Notification not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /notifications/{id}/seen [put]
func (h *Handlers) MarkNotificationSeen(c *gin.Context) {
	if err := h.notifSvc.MarkSeen(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "notification not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only the recipient may flag a notification")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

// MarkAllNotificationsSeen godoc
// @ID          markAllNotificationsSeen
// @Summary     Mark all notifications seen
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Success     204 {string} string "No Content"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /notifications/seen [put]
func (h *Handlers) MarkAllNotificationsSeen(c *gin.Context) {
	if err := h.notifSvc.MarkAllSeen(c.Request.Context(), userID(c)); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
