// Chat HTTP handlers.
//
// This file exposes REST endpoints for renter/owner direct messages:
//   - POST /chat/messages                       (send; creates the thread lazily)
//   - GET  /chat/conversations                  (caller's threads)
//   - GET  /chat/conversations/{id}/messages    (thread history, marks seen)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/services"
)

// SendMessageRequest is the JSON payload for sending a direct message.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required" example:"7b0d1c2e-9c3f-4a57-8d3a-5b1f0a9c1d2e"`
	Body        string `json:"body"         binding:"required,min=1,max=4000" example:"Is the drill still available this weekend?"`
}

// SendChatMessage godoc
// @ID          sendChatMessage
// @Summary     Send a direct message
// @Description Delivers a message to another user, creating the conversation on first contact.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body handlers.SendMessageRequest true "Message payload"
// @Success     201 {object} domain.ChatMessage
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404 {object} handlers.ErrorResponse "Recipient not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /chat/messages [post]
func (h *Handlers) SendChatMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipient_id and body are required")
		return
	}
	m, err := h.chatSvc.Send(c.Request.Context(), userID(c), req.RecipientID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message body is empty")
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipient not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List the caller's conversations
// @Tags        Chat
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} domain.Conversation
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /chat/conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	items, err := h.chatSvc.ListConversations(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListChatMessages godoc
// @ID          listChatMessages
// @Summary     List a conversation's messages
// @Description Returns the thread oldest first and marks the counterparty's messages as seen.
// @Tags        Chat
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Conversation ID"
// @Success     200 {array} domain.ChatMessage
// @Failure     403 {object} handlers.ErrorResponse "Not a participant"
// @Failure     404 {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /chat/conversations/{id}/messages [get]
func (h *Handlers) ListChatMessages(c *gin.Context) {
	items, err := h.chatSvc.ListMessages(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConversationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
		case errors.Is(err, services.ErrForbidden):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "not a participant of this conversation")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, items)
}
