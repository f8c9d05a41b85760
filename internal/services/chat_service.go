// Package services – ChatService
//
// This file implements the ChatService, which manages direct message threads
// between renters and owners. A conversation is created lazily on the first
// message between two users and reused afterwards regardless of who writes.
// Reading a thread marks the counterparty's messages as seen.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/repo"
)

// ChatService implements conversation and message use-cases.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxBodyRunes caps message bodies by rune length. Zero means no cap.
	MaxBodyRunes int
}

// Send delivers a message from senderID to recipientID, creating the
// conversation if the two users have never talked.
//
// Semantics and validation:
//   - The body must be non-blank; otherwise ErrEmptyMessage.
//   - The recipient must exist; otherwise ErrUserNotFound.
//   - Bodies longer than MaxBodyRunes are clipped, not rejected.
//
// The message insert and the conversation's last-message preview are
// committed in one transaction.
func (s *ChatService) Send(ctx context.Context, senderID, recipientID, body string) (*domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		body = string([]rune(body)[:s.MaxBodyRunes])
	}
	if _, err := repo.GetUser(ctx, s.DB, recipientID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var msg *domain.ChatMessage
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := repo.FindConversationByParties(ctx, tx, senderID, recipientID)
		if errors.Is(err, repo.ErrNotFound) {
			conv = &domain.Conversation{RenterID: senderID, OwnerID: recipientID}
			if err := repo.CreateConversation(ctx, tx, conv); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		m := &domain.ChatMessage{
			ConversationID: conv.ID,
			SenderID:       senderID,
			Body:           body,
		}
		if err := repo.CreateChatMessage(ctx, tx, m); err != nil {
			return err
		}
		if err := repo.TouchConversation(ctx, tx, conv.ID, body); err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListConversations returns the caller's threads, most recently active first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return repo.ListConversationsForUser(ctx, s.DB, userID)
}

// ListMessages returns a thread's messages, oldest first, to one of its
// participants, marking the counterparty's messages as seen.
func (s *ChatService) ListMessages(ctx context.Context, actorID, conversationID string) ([]domain.ChatMessage, error) {
	conv, err := repo.GetConversation(ctx, s.DB, conversationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.Participant(actorID) {
		return nil, ErrForbidden
	}
	if err := repo.MarkChatMessagesSeen(ctx, s.DB, conversationID, actorID); err != nil {
		return nil, err
	}
	return repo.ListChatMessages(ctx, s.DB, conversationID)
}
