package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/renterra/go-rental-backend/internal/domain"
)

func TestChatService_Send_Validation(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "a", "A", domain.RoleRenter)

	s := &ChatService{DB: db}
	if _, err := s.Send(context.Background(), "a", "b", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := s.Send(context.Background(), "a", "ghost", "hi"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestChatService_Send_CreatesThenReusesConversation(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "a", "A", domain.RoleRenter)
	seedUser(t, db, "b", "B", domain.RoleOwner)

	s := &ChatService{DB: db}
	m1, err := s.Send(context.Background(), "a", "b", "hello")
	if err != nil {
		t.Fatalf("send 1: %v", err)
	}
	// The reply travels the same thread, regardless of direction.
	m2, err := s.Send(context.Background(), "b", "a", "hi back")
	if err != nil {
		t.Fatalf("send 2: %v", err)
	}
	if m1.ConversationID != m2.ConversationID {
		t.Fatalf("expected one conversation, got %q and %q", m1.ConversationID, m2.ConversationID)
	}

	var convs int64
	db.Model(&domain.Conversation{}).Count(&convs)
	if convs != 1 {
		t.Fatalf("expected 1 conversation, got %d", convs)
	}

	var conv domain.Conversation
	db.First(&conv, "id = ?", m1.ConversationID)
	if conv.LastMessage != "hi back" {
		t.Fatalf("last-message preview not updated: %q", conv.LastMessage)
	}
}

func TestChatService_Send_ClipsLongBodies(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "a", "A", domain.RoleRenter)
	seedUser(t, db, "b", "B", domain.RoleOwner)

	s := &ChatService{DB: db, MaxBodyRunes: 10}
	m, err := s.Send(context.Background(), "a", "b", strings.Repeat("x", 50))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if utf8.RuneCountInString(m.Body) != 10 {
		t.Fatalf("body not clipped: %d runes", utf8.RuneCountInString(m.Body))
	}
}

func TestChatService_ListConversations(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "a", "A", domain.RoleRenter)
	seedUser(t, db, "b", "B", domain.RoleOwner)
	seedUser(t, db, "c", "C", domain.RoleOwner)

	s := &ChatService{DB: db}
	if _, err := s.Send(context.Background(), "a", "b", "one"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := s.Send(context.Background(), "a", "c", "two"); err != nil {
		t.Fatalf("send: %v", err)
	}

	convs, err := s.ListConversations(context.Background(), "a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations for a, got %d", len(convs))
	}
	convs, err = s.ListConversations(context.Background(), "b")
	if err != nil {
		t.Fatalf("list b: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation for b, got %d", len(convs))
	}
}

func TestChatService_ListMessages_MarksSeen(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "a", "A", domain.RoleRenter)
	seedUser(t, db, "b", "B", domain.RoleOwner)

	s := &ChatService{DB: db}
	m, err := s.Send(context.Background(), "a", "b", "first")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := s.Send(context.Background(), "a", "b", "second"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := s.ListMessages(context.Background(), "stranger", m.ConversationID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.ListMessages(context.Background(), "a", "missing"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}

	msgs, err := s.ListMessages(context.Background(), "b", m.ConversationID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Body != "first" || msgs[1].Body != "second" {
		t.Fatalf("unexpected thread: %+v", msgs)
	}
	for _, got := range msgs {
		if !got.Seen {
			t.Fatalf("counterparty messages not marked seen: %+v", got)
		}
	}

	// The sender loading the thread does not mark their own messages.
	var unseenOwn int64
	db.Model(&domain.ChatMessage{}).Where("sender_id = ? AND seen = ?", "b", false).Count(&unseenOwn)
	if unseenOwn != 0 {
		t.Fatalf("unexpected rows: %d", unseenOwn)
	}
}
