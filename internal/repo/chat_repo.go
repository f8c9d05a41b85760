package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
)

// CreateConversation inserts a conversation row.
func CreateConversation(ctx context.Context, db *gorm.DB, c *domain.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return db.WithContext(ctx).Create(c).Error
}

// GetConversation fetches a conversation by id.
func GetConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindConversationByParties returns the conversation between two users
// regardless of which side initiated it.
func FindConversationByParties(ctx context.Context, db *gorm.DB, a, b string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Where("(renter_id = ? AND owner_id = ?) OR (renter_id = ? AND owner_id = ?)", a, b, b, a).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListConversationsForUser returns the conversations a user participates in,
// most recently active first.
func ListConversationsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("renter_id = ? OR owner_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&out).Error
	return out, err
}

// TouchConversation records the latest message preview and bumps activity.
func TouchConversation(ctx context.Context, db *gorm.DB, id, lastMessage string) error {
	res := db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_message": lastMessage, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateChatMessage inserts a message row.
func CreateChatMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(m).Error
}

// ListChatMessages returns the messages of a conversation, oldest first.
func ListChatMessages(ctx context.Context, db *gorm.DB, conversationID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// MarkChatMessagesSeen flags every message in a conversation that was not sent
// by the reader as seen.
func MarkChatMessagesSeen(ctx context.Context, db *gorm.DB, conversationID, readerID string) error {
	return db.WithContext(ctx).Model(&domain.ChatMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND seen = ?", conversationID, readerID, false).
		Update("seen", true).Error
}
