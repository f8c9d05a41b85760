package domain

import "time"

// Conversation is a two-party message thread. The pair of participant ids is
// stable for the lifetime of the thread; LastMessage caches the most recent
// body for listing without a join.
type Conversation struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	RenterID    string    `json:"renter_id"    gorm:"type:char(36);not null;index:idx_conversations_renter"`
	OwnerID     string    `json:"owner_id"     gorm:"type:char(36);not null;index:idx_conversations_owner"`
	LastMessage string    `json:"last_message" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Other returns the participant id that is not the given one.
func (c *Conversation) Other(id string) string {
	if c.RenterID == id {
		return c.OwnerID
	}
	return c.RenterID
}

// Participant reports whether id takes part in the conversation.
func (c *Conversation) Participant(id string) bool {
	return c.RenterID == id || c.OwnerID == id
}

// ChatMessage is a single utterance within a conversation. Seen is set when
// the counterparty loads the thread.
type ChatMessage struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"type:char(36);not null;index:idx_messages_conversation"`
	SenderID       string    `json:"sender_id"       gorm:"type:char(36);not null"`
	Body           string    `json:"body"            gorm:"type:text;not null"`
	Seen           bool      `json:"seen"            gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }
