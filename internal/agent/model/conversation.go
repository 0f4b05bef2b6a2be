package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationRepository persists per-conversation message history.
type ConversationRepository interface {
	// AddMessage appends a message to the conversation's history.
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory retrieves the stored history for a conversation. A
	// conversation with no stored messages yields an empty history, not
	// an error.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes all stored messages for a conversation.
	ClearHistory(ctx context.Context, conversationID string) error

	// GetMessageCount returns the number of stored messages.
	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory is a loaded conversation in chronological order.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}
