package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/collega-ai/server/internal/agent/model"
)

type MessagesManager struct {
	conversationRepo model.ConversationRepository
	contextMaxTurns  int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	maxTurns := config.ContextMaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &MessagesManager{
		conversationRepo: conversationRepo,
		contextMaxTurns:  maxTurns,
	}
}

// PriorHistory returns the turns recorded before the current user message.
// Classifier and resolver windows come from here.
func (cm *MessagesManager) PriorHistory(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return history.Messages, nil
}

// SaveUserMessage appends the current user turn to the conversation.
func (cm *MessagesManager) SaveUserMessage(ctx context.Context, conversationID string, query string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

// BuildResponseContext assembles the completion request for the response
// model: system prompt, then the most recent turns (bounded window), which
// include the just-saved user message.
func (cm *MessagesManager) BuildResponseContext(ctx context.Context, conversationID string, systemPrompt string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
	}
	messages = append(messages, trimTail(history.Messages, cm.contextMaxTurns)...)

	return messages, nil
}

// SaveResponse appends the assistant reply to the conversation.
func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, conversationID, assistantMsg)
}

// ContextMaxTurns exposes the configured recent-turn window size.
func (cm *MessagesManager) ContextMaxTurns() int {
	return cm.contextMaxTurns
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
