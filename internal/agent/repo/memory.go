package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/collega-ai/server/internal/agent/model"
)

// InMemoryConversationRepository keeps conversations in process memory.
// Used by tests and by single-process runs without Redis.
type InMemoryConversationRepository struct {
	mu       sync.RWMutex
	sessions map[string][]*schema.Message
}

func NewInMemoryConversationRepository() *InMemoryConversationRepository {
	return &InMemoryConversationRepository{sessions: make(map[string][]*schema.Message)}
}

func (r *InMemoryConversationRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[conversationID] = append(r.sessions[conversationID], message)
	return nil
}

func (r *InMemoryConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.sessions[conversationID]
	out := make([]*schema.Message, len(msgs))
	copy(out, msgs)
	return &model.ConversationHistory{ConversationID: conversationID, Messages: out}, nil
}

func (r *InMemoryConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, conversationID)
	return nil
}

func (r *InMemoryConversationRepository) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[conversationID]), nil
}

var _ model.ConversationRepository = (*InMemoryConversationRepository)(nil)
