package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collega-ai/server/internal/agent/model"
	"github.com/collega-ai/server/internal/agent/repo"
)

func TestPriorHistoryExcludesNothingYet(t *testing.T) {
	mm := NewMessagesManager(repo.NewInMemoryConversationRepository(), model.ConversationConfig{ContextMaxTurns: 5})

	history, err := mm.PriorHistory(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mm := NewMessagesManager(repo.NewInMemoryConversationRepository(), model.ConversationConfig{ContextMaxTurns: 5})

	require.NoError(t, mm.SaveUserMessage(ctx, "c1", "halo"))
	require.NoError(t, mm.SaveResponse(ctx, "c1", "hai, ada yang bisa dibantu?"))

	history, err := mm.PriorHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, schema.User, history[0].Role)
	assert.Equal(t, "halo", history[0].Content)
	assert.Equal(t, schema.Assistant, history[1].Role)
}

func TestBuildResponseContextPrependsSystemPrompt(t *testing.T) {
	ctx := context.Background()
	mm := NewMessagesManager(repo.NewInMemoryConversationRepository(), model.ConversationConfig{ContextMaxTurns: 5})

	require.NoError(t, mm.SaveUserMessage(ctx, "c1", "pertanyaan"))

	messages, err := mm.BuildResponseContext(ctx, "c1", "system prompt here")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, schema.System, messages[0].Role)
	assert.Equal(t, "system prompt here", messages[0].Content)
	assert.Equal(t, "pertanyaan", messages[1].Content)
}

func TestBuildResponseContextTrimsToRecentTurns(t *testing.T) {
	ctx := context.Background()
	mm := NewMessagesManager(repo.NewInMemoryConversationRepository(), model.ConversationConfig{ContextMaxTurns: 3})

	for i := 0; i < 6; i++ {
		require.NoError(t, mm.SaveUserMessage(ctx, "c1", fmt.Sprintf("msg-%d", i)))
	}

	messages, err := mm.BuildResponseContext(ctx, "c1", "sys")
	require.NoError(t, err)
	// 1 system + the 3 most recent turns.
	require.Len(t, messages, 4)
	assert.Equal(t, "msg-3", messages[1].Content)
	assert.Equal(t, "msg-5", messages[3].Content)
}

func TestTrimTailCopies(t *testing.T) {
	original := []*schema.Message{
		schema.UserMessage("a"),
		schema.UserMessage("b"),
	}

	trimmed := trimTail(original, 5)
	require.Len(t, trimmed, 2)
	trimmed[0] = schema.UserMessage("mutated")
	assert.Equal(t, "a", original[0].Content)
}
