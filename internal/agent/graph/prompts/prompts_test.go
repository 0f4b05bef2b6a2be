package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collega-ai/server/internal/agent/model"
)

func TestRenderResolver(t *testing.T) {
	out, err := RenderResolver(context.Background(), "gimana labanya?", "User: gimana prospek BBCA?\nAssistant: Baik.")
	require.NoError(t, err)
	assert.Contains(t, out, `NEW USER QUERY: "gimana labanya?"`)
	assert.Contains(t, out, "User: gimana prospek BBCA?")
}

func TestRenderNarration(t *testing.T) {
	cfg := model.ResponsePromptConfig{AssistantName: "Collega AI Assistant"}

	t.Run("without rag context", func(t *testing.T) {
		out, err := RenderNarration(context.Background(), cfg, "gimana BBCA?", "bagaimana saham BBCA", "DATA SAHAM: {...}", "")
		require.NoError(t, err)
		assert.Contains(t, out, "Collega AI Assistant")
		assert.Contains(t, out, `ORIGINAL USER QUESTION: "gimana BBCA?"`)
		assert.Contains(t, out, "DATA SAHAM: {...}")
		assert.NotContains(t, out, "ADDITIONAL CONTEXT FROM UPLOADED DOCUMENTS")
	})

	t.Run("with rag context", func(t *testing.T) {
		out, err := RenderNarration(context.Background(), cfg, "q", "", "data", "annual report excerpt")
		require.NoError(t, err)
		assert.Contains(t, out, "ADDITIONAL CONTEXT FROM UPLOADED DOCUMENTS")
		assert.Contains(t, out, "annual report excerpt")
	})
}

func TestRenderChat(t *testing.T) {
	cfg := model.ResponsePromptConfig{AssistantName: "Collega AI Assistant"}

	t.Run("without rag context", func(t *testing.T) {
		out, err := RenderChat(context.Background(), cfg, "")
		require.NoError(t, err)
		assert.Contains(t, out, "Collega AI Assistant")
		assert.NotContains(t, out, "Context:")
	})

	t.Run("with rag context", func(t *testing.T) {
		out, err := RenderChat(context.Background(), cfg, "dokumen penting")
		require.NoError(t, err)
		assert.Contains(t, out, "Context:\ndokumen penting")
	})
}
