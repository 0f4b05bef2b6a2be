package nodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collega-ai/server/internal/agent/model"
	"github.com/collega-ai/server/internal/sectors"
)

func TestBuildSystemPromptNarratesUsableToolResult(t *testing.T) {
	cfg := model.ResponsePromptConfig{AssistantName: "Collega AI Assistant"}
	turn := &model.Turn{
		Query:      "gimana BBCA?",
		Financial:  true,
		ToolResult: "DATA SAHAM: {...}",
		ToolOK:     true,
	}

	prompt, err := buildSystemPrompt(context.Background(), cfg, turn, "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "RAW DATA FROM FINANCIAL DATABASE")
	assert.Contains(t, prompt, "DATA SAHAM: {...}")
}

func TestBuildSystemPromptFallsBackOnErrorMarker(t *testing.T) {
	cfg := model.ResponsePromptConfig{AssistantName: "Collega AI Assistant"}
	turn := &model.Turn{
		Query:      "gimana BBCA?",
		Financial:  true,
		ToolResult: sectors.ErrorMarker + " Error: rate limited",
		ToolOK:     true,
	}

	prompt, err := buildSystemPrompt(context.Background(), cfg, turn, "")
	require.NoError(t, err)
	// The marked failure text must never reach the model.
	assert.NotContains(t, prompt, "rate limited")
	assert.NotContains(t, prompt, sectors.ErrorMarker)
	assert.Contains(t, prompt, "friendly and helpful chatbot")
}

func TestBuildSystemPromptFallsBackWhenToolSkipped(t *testing.T) {
	cfg := model.ResponsePromptConfig{AssistantName: "Collega AI Assistant"}

	tests := []struct {
		name string
		turn *model.Turn
	}{
		{name: "non-financial chat", turn: &model.Turn{Query: "halo"}},
		{name: "financial but no tool output", turn: &model.Turn{Query: "soal pasar", Financial: true}},
		{name: "empty tool result", turn: &model.Turn{Query: "q", Financial: true, ToolOK: true, ToolResult: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := buildSystemPrompt(context.Background(), cfg, tt.turn, "")
			require.NoError(t, err)
			assert.NotContains(t, prompt, "RAW DATA FROM FINANCIAL DATABASE")
		})
	}
}

func TestBuildSystemPromptIncludesRAGContext(t *testing.T) {
	cfg := model.ResponsePromptConfig{AssistantName: "Collega AI Assistant"}
	turn := &model.Turn{Query: "apa isi dokumen ini?"}

	prompt, err := buildSystemPrompt(context.Background(), cfg, turn, "laporan tahunan 2024")
	require.NoError(t, err)
	assert.Contains(t, prompt, "laporan tahunan 2024")
}
