// Package prompts renders the assistant's prompt templates through the Eino
// prompt component so prompt callbacks fire on every render.
package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/collega-ai/server/internal/agent/model"
)

//go:embed template/resolver_prompt.txt
var resolverPrompt string

//go:embed template/narration_prompt.txt
var narrationPrompt string

//go:embed template/chat_prompt.txt
var chatPrompt string

// RenderResolver renders the context-resolution prompt for one query.
func RenderResolver(ctx context.Context, query, history string) (string, error) {
	return render(ctx, resolverPrompt, map[string]any{
		"Query":   query,
		"History": history,
	})
}

// RenderNarration renders the system prompt asking the response model to
// narrate a raw tool payload conversationally.
func RenderNarration(ctx context.Context, cfg model.ResponsePromptConfig, question, resolvedQuery, toolResult, ragContext string) (string, error) {
	return render(ctx, narrationPrompt, map[string]any{
		"AssistantName": cfg.AssistantName,
		"Question":      question,
		"ResolvedQuery": resolvedQuery,
		"ToolResult":    toolResult,
		"RAGContext":    ragContext,
	})
}

// RenderChat renders the plain-chat system prompt used on the fallback path.
func RenderChat(ctx context.Context, cfg model.ResponsePromptConfig, ragContext string) (string, error) {
	return render(ctx, chatPrompt, map[string]any{
		"AssistantName": cfg.AssistantName,
		"RAGContext":    ragContext,
	})
}

// render formats one system template via the Eino prompt component (Go
// template syntax) so callbacks observe the rendered output.
func render(ctx context.Context, tplText string, vars map[string]any) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(tplText),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}
