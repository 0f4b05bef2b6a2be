package nlu

import (
	"context"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/collega-ai/server/internal/agent/graph/prompts"
	logx "github.com/collega-ai/server/pkg/logger"
)

// ContextResolver rewrites context-dependent queries ("saham ini", "data
// quarter") into self-contained ones using the recent conversation. It is a
// best-effort stage: any failure returns the input unchanged, never an
// error, so it can never block the pipeline.
type ContextResolver struct {
	cm       einomodel.BaseChatModel
	maxTurns int
}

// NewContextResolver builds a resolver over the given chat model.
func NewContextResolver(cm einomodel.BaseChatModel, maxTurns int) *ContextResolver {
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &ContextResolver{cm: cm, maxTurns: maxTurns}
}

// Resolve returns the query rewritten with conversation context, or the
// query unchanged when there is no significant history or resolution fails.
func (r *ContextResolver) Resolve(ctx context.Context, query string, history []*schema.Message) string {
	if r.cm == nil || len(history) < 2 {
		return query
	}

	prompt, err := prompts.RenderResolver(ctx, query, renderHistory(history, r.maxTurns))
	if err != nil {
		logx.Warn().Err(err).Msg("context resolution prompt render failed")
		return query
	}

	out, err := r.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage("You are a context resolver. Return only the resolved query, no explanation."),
		schema.UserMessage(prompt),
	})
	if err != nil {
		logx.Warn().Err(err).Msg("context resolution failed")
		return query
	}
	if out == nil {
		return query
	}

	resolved := strings.TrimSpace(out.Content)
	if resolved == "" {
		return query
	}

	logx.Debug().Str("original", query).Str("resolved", resolved).Msg("query resolution")
	return resolved
}

// renderHistory formats up to maxTurns recent turns for the resolution
// prompt, truncating assistant replies to keep the prompt small.
func renderHistory(history []*schema.Message, maxTurns int) string {
	const assistantTruncate = 200

	var lines []string
	for _, msg := range lastTurns(history, maxTurns) {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.User:
			lines = append(lines, "User: "+msg.Content)
		case schema.Assistant:
			content := msg.Content
			if len(content) > assistantTruncate {
				content = truncateRunes(content, assistantTruncate) + "..."
			}
			lines = append(lines, "Assistant: "+content)
		}
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
