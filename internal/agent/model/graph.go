package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - Do not access AppState directly from outside handlers. For persistence,
//     use repositories/services (e.g., MessagesManager).
type AppState struct {
	ConversationID string
	// History holds the turns recorded before the current user message,
	// loaded once per invocation for classifier/resolver/composer use.
	History []*schema.Message
	Intent  Intent

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// Turn is the payload carried along the graph edges for one user message.
// Fields fill in as the pipeline advances; downstream nodes only read what
// earlier stages produced.
type Turn struct {
	ConversationID string
	Query          string
	ResolvedQuery  string
	Financial      bool
	Intent         Intent
	ToolResult     string
	ToolOK         bool
}

// RoutedText returns the text intent routing and narration should use: the
// context-resolved query when resolution produced one, the raw query otherwise.
func (t *Turn) RoutedText() string {
	if t.ResolvedQuery != "" {
		return t.ResolvedQuery
	}
	return t.Query
}
