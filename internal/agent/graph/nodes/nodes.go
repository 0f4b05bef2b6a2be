package nodes

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/collega-ai/server/internal/agent/graph/conversations"
	"github.com/collega-ai/server/internal/agent/graph/prompts"
	"github.com/collega-ai/server/internal/agent/model"
	"github.com/collega-ai/server/internal/agent/nlu"
	"github.com/collega-ai/server/internal/agent/rag"
	"github.com/collega-ai/server/internal/agent/tools"
	"github.com/collega-ai/server/internal/sectors"
	logx "github.com/collega-ai/server/pkg/logger"
)

// Graph node names.
const (
	NodeClassifier        = "Classifier"
	NodeContextResolver   = "ContextResolver"
	NodeIntentRouter      = "IntentRouter"
	NodeToolExecutor      = "ToolExecutor"
	NodeResponseAssembler = "ResponseAssembler"
	NodeResponseChatModel = "ResponseChatModel"
)

// NewClassifierPreHandler creates the pre-handler for the Classifier node
func NewClassifierPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		if s.ConversationID == "" {
			s.ConversationID = in.ConversationID
		}
		// Reset per-query state
		s.History = nil
		s.Intent = nil
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewClassifierNode creates the Classifier node. It loads the prior turns,
// decides whether the query needs market data, and records the user message.
// History is loaded before the user message is saved so classifier and
// resolver windows contain prior turns only.
func NewClassifierNode(
	mm *conversations.MessagesManager,
	classifier *nlu.Classifier,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (*model.Turn, error) {
		history, err := mm.PriorHistory(ctx, input.ConversationID)
		if err != nil {
			// A broken history store degrades to a context-free turn rather
			// than failing the query.
			logx.Warn().
				Str("conversation_id", input.ConversationID).
				Err(err).
				Msg("loading conversation history failed, proceeding without context")
			history = nil
		}

		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			state.History = history
			return nil
		}); err != nil {
			return nil, err
		}

		financial := classifier.IsFinancial(ctx, input.Query, history)

		if err := mm.SaveUserMessage(ctx, input.ConversationID, input.Query); err != nil {
			logx.Error().
				Str("conversation_id", input.ConversationID).
				Err(err).
				Msg("Error saving user message")
		}

		logx.Debug().
			Str("conversation_id", input.ConversationID).
			Bool("financial", financial).
			Msg("query classified")

		return &model.Turn{
			ConversationID: input.ConversationID,
			Query:          input.Query,
			Financial:      financial,
		}, nil
	})
}

// NewFinancialCondition creates the condition routing financial queries into
// the data pipeline and everything else straight to response assembly.
func NewFinancialCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		if t.Financial {
			return NodeContextResolver, nil
		}
		logx.Debug().Msg("General conversation - skipping data pipeline")
		return NodeResponseAssembler, nil
	}
}

// NewContextResolverNode creates the ContextResolver node. Follow-up questions
// get rewritten into standalone queries using the recent turns in state.
func NewContextResolverNode(resolver *nlu.ContextResolver) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		var history []*schema.Message
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			history = state.History
			return nil
		}); err != nil {
			return nil, err
		}

		resolved := resolver.Resolve(ctx, t.Query, history)
		if resolved != t.Query {
			logx.Debug().
				Str("conversation_id", t.ConversationID).
				Str("resolved_query", resolved).
				Msg("follow-up resolved")
			t.ResolvedQuery = resolved
		}
		return t, nil
	})
}

// NewIntentRouterNode creates the IntentRouter node
func NewIntentRouterNode(router *nlu.Router) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		t.Intent = router.Route(ctx, t.RoutedText())
		return t, nil
	})
}

// NewIntentRouterPostHandler records the routed intent in state for
// observability and downstream reads.
func NewIntentRouterPostHandler() func(context.Context, *model.Turn, *model.AppState) (*model.Turn, error) {
	return func(ctx context.Context, t *model.Turn, state *model.AppState) (*model.Turn, error) {
		state.Intent = t.Intent
		tag := "unknown"
		if t.Intent != nil {
			tag = t.Intent.Tag()
		}
		logx.Debug().
			Str("conversation_id", t.ConversationID).
			Str("intent", tag).
			Msg("intent routed")
		return t, nil
	}
}

// NewToolExecutorCondition routes recognized intents to the tool executor and
// unrecognized ones straight to response assembly.
func NewToolExecutorCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		if t.Intent == nil {
			return NodeResponseAssembler, nil
		}
		if _, unknown := t.Intent.(model.Unknown); unknown {
			logx.Debug().Msg("No data intent recognized - routing to ResponseAssembler")
			return NodeResponseAssembler, nil
		}
		return NodeToolExecutor, nil
	}
}

// NewToolExecutorNode creates the ToolExecutor node
func NewToolExecutorNode(executor *tools.Executor) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		t.ToolResult, t.ToolOK = executor.Execute(ctx, t.Intent)
		logx.Debug().
			Str("conversation_id", t.ConversationID).
			Str("intent", t.Intent.Tag()).
			Bool("tool_ok", t.ToolOK).
			Msg("tool executed")
		return t, nil
	})
}

// NewResponseAssemblerNode creates the ResponseAssembler node. It picks the
// system prompt for the turn (data narration when the tool produced usable
// output, general chat otherwise), enriches it with retrieved document
// context when available, and builds the completion request.
func NewResponseAssemblerNode(
	mm *conversations.MessagesManager,
	responsePromptConfig *model.ResponsePromptConfig,
	retriever rag.Retriever,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) ([]*schema.Message, error) {
		var ragContext string
		if retriever != nil {
			rc, err := retriever.Retrieve(ctx, t.RoutedText())
			if err != nil {
				// Retrieval is best-effort enrichment, never a hard failure.
				logx.Warn().Err(err).Msg("document retrieval failed, answering without it")
			} else {
				ragContext = rc.Text
			}
		}

		sysPrompt, err := buildSystemPrompt(ctx, *responsePromptConfig, t, ragContext)
		if err != nil {
			return nil, err
		}

		messages, err := mm.BuildResponseContext(ctx, t.ConversationID, sysPrompt)
		if err != nil {
			// Fall back to a context-free request rather than failing the turn.
			logx.Warn().
				Str("conversation_id", t.ConversationID).
				Err(err).
				Msg("building response context failed, using current query only")
			messages = []*schema.Message{
				schema.SystemMessage(sysPrompt),
				schema.UserMessage(t.Query),
			}
		}

		return messages, nil
	})
}

// buildSystemPrompt selects narration when a tool result is present and
// usable. Results starting with the error marker fall back to the general
// chat prompt so the model can still answer from its own knowledge.
func buildSystemPrompt(ctx context.Context, cfg model.ResponsePromptConfig, t *model.Turn, ragContext string) (string, error) {
	usable := t.Financial && t.ToolOK &&
		strings.TrimSpace(t.ToolResult) != "" &&
		!strings.HasPrefix(t.ToolResult, sectors.ErrorMarker)
	if usable {
		return prompts.RenderNarration(ctx, cfg, t.Query, t.ResolvedQuery, t.ToolResult, ragContext)
	}
	if t.Financial && strings.HasPrefix(t.ToolResult, sectors.ErrorMarker) {
		logx.Debug().Msg("tool returned an error result - answering without market data")
	}
	return prompts.RenderChat(ctx, cfg, ragContext)
}

// NewResponseChatModelPostHandler creates the post-handler for the
// ResponseChatModel node: usage cost accounting plus persisting the reply.
func NewResponseChatModelPostHandler(
	mm *conversations.MessagesManager,
	modelName string,
) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost"] = map[string]any{
				"currency":          "USD",
				"model":             modelName,
				"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
				"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
				"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
				"input_cost":        inC,
				"output_cost":       outC,
				"total_cost":        totalC,
			}
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("node", NodeResponseChatModel).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")

			// Accumulate only total cost into state
			state.TotalCostUSD += totalC
			out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		}

		if out != nil && out.Role == schema.Assistant && strings.TrimSpace(out.Content) != "" {
			if err := mm.SaveResponse(ctx, state.ConversationID, out.Content); err != nil {
				logx.Error().
					Str("conversation_id", state.ConversationID).
					Err(err).
					Msg("Error saving assistant response")
			}
		}

		return out, nil
	}
}
