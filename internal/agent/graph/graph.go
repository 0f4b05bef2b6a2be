package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/collega-ai/server/internal/agent/graph/conversations"
	"github.com/collega-ai/server/internal/agent/graph/nodes"
	"github.com/collega-ai/server/internal/agent/graph/observers"
	"github.com/collega-ai/server/internal/agent/model"
	"github.com/collega-ai/server/internal/agent/nlu"
	"github.com/collega-ai/server/internal/agent/rag"
	"github.com/collega-ai/server/internal/agent/tools"
	"github.com/collega-ai/server/internal/sectors"
	logx "github.com/collega-ai/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the full agent graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat
// models, the market data client and the messages manager.
type Config struct {
	APIKey           string
	BaseURL          string
	ResolverModel    model.ResolverModelConfig
	ResponseModel    model.ResponseModelConfig
	ResponsePrompt   model.ResponsePromptConfig
	Conversation     model.ConversationConfig
	Matcher          model.MatcherConfig
	Sectors          sectors.Config
	ConversationRepo model.ConversationRepository
	Retriever        rag.Retriever
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels           *nodes.ChatModels
	MessagesManager      *conversations.MessagesManager
	Classifier           *nlu.Classifier
	Resolver             *nlu.ContextResolver
	Router               *nlu.Router
	Executor             *tools.Executor
	Retriever            rag.Retriever
	ResponsePromptConfig *model.ResponsePromptConfig
}

// GraphBuilder handles the construction of the agent conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		ConversationID: in.ConversationID,
		Query:          in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	if len(out.Extra) > 0 {
		logx.Debug().Interface("extra", out.Extra).Msg("response metadata")
	}
	return out.Content, nil
}

// BuildAgentGraph composes the chat models, the market data pipeline and the
// messages manager, builds the graph, and returns a Runner.
func BuildAgentGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		ResolverConfig: &cfg.ResolverModel,
		RespConfig:     &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	// A missing market data key degrades the assistant to general chat
	// instead of failing startup.
	var client *sectors.Client
	if cfg.Sectors.APIKey != "" {
		client, err = sectors.NewClient(cfg.Sectors)
		if err != nil {
			logx.Warn().Err(err).Msg("market data client unavailable, financial queries will degrade")
			client = nil
		}
	} else {
		logx.Warn().Msg("no market data API key configured, running in chat-only mode")
	}

	cache := sectors.NewCompanyCache(client)
	extractor := nlu.NewTickerExtractor(cache, cfg.Matcher)
	router := nlu.NewRouter(extractor)
	classifier := nlu.NewClassifier(extractor, router, client != nil, cfg.Conversation.ContextMaxTurns)
	resolver := nlu.NewContextResolver(cms.Resolver, cfg.Conversation.ContextMaxTurns)
	executor := tools.NewExecutor(client)

	retriever := cfg.Retriever
	if retriever == nil {
		retriever = rag.Nop{}
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:           cms,
		MessagesManager:      mm,
		Classifier:           classifier,
		Resolver:             resolver,
		Router:               router,
		Executor:             executor,
		Retriever:            retriever,
		ResponsePromptConfig: &cfg.ResponsePrompt,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Agent graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled agent graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Classifier == nil || config.Resolver == nil || config.Router == nil || config.Executor == nil {
		return nil, fmt.Errorf("query pipeline is not properly initialized")
	}
	if config.ResponsePromptConfig == nil {
		return nil, fmt.Errorf("response prompt config is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeClassifier,
		nodes.NewClassifierNode(b.config.MessagesManager, b.config.Classifier),
		compose.WithStatePreHandler(nodes.NewClassifierPreHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeContextResolver,
		nodes.NewContextResolverNode(b.config.Resolver),
	)

	b.graph.AddLambdaNode(nodes.NodeIntentRouter,
		nodes.NewIntentRouterNode(b.config.Router),
		compose.WithStatePostHandler(nodes.NewIntentRouterPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeToolExecutor,
		nodes.NewToolExecutorNode(b.config.Executor),
	)

	b.graph.AddLambdaNode(nodes.NodeResponseAssembler,
		nodes.NewResponseAssemblerNode(b.config.MessagesManager, b.config.ResponsePromptConfig, b.config.Retriever),
	)

	b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		nodes.NewResponseChatModelNode(b.config.ChatModels.Response),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.MessagesManager, b.config.ChatModels.ResponseModelName)),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeClassifier},
		{nodes.NodeContextResolver, nodes.NodeIntentRouter},
		{nodes.NodeToolExecutor, nodes.NodeResponseAssembler},
		{nodes.NodeResponseAssembler, nodes.NodeResponseChatModel},
		{nodes.NodeResponseChatModel, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	financialBranch := compose.NewGraphBranch(
		nodes.NewFinancialCondition(),
		map[string]bool{
			nodes.NodeContextResolver:   true,
			nodes.NodeResponseAssembler: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassifier, financialBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding financial branch")
		return fmt.Errorf("error adding financial branch: %w", err)
	}

	executeBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor:      true,
			nodes.NodeResponseAssembler: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeIntentRouter, executeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding execute branch")
		return fmt.Errorf("error adding execute branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
