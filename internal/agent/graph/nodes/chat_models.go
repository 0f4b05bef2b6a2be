package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/collega-ai/server/internal/agent/model"
	logx "github.com/collega-ai/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey         string
	BaseURL        string
	ResolverConfig *model.ResolverModelConfig
	RespConfig     *model.ResponseModelConfig
}

// ChatModels holds both the context-resolver and response chat models
type ChatModels struct {
	Resolver          *gemini.ChatModel
	Response          *gemini.ChatModel
	ResolverModelName string
	ResponseModelName string
}

// NewChatModels creates both resolver and response chat models with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	// The resolver model only rewrites follow-up questions, so it runs a
	// lighter model with no thinking budget.
	chatModelResolver, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ResolverConfig.Model,
		Temperature: &config.ResolverConfig.Temperature,
		MaxTokens:   &config.ResolverConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating resolver model")
		return nil, fmt.Errorf("error creating resolver model: %w", err)
	}

	chatModelResponse, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RespConfig.Model,
		Temperature: &config.RespConfig.Temperature,
		MaxTokens:   &config.RespConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	return &ChatModels{
		Resolver:          chatModelResolver,
		Response:          chatModelResponse,
		ResolverModelName: config.ResolverConfig.Model,
		ResponseModelName: config.RespConfig.Model,
	}, nil
}

// NewResponseChatModelNode creates a wrapper for the Response chat model to be used as a node
func NewResponseChatModelNode(chatModel *gemini.ChatModel) *gemini.ChatModel {
	return chatModel
}
