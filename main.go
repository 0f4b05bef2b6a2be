package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/collega-ai/server/internal/agent/graph"
	"github.com/collega-ai/server/internal/agent/model"
	"github.com/collega-ai/server/internal/agent/repo"
	"github.com/collega-ai/server/internal/sectors"
	logx "github.com/collega-ai/server/pkg/logger"
	pkgredis "github.com/collega-ai/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Market data provider
	Sectors sectors.Config

	// Agent configs
	Resolver     model.ResolverModelConfig
	Response     model.ResponseModelConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
	Matcher      model.MatcherConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	logx.InitFromEnv()

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	cfg := graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		ResolverModel:    envCfg.Resolver,
		ResponseModel:    envCfg.Response,
		ResponsePrompt:   envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		Matcher:          envCfg.Matcher,
		Sectors:          envCfg.Sectors,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
	}

	runner, err := graph.BuildAgentGraph(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "General greeting",
			query:       "Halo, apa kabar?",
		},
		{
			description: "Stock overview by company alias",
			query:       "Bagaimana kinerja saham BCA?",
		},
		{
			description: "Quarterly financials follow-up",
			query:       "Bagaimana laporan keuangan Q2 2024 nya?",
		},
		{
			description: "Market ranking",
			query:       "5 perusahaan dengan market cap terbesar",
		},
		{
			description: "Market news",
			query:       "Berita terbaru tentang BBRI",
		},
	}

	conversationID := "demo-conversation-1"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		response, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          test.query,
		})
		if err != nil {
			log.Fatalf("Failed to invoke graph for test %d: %v", i+1, err)
		}

		fmt.Printf("Response %d: %s\n", i+1, response)
		fmt.Println("------------------------------------------------")

		time.Sleep(500 * time.Millisecond)
	}
}
