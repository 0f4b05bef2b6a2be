package model

// ================ Config ================
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"15m"`
	// ContextMaxTurns bounds how many recent turns the resolver, the
	// classifier and the response context may consult.
	ContextMaxTurns int `envconfig:"CONVERSATION_CONTEXT_MAX_TURNS" default:"5"`
}

type ResolverModelConfig struct {
	Model       string  `envconfig:"RESOLVER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"RESOLVER_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"RESOLVER_TEMPERATURE" default:"0.1"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type ResponsePromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"Collega AI Assistant"`
}

// MatcherConfig carries the fuzzy company-name matching knobs. The values
// are tunable rather than fixed because no derivation exists for them.
type MatcherConfig struct {
	FuzzyThreshold float64 `envconfig:"MATCH_FUZZY_THRESHOLD" default:"0.70"`
	SubstringBoost float64 `envconfig:"MATCH_SUBSTRING_BOOST" default:"0.85"`
}
