package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing holds USD rates per one million text tokens.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Standard-tier text pricing for the Gemini models the assistant runs on.
var modelPricing = map[string]Pricing{
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing looks up the rates for a model name. Unknown models get
// zero pricing so cost accounting degrades to a no-op instead of guessing.
func ResolvePricing(name string) Pricing {
	return modelPricing[name]
}

// ComputeCost converts token usage into USD using the given per-1M rates.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
