package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestResolvePricingUnknownModelIsFree(t *testing.T) {
	p := ResolvePricing("some-unknown-model")
	assert.Zero(t, p.InputPerM)
	assert.Zero(t, p.OutputPerM)
}

func TestComputeCost(t *testing.T) {
	p := ResolvePricing("gemini-2.5-flash")
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 2_000_000}

	in, out, total := ComputeCost(usage, p)
	assert.InDelta(t, 0.30, in, 1e-9)
	assert.InDelta(t, 5.00, out, 1e-9)
	assert.InDelta(t, 5.30, total, 1e-9)
}

func TestComputeCostNilUsage(t *testing.T) {
	in, out, total := ComputeCost(nil, ResolvePricing("gemini-2.5-flash"))
	assert.Zero(t, in)
	assert.Zero(t, out)
	assert.Zero(t, total)
}
