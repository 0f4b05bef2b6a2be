package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildGraphValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := BuildGraph(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("missing chat models", func(t *testing.T) {
		_, err := BuildGraph(ctx, &GraphConfig{})
		assert.Error(t, err)
	})
}

func TestBuildAgentGraphRequiresRepo(t *testing.T) {
	_, err := BuildAgentGraph(context.Background(), Config{})
	assert.Error(t, err)
}
