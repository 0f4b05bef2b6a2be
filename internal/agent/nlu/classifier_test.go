package nlu

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"github.com/collega-ai/server/internal/agent/model"
)

func newTestClassifier(available bool) *Classifier {
	extractor := NewTickerExtractor(emptyCache(), model.MatcherConfig{})
	return NewClassifier(extractor, NewRouter(extractor), available, 5)
}

func TestIsFinancialUnavailableProvider(t *testing.T) {
	classifier := newTestClassifier(false)

	// Without a configured provider everything is plain chat, even an
	// obviously financial query.
	assert.False(t, classifier.IsFinancial(context.Background(), "harga saham BBCA", nil))
}

func TestIsFinancial(t *testing.T) {
	classifier := newTestClassifier(true)

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "keyword hit", text: "bagaimana kondisi bursa hari ini", expected: true},
		{name: "ticker in text", text: "gimana prospek BBCA", expected: true},
		{name: "ranking phrasing", text: "top 5 perusahaan terbesar", expected: true},
		{name: "plain greeting", text: "halo apa kabar", expected: false},
		{name: "small talk", text: "terima kasih banyak ya", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.IsFinancial(context.Background(), tt.text, nil))
		})
	}
}

func TestIsFinancialContextCarryOver(t *testing.T) {
	classifier := newTestClassifier(true)

	history := []*schema.Message{
		schema.UserMessage("gimana prospek BBCA?"),
		schema.AssistantMessage("Saham BBCA menunjukkan kinerja yang baik.", nil),
	}

	// The follow-up has no ticker of its own; the one in recent history
	// carries the financial context over.
	assert.True(t, classifier.IsFinancial(context.Background(), "kalau dividennya bagaimana", history))
}

// A non-unknown routing result must always classify as financial.
func TestIsFinancialRouterMonotonicity(t *testing.T) {
	classifier := newTestClassifier(true)
	router := NewRouter(NewTickerExtractor(emptyCache(), model.MatcherConfig{}))

	queries := []string{
		"top 10 perusahaan dengan kapitalisasi terbesar",
		"berita pasar modal terbaru",
		"daftar emiten perbankan",
		"laporan kuartal Q2 2024 BBCA",
	}
	for _, q := range queries {
		intent := router.Route(context.Background(), q)
		if intent.Tag() == "unknown" {
			continue
		}
		assert.True(t, classifier.IsFinancial(context.Background(), q, nil), "query %q", q)
	}
}
