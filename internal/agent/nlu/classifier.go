package nlu

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	logx "github.com/collega-ai/server/pkg/logger"
)

// financialTerms is the permissive keyword net for classification. False
// positives are cheap (the plain chat fallback still answers); false
// negatives would silently skip the financial pipeline.
var financialTerms = []string{
	"saham", "stock", "emiten", "ticker", "ihsg", "idx", "bursa",
	"per", "pbv", "roe", "roa", "market cap", "kapitalisasi",
	"gainer", "loser", "volume", "transaksi",
	"bbca", "bbri", "bmri", "tlkm", "asii", "unvr", "goto", "buka",
	"adro", "indf", "icbp", "klbf", "eraa", "antm", "ptba",
	"bank bca", "bank bri", "bank mandiri", "bank rakyat",
	"lq45", "lq 45", "idx30", "kompas100",
	"perbankan", "telekomunikasi", "tambang", "properti", "energi",
	"berita saham", "info saham", "harga saham",
	"finansial", "financial", "laporan", "quarter", "kuartal",
}

// Classifier decides whether a message enters the financial pipeline at all.
type Classifier struct {
	extractor *TickerExtractor
	router    *Router
	available bool
	maxTurns  int
}

// NewClassifier builds a classifier. available reports whether the financial
// data provider is configured; when false every message classifies as
// non-financial and the assistant behaves as a plain chatbot.
func NewClassifier(extractor *TickerExtractor, router *Router, available bool, maxTurns int) *Classifier {
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &Classifier{extractor: extractor, router: router, available: available, maxTurns: maxTurns}
}

// IsFinancial reports whether text should be routed through the financial
// pipeline. An OR of independent heuristics: keyword hit, ticker in text,
// ticker anywhere in the recent history (context carry-over), or a
// non-unknown routing result.
func (c *Classifier) IsFinancial(ctx context.Context, text string, history []*schema.Message) bool {
	if !c.available {
		logx.Debug().Msg("financial data provider unavailable")
		return false
	}

	textLower := strings.ToLower(text)
	hasTerm := containsAny(textLower, financialTerms)

	ticker, hasTicker := c.extractor.Extract(ctx, text)

	contextTicker := ""
	if !hasTicker {
		recent := lastTurns(history, c.maxTurns)
		for i := len(recent) - 1; i >= 0; i-- {
			msg := recent[i]
			if msg == nil || (msg.Role != schema.User && msg.Role != schema.Assistant) {
				continue
			}
			if t, ok := c.extractor.Extract(ctx, msg.Content); ok {
				contextTicker = t
				logx.Debug().Str("ticker", contextTicker).Msg("found context ticker")
				break
			}
		}
	}

	intent := c.router.Route(ctx, text)
	result := hasTerm || hasTicker || contextTicker != "" || intent.Tag() != "unknown"

	logx.Debug().
		Bool("has_financial_term", hasTerm).
		Str("ticker", ticker).
		Str("context_ticker", contextTicker).
		Str("intent", intent.Tag()).
		Bool("result", result).
		Msg("financial query check")

	return result
}

// lastTurns returns up to n most recent messages, oldest first.
func lastTurns(messages []*schema.Message, n int) []*schema.Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
