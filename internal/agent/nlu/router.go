package nlu

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/collega-ai/server/internal/agent/model"
	logx "github.com/collega-ai/server/pkg/logger"
)

// Keyword groups for the ordered routing rules.
var (
	topWords    = []string{"top", "terbesar", "tertinggi", "ranking", "papan atas"}
	mcapWords   = []string{"market cap", "kapitalisasi", "nilai pasar"}
	entityWords = []string{"perusahaan", "saham", "emiten"}

	quarterWords = []string{"quarter", "kuartal", "q1", "q2", "q3", "q4", "quarterly", "triwulan"}
	segmentWords = []string{"segmen", "segment", "bisnis", "breakdown", "pembagian"}
	// "kabar" is deliberately absent: it would misroute the standard
	// greeting "apa kabar" into a news lookup.
	newsWords    = []string{"berita", "news"}
	reportWords  = []string{"laporan", "report", "analisis"}

	indexKeywords = []string{"lq45", "lq 45", "idx30", "idx 30", "kompas100"}

	// subsectorKeys fixes the evaluation order of subsectorMap (Go maps
	// iterate randomly; the mapping itself is keyword → canonical name).
	subsectorKeys = []string{"bank", "banking", "perbankan", "telekomunikasi", "energi", "tambang"}
	subsectorMap  = map[string]string{
		"bank":           "banks",
		"banking":        "banks",
		"perbankan":      "banks",
		"telekomunikasi": "telecommunication",
		"energi":         "energy",
		"tambang":        "mining",
	}
)

var (
	firstNumberRe = regexp.MustCompile(`\b(\d+)\b`)
	quarterRe     = regexp.MustCompile(`(?:quarter|q|kuartal)\s*(\d)`)
	yearRe        = regexp.MustCompile(`20\d{2}`)
)

// Router maps resolved user text to an intent. Pure over its inputs plus the
// company cache consulted by the ticker extractor; no I/O of its own.
type Router struct {
	extractor *TickerExtractor
	now       func() time.Time
}

// NewRouter builds a router over the given ticker extractor.
func NewRouter(extractor *TickerExtractor) *Router {
	return &Router{extractor: extractor, now: time.Now}
}

// Route applies the ordered rule groups and returns the first match.
//
// The top/ranking rule runs before any ticker rule on purpose: a general
// "top 5 perusahaan" request must not be hijacked by a ticker the extractor
// happens to find in the text.
func (r *Router) Route(ctx context.Context, text string) model.Intent {
	textLower := strings.ToLower(text)

	ticker, hasTicker := r.extractor.Extract(ctx, text)
	logx.Debug().Str("ticker", ticker).Bool("found", hasTicker).Msg("ticker extraction")

	// ===== Step 1: high-priority general intents =====

	if containsAny(textLower, topWords) && (containsAny(textLower, mcapWords) || containsAny(textLower, entityWords)) {
		limit := 5
		if m := firstNumberRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				limit = clampInt(n, 1, 50)
			}
		}
		logx.Debug().Int("limit", limit).Msg("routing to top_market_cap (prioritized)")
		return model.TopMarketCap{Limit: limit}
	}

	// ===== Step 2: ticker-specific intents =====

	if hasTicker {
		if containsAny(textLower, quarterWords) {
			quarter, year := 0, 0
			if m := quarterRe.FindStringSubmatch(textLower); m != nil {
				quarter, _ = strconv.Atoi(m[1])
			}
			if m := yearRe.FindString(text); m != "" {
				year, _ = strconv.Atoi(m)
			} else if quarter != 0 {
				year = r.now().Year()
				logx.Debug().Int("year", year).Msg("no year specified, using current year")
			}
			if quarter != 0 || year != 0 {
				logx.Debug().Int("quarter", quarter).Int("year", year).Msg("quarterly request")
				return model.QuarterlyFinancials{Ticker: ticker, Quarter: quarter, Year: year}
			}
		}

		if containsAny(textLower, segmentWords) {
			return model.CompanySegments{Ticker: ticker}
		}

		if containsAny(textLower, newsWords) {
			return model.MarketNews{Query: ticker, Limit: 10}
		}

		// Safety net: a ticker with no more specific intent means the user
		// wants general info about that stock.
		logx.Debug().Str("ticker", ticker).Msg("routing to stock_info (ticker fallback)")
		return model.StockInfo{Ticker: ticker}
	}

	// ===== Step 3: remaining general intents =====

	if containsAny(textLower, newsWords) {
		return model.MarketNews{Limit: 10}
	}

	for _, keyword := range indexKeywords {
		if strings.Contains(textLower, keyword) {
			index := strings.ToUpper(strings.ReplaceAll(keyword, " ", ""))
			return model.CompaniesByIndex{Index: index, Limit: 20}
		}
	}

	for _, keyword := range subsectorKeys {
		if strings.Contains(textLower, keyword) {
			subsector := subsectorMap[keyword]
			if containsAny(textLower, reportWords) {
				return model.SubsectorReport{Subsector: subsector}
			}
			return model.CompaniesSubsector{Subsector: subsector, Limit: 20}
		}
	}

	logx.Debug().Msg("no intent matched")
	return model.Unknown{}
}

// clampInt returns v limited to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
