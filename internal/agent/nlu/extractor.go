package nlu

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/collega-ai/server/internal/agent/model"
	"github.com/collega-ai/server/internal/sectors"
	logx "github.com/collega-ai/server/pkg/logger"
)

// aliasTable maps common colloquial company/brand names to tickers. Matched
// by lowercase substring containment, first hit wins in map-independent
// order: longer keys are tried first so "bank bca" beats "bca".
var aliasTable = map[string]string{
	"bca":                  "BBCA",
	"bank bca":             "BBCA",
	"pt bank central asia": "BBCA",
	"bri":                  "BBRI",
	"bank bri":             "BBRI",
	"bank rakyat indonesia": "BBRI",
	"mandiri":              "BMRI",
	"bank mandiri":         "BMRI",
	"telkom":               "TLKM",
	"telkomsel":            "TLKM",
	"astra":                "ASII",
	"goto":                 "GOTO",
	"gojek":                "GOTO",
	"tokopedia":            "GOTO",
	"bukalapak":            "BUKA",
	"buka":                 "BUKA",
	"unilever":             "UNVR",
	"indofood":             "INDF",
	"adaro":                "ADRO",
}

// tickerStoplist holds common 4-letter Indonesian words that would otherwise
// look like explicit tickers.
var tickerStoplist = map[string]struct{}{
	"DARI": {}, "YANG": {}, "AKAN": {}, "INFO": {}, "DATA": {}, "HARI": {},
	"SAYA": {}, "BANK": {}, "JUGA": {}, "ATAU": {}, "KATA": {}, "BISA": {},
	"MANA": {}, "INI": {}, "HALO": {},
}

var explicitTickerRe = regexp.MustCompile(`\b([A-Z]{4})\b`)

// TickerExtractor finds a stock ticker in free text: alias table first, then
// an explicit 4-letter token, then fuzzy matching against the cached company
// universe.
type TickerExtractor struct {
	cache     *sectors.CompanyCache
	threshold float64
	boost     float64
}

// NewTickerExtractor builds an extractor over the company cache with the
// configured matching knobs.
func NewTickerExtractor(cache *sectors.CompanyCache, cfg model.MatcherConfig) *TickerExtractor {
	threshold := cfg.FuzzyThreshold
	if threshold <= 0 {
		threshold = 0.70
	}
	boost := cfg.SubstringBoost
	if boost <= 0 {
		boost = 0.85
	}
	return &TickerExtractor{cache: cache, threshold: threshold, boost: boost}
}

// Extract returns the first ticker found in text. Check order is fixed:
// alias substring, explicit uppercase token, fuzzy company-name match.
func (e *TickerExtractor) Extract(ctx context.Context, text string) (string, bool) {
	textLower := strings.ToLower(text)

	// Longest alias keys first so more specific names win.
	for _, key := range aliasKeysByLength {
		if strings.Contains(textLower, key) {
			ticker := aliasTable[key]
			logx.Debug().Str("alias", key).Str("ticker", ticker).Msg("quick match found")
			return ticker, true
		}
	}

	if m := explicitTickerRe.FindStringSubmatch(strings.ToUpper(text)); m != nil {
		candidate := m[1]
		if _, stopped := tickerStoplist[candidate]; !stopped {
			logx.Debug().Str("ticker", candidate).Msg("explicit ticker found")
			return candidate, true
		}
	}

	for _, name := range candidateNames(text) {
		if ticker, ok := e.findTickerByName(ctx, name); ok {
			return ticker, true
		}
	}

	return "", false
}

// candidateNames builds potential company-name candidates: capitalized words
// longer than 3 characters, then every 1-3 word window over the text.
func candidateNames(text string) []string {
	words := strings.Fields(text)
	var names []string

	for _, w := range words {
		runes := []rune(w)
		if len(runes) > 3 && unicode.IsUpper(runes[0]) {
			names = append(names, w)
		}
	}

	for i := 0; i < len(words); i++ {
		for j := i + 1; j <= len(words) && j <= i+3; j++ {
			phrase := strings.Join(words[i:j], " ")
			if len(phrase) > 3 {
				names = append(names, phrase)
			}
		}
	}
	return names
}

// findTickerByName fuzzy-matches one candidate against every cached company
// name. The best strictly-greater score wins; equal scores keep the earlier
// hit. A candidate contained in a company name scores at least the
// substring boost.
func (e *TickerExtractor) findTickerByName(ctx context.Context, name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}

	companies := e.cache.All(ctx)
	if len(companies) == 0 {
		return "", false
	}

	bestTicker := ""
	bestScore := 0.0
	for _, company := range companies {
		companyName := strings.ToLower(company.Name)
		if strings.EqualFold(company.Symbol, name) {
			return company.Symbol, true
		}

		score := similarity(name, companyName)
		if strings.Contains(companyName, name) && score < e.boost {
			score = e.boost
		}
		if score > bestScore {
			bestScore = score
			bestTicker = company.Symbol
		}
	}

	if bestScore > e.threshold {
		logx.Debug().Str("ticker", bestTicker).Float64("confidence", bestScore).Msg("fuzzy ticker match")
		return bestTicker, true
	}
	return "", false
}

// aliasKeysByLength is the alias table's keys sorted longest first, computed
// once so that extraction order is deterministic.
var aliasKeysByLength = func() []string {
	keys := make([]string, 0, len(aliasTable))
	for k := range aliasTable {
		keys = append(keys, k)
	}
	// insertion sort by descending length, then lexicographic for stability
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			a, b := keys[j-1], keys[j]
			if len(b) > len(a) || (len(b) == len(a) && b < a) {
				keys[j-1], keys[j] = b, a
			} else {
				break
			}
		}
	}
	return keys
}()
