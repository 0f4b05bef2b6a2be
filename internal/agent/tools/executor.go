// Package tools executes routed financial intents against the Sectors API,
// isolating every call so a provider failure never escapes as an error.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/collega-ai/server/internal/agent/model"
	"github.com/collega-ai/server/internal/sectors"
	logx "github.com/collega-ai/server/pkg/logger"
)

// Executor dispatches an intent to the matching data-provider operation.
type Executor struct {
	client *sectors.Client
	now    func() time.Time
}

// NewExecutor builds an executor. A nil client means the financial subsystem
// is unconfigured; every execution then reports failure and the caller falls
// back to plain chat.
func NewExecutor(client *sectors.Client) *Executor {
	return &Executor{client: client, now: time.Now}
}

// Execute runs the operation matching the intent and returns its textual
// payload. ok is false when nothing could be executed (unknown intent,
// unconfigured client); provider-side failures come back as marker strings
// (ok true) that the response composer filters before narrating.
func (e *Executor) Execute(ctx context.Context, intent model.Intent) (result string, ok bool) {
	if e.client == nil {
		return "", false
	}

	logx.Debug().Str("intent", intent.Tag()).Msg("executing tool")

	switch it := intent.(type) {
	case model.StockInfo:
		raw, err := e.client.CompanyOverview(ctx, it.Ticker, "overview")
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatCompanyOverview(raw), true

	case model.QuarterlyFinancials:
		return e.quarterlyFinancials(ctx, it), true

	case model.CompanySegments:
		raw, err := e.client.CompanySegments(ctx, it.Ticker)
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatSegments(raw, it.Ticker), true

	case model.MarketNews:
		raw, err := e.client.News(ctx, it.Query)
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatNews(raw, it.Limit), true

	case model.TopMarketCap:
		raw, err := e.client.CompaniesTop(ctx, clampInt(it.Limit, 1, 50))
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatCompaniesList(raw, "Top Companies by Market Cap"), true

	case model.CompaniesByIndex:
		raw, err := e.client.CompaniesByIndex(ctx, it.Index, clampInt(it.Limit, 1, 200))
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatCompaniesList(raw, fmt.Sprintf("Companies in %s index", strings.ToUpper(it.Index))), true

	case model.CompaniesSubsector:
		raw, err := e.client.CompaniesBySubsector(ctx, it.Subsector, clampInt(it.Limit, 1, 200))
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatCompaniesList(raw, fmt.Sprintf("Companies in %s subsector", it.Subsector)), true

	case model.SubsectorReport:
		raw, err := e.client.SubsectorReport(ctx, it.Subsector)
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatSubsectorReport(raw, it.Subsector), true

	case model.IdxMarketCapHistory:
		raw, err := e.client.IdxTotal(ctx, it.Start, it.End)
		if err != nil {
			return sectors.FormatError(err), true
		}
		return sectors.FormatIdxHistory(raw, it.Start, it.End), true

	case model.Unknown:
		logx.Debug().Msg("unknown intent, nothing to execute")
		return "", false

	default:
		// Unreachable while the variant set stays closed.
		logx.Warn().Str("intent", intent.Tag()).Msg("unhandled intent variant")
		return "", false
	}
}

// quarterlyFinancials fetches the recent quarters for a ticker and narrows
// them to the requested quarter/year when given.
func (e *Executor) quarterlyFinancials(ctx context.Context, it model.QuarterlyFinancials) string {
	quarter, year := it.Quarter, it.Year
	if quarter != 0 && year == 0 {
		year = e.now().Year()
	}

	raw, err := e.client.QuarterlyFinancials(ctx, it.Ticker, 8)
	if err != nil {
		return sectors.FormatError(err)
	}

	var items []map[string]any
	listErr := json.Unmarshal(raw, &items)

	if listErr != nil || (quarter == 0 && year == 0) {
		// Not a list, or no narrowing requested: dump everything.
		pretty, perr := indentJSON(raw)
		if perr != nil {
			return fmt.Sprintf("%s Error formatting data: %v", sectors.ErrorMarker, perr)
		}
		return strings.TrimSpace(fmt.Sprintf(`
📊 QUARTERLY FINANCIAL DATA
Company: %s
Period: Last 8 Quarters

%s

INSTRUCTIONS: Extract and present quarterly financial metrics.
`, strings.ToUpper(it.Ticker), pretty))
	}

	var filtered []map[string]any
	for _, item := range items {
		iq, iy := itemPeriod(item)
		if quarter != 0 && iq != quarter {
			continue
		}
		if year != 0 && iy != year {
			continue
		}
		filtered = append(filtered, item)
	}

	logx.Debug().Int("matches", len(filtered)).Int("quarter", quarter).Int("year", year).Msg("quarterly filter")

	if len(filtered) == 0 {
		return availablePeriodsMessage(items, quarter, year)
	}

	pretty, perr := json.MarshalIndent(filtered, "", "  ")
	if perr != nil {
		return fmt.Sprintf("%s Error formatting data: %v", sectors.ErrorMarker, perr)
	}
	return strings.TrimSpace(fmt.Sprintf(`
📊 QUARTERLY FINANCIAL DATA
Company: %s
Period: %s %s

%s

INSTRUCTIONS: Extract and present quarterly financial metrics including revenue, profit, expenses, margins, etc.
`, strings.ToUpper(it.Ticker), quarterLabel(quarter), yearLabel(year), pretty))
}

var (
	periodQuarterRe = regexp.MustCompile(`[Qq](\d)`)
	periodYearRe    = regexp.MustCompile(`20\d{2}`)
)

// itemPeriod recovers (quarter, year) from one quarterly record. The
// provider's schema varies, so three conventions are tried in order: an ISO
// date field, explicit quarter/year-style fields, then a "Q3 2024"-style
// period string. Zero means undetermined.
func itemPeriod(item map[string]any) (quarter, year int) {
	if date, ok := item["date"].(string); ok {
		if t, err := time.Parse("2006-01-02", date); err == nil {
			return (int(t.Month())-1)/3 + 1, t.Year()
		}
	}

	quarter = intField(item, "quarter", "q", "period_quarter")
	year = intField(item, "year", "y", "period_year")
	if quarter != 0 {
		return quarter, year
	}

	if period, ok := item["period"].(string); ok {
		if m := periodQuarterRe.FindStringSubmatch(period); m != nil {
			quarter, _ = strconv.Atoi(m[1])
		}
		if m := periodYearRe.FindString(period); m != "" {
			year, _ = strconv.Atoi(m)
		}
	}
	return quarter, year
}

// intField returns the first present numeric field among names.
func intField(item map[string]any, names ...string) int {
	for _, name := range names {
		switch v := item[name].(type) {
		case float64:
			return int(v)
		case string:
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
				return n
			}
		}
	}
	return 0
}

// availablePeriodsMessage lists what the provider did return so the model
// can tell the user which periods exist.
func availablePeriodsMessage(items []map[string]any, quarter, year int) string {
	var periods []string
	for i, item := range items {
		if i >= 5 {
			break
		}
		iq, iy := itemPeriod(item)
		label, _ := item["period"].(string)
		if label == "" {
			label = "Unknown"
		}
		if iq != 0 && iy != 0 {
			periods = append(periods, fmt.Sprintf("  - %s (Q%d %d)", label, iq, iy))
		} else {
			periods = append(periods, "  - "+label)
		}
	}

	return strings.TrimSpace(fmt.Sprintf(`
%s Data tidak ditemukan untuk %s %s

Available periods in response:
%s
`, sectors.ErrorMarker, quarterLabel(quarter), yearLabel(year), strings.Join(periods, "\n")))
}

func quarterLabel(quarter int) string {
	if quarter == 0 {
		return "QAll"
	}
	return fmt.Sprintf("Q%d", quarter)
}

func yearLabel(year int) string {
	if year == 0 {
		return "All Years"
	}
	return fmt.Sprintf("%d", year)
}

func indentJSON(data json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
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
