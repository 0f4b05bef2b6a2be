package sectors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorMarker prefixes every failure text produced by this package. The
// response composer checks for it and refuses to narrate marked payloads.
const ErrorMarker = "❌"

// FormatError renders a provider failure as a marker string.
func FormatError(err error) string {
	return fmt.Sprintf("%s Error: %v", ErrorMarker, err)
}

// FormatCompanyOverview renders a raw company report for model consumption.
func FormatCompanyOverview(data json.RawMessage) string {
	pretty, err := indentJSON(data)
	if err != nil {
		return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, err)
	}
	return strings.TrimSpace(fmt.Sprintf(`
DATA SAHAM (Raw API Response):

%s

CATATAN: Data di atas adalah response langsung dari API Sectors.app.
Silakan extract dan present informasi yang relevan sesuai pertanyaan user.
`, pretty))
}

// FormatCompaniesList renders a raw companies array, capped at 20 entries.
func FormatCompaniesList(data json.RawMessage, title string) string {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		// Some endpoints wrap the list in an object; show it as-is.
		pretty, perr := indentJSON(data)
		if perr != nil {
			return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, perr)
		}
		return strings.TrimSpace(fmt.Sprintf("%s:\n\n%s", strings.ToUpper(title), pretty))
	}
	if len(list) == 0 {
		return "Tidak ada data perusahaan ditemukan."
	}

	total := len(list)
	if total > 20 {
		list = list[:20]
	}
	limited, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, err)
	}
	return strings.TrimSpace(fmt.Sprintf(`
%s (Total: %d companies, showing %d):

%s

CATATAN: Silakan present data ini dalam format yang user-friendly.
`, strings.ToUpper(title), total, len(list), limited))
}

// FormatNews renders a raw news array, capped at limit articles.
func FormatNews(data json.RawMessage, limit int) string {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, err)
	}
	if len(list) == 0 {
		return "Tidak ada berita ditemukan."
	}
	if limit <= 0 {
		limit = 10
	}
	total := len(list)
	if total > limit {
		list = list[:limit]
	}
	limited, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, err)
	}
	return strings.TrimSpace(fmt.Sprintf(`
BERITA TERKINI (Total: %d articles, showing %d):

%s

CATATAN: Silakan summarize berita-berita ini dalam format yang mudah dibaca.
`, total, len(list), limited))
}

// FormatSubsectorReport renders a subsector report as key/value lines.
func FormatSubsectorReport(data json.RawMessage, subsector string) string {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Subsector Report: %s**\n\n", titleCase(subsector))
	for key, value := range m {
		if key == "error" || key == "companies" {
			continue
		}
		fmt.Fprintf(&b, "**%s:** %v\n", titleCase(strings.ReplaceAll(key, "_", " ")), value)
	}
	return strings.TrimSpace(b.String())
}

// segment mirrors the provider's revenue/cost segment entries.
type segment struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// FormatSegments renders the business segment breakdown of a company.
func FormatSegments(data json.RawMessage, ticker string) string {
	var payload struct {
		RevenueSegments []segment `json:"revenue_segments"`
		CostSegments    []segment `json:"cost_segments"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Business Segments: %s**\n\n", normalizeTicker(ticker))
	if len(payload.RevenueSegments) > 0 {
		b.WriteString("**Revenue Segments:**\n")
		for _, s := range payload.RevenueSegments {
			fmt.Fprintf(&b, "  • %s: %.0f\n", s.Name, s.Value)
		}
		b.WriteString("\n")
	}
	if len(payload.CostSegments) > 0 {
		b.WriteString("**Cost Segments:**\n")
		for _, s := range payload.CostSegments {
			fmt.Fprintf(&b, "  • %s: %.0f\n", s.Name, s.Value)
		}
	}
	return strings.TrimSpace(b.String())
}

// FormatIdxHistory renders historical market cap entries, showing the head
// and tail when the range is long.
func FormatIdxHistory(data json.RawMessage, start, end string) string {
	var entries []struct {
		Date      string  `json:"date"`
		MarketCap float64 `json:"market_cap"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Sprintf("%s Error formatting data: %v", ErrorMarker, err)
	}
	if len(entries) == 0 {
		return "Tidak ada data ditemukan untuk periode tersebut."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **IDX Market Cap History (%s to %s)**\n\n", start, end)
	show := len(entries)
	if show > 5 {
		show = 5
	}
	for _, e := range entries[:show] {
		fmt.Fprintf(&b, "• %s: Rp %.0f\n", e.Date, e.MarketCap)
	}
	if len(entries) > show*2 {
		fmt.Fprintf(&b, "\n... (%d more entries) ...\n\n", len(entries)-show*2)
		for _, e := range entries[len(entries)-show:] {
			fmt.Fprintf(&b, "• %s: Rp %.0f\n", e.Date, e.MarketCap)
		}
	}
	return strings.TrimSpace(b.String())
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

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
