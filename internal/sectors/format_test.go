package sectors

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorCarriesMarker(t *testing.T) {
	out := FormatError(errors.New("Rate limit exceeded. Tunggu beberapa saat."))
	assert.True(t, strings.HasPrefix(out, ErrorMarker))
	assert.Contains(t, out, "Rate limit exceeded")
}

func TestFormatCompanyOverview(t *testing.T) {
	raw := json.RawMessage(`{"symbol":"BBCA","company_name":"PT Bank Central Asia Tbk"}`)

	out := FormatCompanyOverview(raw)
	assert.Contains(t, out, "DATA SAHAM")
	assert.Contains(t, out, "BBCA")
	assert.False(t, strings.HasPrefix(out, ErrorMarker))
}

func TestFormatCompaniesListCapsAtTwenty(t *testing.T) {
	var list []map[string]string
	for i := 0; i < 30; i++ {
		list = append(list, map[string]string{"symbol": "TICK"})
	}
	raw, _ := json.Marshal(list)

	out := FormatCompaniesList(raw, "Top Companies by Market Cap")
	assert.Contains(t, out, "TOP COMPANIES BY MARKET CAP")
	assert.Contains(t, out, "Total: 30 companies, showing 20")
}

func TestFormatCompaniesListEmpty(t *testing.T) {
	out := FormatCompaniesList(json.RawMessage(`[]`), "whatever")
	assert.Equal(t, "Tidak ada data perusahaan ditemukan.", out)
}

func TestFormatNews(t *testing.T) {
	raw := json.RawMessage(`[{"title":"a"},{"title":"b"},{"title":"c"}]`)

	out := FormatNews(raw, 2)
	assert.Contains(t, out, "BERITA TERKINI")
	assert.Contains(t, out, "Total: 3 articles, showing 2")
}

func TestFormatNewsEmpty(t *testing.T) {
	out := FormatNews(json.RawMessage(`[]`), 10)
	assert.Equal(t, "Tidak ada berita ditemukan.", out)
}

func TestFormatSubsectorReportSkipsInternalKeys(t *testing.T) {
	raw := json.RawMessage(`{"total_market_cap":123,"error":"should be hidden","companies":["x"]}`)

	out := FormatSubsectorReport(raw, "banks")
	assert.Contains(t, out, "Subsector Report: Banks")
	assert.Contains(t, out, "Total Market Cap")
	assert.NotContains(t, out, "should be hidden")
	assert.NotContains(t, out, "companies")
}

func TestFormatSegments(t *testing.T) {
	raw := json.RawMessage(`{
		"revenue_segments":[{"name":"Interest income","value":50000}],
		"cost_segments":[{"name":"Operating expense","value":20000}]
	}`)

	out := FormatSegments(raw, "bbca.jk")
	assert.Contains(t, out, "Business Segments: BBCA")
	assert.Contains(t, out, "Interest income: 50000")
	assert.Contains(t, out, "Operating expense: 20000")
}

func TestFormatIdxHistoryHeadAndTail(t *testing.T) {
	var entries []map[string]any
	for i := 0; i < 12; i++ {
		entries = append(entries, map[string]any{"date": "2024-01-01", "market_cap": float64(1000 + i)})
	}
	raw, _ := json.Marshal(entries)

	out := FormatIdxHistory(raw, "2024-01-01", "2024-04-01")
	assert.Contains(t, out, "IDX Market Cap History")
	assert.Contains(t, out, "(2 more entries)")
}

func TestFormatIdxHistoryEmpty(t *testing.T) {
	out := FormatIdxHistory(json.RawMessage(`[]`), "2024-01-01", "2024-02-01")
	assert.Equal(t, "Tidak ada data ditemukan untuk periode tersebut.", out)
}
