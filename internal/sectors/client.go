// Package sectors integrates with the Sectors.app financial data API.
// Documentation: https://docs.sectors.app/
package sectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	logx "github.com/collega-ai/server/pkg/logger"
)

// Config holds the connection settings for the Sectors API.
type Config struct {
	APIKey  string `envconfig:"SECTORS_API_KEY"`
	BaseURL string `envconfig:"SECTORS_BASE_URL" default:"https://api.sectors.app/v1"`
	Timeout int    `envconfig:"SECTORS_TIMEOUT" default:"10"`
}

// ErrorKind classifies provider failures. Every kind degrades the same way
// downstream (the turn falls back to plain chat); the kind only drives the
// user-invisible message and logging.
type ErrorKind int

const (
	ErrRateLimited ErrorKind = iota
	ErrBadRequest
	ErrNotFound
	ErrTimeout
	ErrGeneric
)

// APIError is a provider failure carried as a value. It is never allowed to
// escape the agent pipeline; the formatting layer turns it into a marker
// string that the response composer filters out.
type APIError struct {
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client is the HTTP client for the Sectors financial API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient builds a client from config. A missing API key is reported as an
// error so the caller can run with the financial subsystem disabled.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("sectors: API key is not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpc:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}, nil
}

// get performs one API request and returns the raw JSON body. All transport
// and HTTP-status failures come back as *APIError values.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	logx.Debug().Str("url", u).Msg("sectors API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Kind: ErrGeneric, Message: fmt.Sprintf("Request failed: %v", err)}
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return nil, &APIError{Kind: ErrTimeout, Message: "Request timeout. API tidak merespons."}
		}
		return nil, &APIError{Kind: ErrGeneric, Message: fmt.Sprintf("Request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: ErrGeneric, Message: fmt.Sprintf("Request failed: %v", err)}
	}

	logx.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("sectors API response")

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &APIError{Kind: ErrRateLimited, Message: "Rate limit exceeded. Tunggu beberapa saat."}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &APIError{Kind: ErrBadRequest, Message: fmt.Sprintf("Bad request: %s", snippet(body))}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &APIError{Kind: ErrNotFound, Message: fmt.Sprintf("Endpoint not found: %s", endpoint)}
	case resp.StatusCode >= 400:
		return nil, &APIError{Kind: ErrGeneric, Message: fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, snippet(body))}
	}

	if !json.Valid(body) {
		return nil, &APIError{Kind: ErrGeneric, Message: "Invalid JSON response from API"}
	}
	return json.RawMessage(body), nil
}

func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max]
	}
	return s
}

// normalizeTicker uppercases and strips the .JK suffix used by some feeds.
func normalizeTicker(ticker string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(ticker)), ".JK", "")
}

// ==================== COMPANIES ====================

// Companies lists companies, up to nStock entries.
// Endpoint: GET /companies/
func (c *Client) Companies(ctx context.Context, nStock int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("sections", "all")
	params.Set("n_stock", strconv.Itoa(nStock))
	return c.get(ctx, "companies/", params)
}

// CompaniesTop returns the top companies by market capitalization.
// Endpoint: GET /companies/top/
func (c *Client) CompaniesTop(ctx context.Context, nStock int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("n_stock", strconv.Itoa(nStock))
	params.Set("classifications", "all")
	params.Set("min_mcap_billion", "1")
	params.Set("logic", "and")
	params.Set("include_none", "false")
	return c.get(ctx, "companies/top/", params)
}

// CompaniesByIndex lists companies that belong to a stock index.
// Endpoint: GET /index/{index}/
func (c *Client) CompaniesByIndex(ctx context.Context, index string, nStock int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("sections", "all")
	params.Set("n_stock", strconv.Itoa(nStock))
	return c.get(ctx, fmt.Sprintf("index/%s/", strings.ToUpper(index)), params)
}

// CompaniesBySubsector lists companies in one subsector.
func (c *Client) CompaniesBySubsector(ctx context.Context, subsector string, nStock int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("sections", "all")
	params.Set("n_stock", strconv.Itoa(nStock))
	params.Set("sub_sector", strings.ToLower(subsector))
	return c.get(ctx, "companies/", params)
}

// ==================== COMPANY DATA ====================

// CompanyOverview returns the company report for a ticker.
// Endpoint: GET /company/report/{ticker}/
func (c *Client) CompanyOverview(ctx context.Context, ticker, sections string) (json.RawMessage, error) {
	params := url.Values{}
	if sections != "" {
		params.Set("sections", sections)
	}
	return c.get(ctx, fmt.Sprintf("company/report/%s/", normalizeTicker(ticker)), params)
}

// CompanySegments returns revenue and cost segments of a company.
// Endpoint: GET /company/get-segments/{ticker}/
func (c *Client) CompanySegments(ctx context.Context, ticker string) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("company/get-segments/%s/", normalizeTicker(ticker)), nil)
}

// ==================== SUBSECTOR ANALYSIS ====================

// SubsectorReport returns the comprehensive report for a subsector.
// Endpoint: GET /subsector/report/{subsector}/
func (c *Client) SubsectorReport(ctx context.Context, subsector string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("sections", "all")
	return c.get(ctx, fmt.Sprintf("subsector/report/%s/", strings.ToLower(subsector)), params)
}

// ==================== MARKET DATA ====================

// IdxTotal returns historical IDX market capitalization data.
// Endpoint: GET /idx-total/
func (c *Client) IdxTotal(ctx context.Context, start, end string) (json.RawMessage, error) {
	params := url.Values{}
	if start != "" {
		params.Set("start", start)
	}
	if end != "" {
		params.Set("end", end)
	}
	return c.get(ctx, "idx-total/", params)
}

// ==================== NEWS ====================

// News returns market news, newest first, optionally filtered by query.
// Endpoint: GET /news/
func (c *Client) News(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("order", "desc")
	if query != "" {
		params.Set("query", query)
	}
	return c.get(ctx, "news/", params)
}

// QuarterlyFinancials returns quarterly financial data for a company. The
// endpoint returns whole quarters; quarter/year narrowing happens in the
// tool executor.
// Endpoint: GET /financials/quarterly/{ticker}/
func (c *Client) QuarterlyFinancials(ctx context.Context, ticker string, nQuarters int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("n_quarters", strconv.Itoa(nQuarters))
	return c.get(ctx, fmt.Sprintf("financials/quarterly/%s/", normalizeTicker(ticker)), params)
}
