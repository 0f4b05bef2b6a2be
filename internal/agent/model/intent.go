package model

// Intent is the routing decision for one user turn: which financial
// operation, if any, the message requests, together with its parameters.
// The set of implementations is closed; the tool executor dispatches on it
// with an exhaustive type switch, so adding a variant without handling it
// is a compile-visible change rather than a silent unknown-key lookup.
type Intent interface {
	// Tag returns the stable wire/log name of the intent.
	Tag() string
}

// StockInfo is the catch-all for any ticker-bearing message that matched
// no more specific rule: a general company overview lookup.
type StockInfo struct {
	Ticker string
}

// QuarterlyFinancials requests quarterly statements, optionally narrowed
// to one quarter and/or year.
type QuarterlyFinancials struct {
	Ticker  string
	Quarter int // 1-4, 0 when unspecified
	Year    int // 0 when unspecified
}

// CompanySegments requests the revenue/cost segment breakdown of a company.
type CompanySegments struct {
	Ticker string
}

// MarketNews requests recent market news, optionally filtered by query.
type MarketNews struct {
	Query string // empty for general news
	Limit int
}

// TopMarketCap requests the top-N companies by market capitalization.
type TopMarketCap struct {
	Limit int
}

// CompaniesByIndex lists constituents of a stock index (LQ45, IDX30, ...).
type CompaniesByIndex struct {
	Index string
	Limit int
}

// CompaniesSubsector lists companies in one subsector.
type CompaniesSubsector struct {
	Subsector string
	Limit     int
}

// SubsectorReport requests the analysis report for one subsector.
type SubsectorReport struct {
	Subsector string
}

// IdxMarketCapHistory requests historical total IDX market cap for a range.
type IdxMarketCapHistory struct {
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// Unknown means no routing rule matched. Not an error: the turn falls back
// to the plain chat path.
type Unknown struct{}

func (StockInfo) Tag() string           { return "stock_info" }
func (QuarterlyFinancials) Tag() string { return "quarterly_financials" }
func (CompanySegments) Tag() string     { return "company_segments" }
func (MarketNews) Tag() string          { return "market_news" }
func (TopMarketCap) Tag() string        { return "top_market_cap" }
func (CompaniesByIndex) Tag() string    { return "companies_by_index" }
func (CompaniesSubsector) Tag() string  { return "companies_subsector" }
func (SubsectorReport) Tag() string     { return "subsector_report" }
func (IdxMarketCapHistory) Tag() string { return "idx_market_cap_history" }
func (Unknown) Tag() string             { return "unknown" }
