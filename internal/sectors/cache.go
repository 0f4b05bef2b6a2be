package sectors

import (
	"context"
	"encoding/json"
	"sync"

	logx "github.com/collega-ai/server/pkg/logger"
)

// Company is one entry of the listed-company universe.
type Company struct {
	Name   string `json:"company_name"`
	Symbol string `json:"symbol"`
}

// commonSubsectors is the fallback fetch list used when the bulk companies
// endpoint returns nothing usable.
var commonSubsectors = []string{
	"banks", "telecommunication", "energy", "consumer-goods",
	"mining", "property", "infrastructure", "finance",
}

// CompanyCache is a process-lifetime read-through cache of the company
// universe. It populates at most once: after the first successful (even if
// partial) fetch the stored list is served for the rest of the process, with
// no refresh or eviction. A failed fetch leaves the cache unpopulated so a
// later call may retry.
type CompanyCache struct {
	mu        sync.Mutex
	client    *Client
	companies []Company
	loaded    bool
}

// NewCompanyCache builds a cache over the given client. A nil client is
// allowed and yields an always-empty cache (financial lookups degrade).
func NewCompanyCache(client *Client) *CompanyCache {
	return &CompanyCache{client: client}
}

// Loaded reports whether the cache has been populated.
func (c *CompanyCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// All returns the cached company universe, fetching it on first use.
// Failures are non-fatal: the caller gets an empty slice and name-based
// ticker resolution simply finds nothing.
func (c *CompanyCache) All(ctx context.Context) []Company {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.companies
	}
	if c.client == nil {
		return nil
	}

	raw, err := c.client.Companies(ctx, 200)
	if err != nil {
		logx.Warn().Err(err).Msg("company universe fetch failed")
		return nil
	}

	companies := decodeCompanies(raw)
	if len(companies) > 0 {
		c.companies = companies
		c.loaded = true
		logx.Debug().Int("count", len(companies)).Msg("cached company universe")
		return c.companies
	}

	// Bulk endpoint gave nothing usable: assemble the universe subsector by
	// subsector, tolerating individual failures.
	var all []Company
	for _, subsector := range commonSubsectors {
		raw, err := c.client.CompaniesBySubsector(ctx, subsector, 50)
		if err != nil {
			logx.Debug().Err(err).Str("subsector", subsector).Msg("subsector fetch failed, skipping")
			continue
		}
		all = append(all, decodeCompanies(raw)...)
	}

	c.companies = all
	c.loaded = true
	logx.Debug().Int("count", len(all)).Msg("cached company universe (fallback method)")
	return c.companies
}

func decodeCompanies(raw json.RawMessage) []Company {
	var companies []Company
	if err := json.Unmarshal(raw, &companies); err != nil {
		return nil
	}
	return companies
}
