package sectors

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyCacheNilClient(t *testing.T) {
	cache := NewCompanyCache(nil)

	assert.Empty(t, cache.All(context.Background()))
	assert.False(t, cache.Loaded())
}

func TestCompanyCachePopulatesOnce(t *testing.T) {
	fetches := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte(`[{"company_name":"PT Bank Central Asia Tbk","symbol":"BBCA"}]`))
	})
	cache := NewCompanyCache(client)

	first := cache.All(context.Background())
	require.Len(t, first, 1)
	assert.Equal(t, "BBCA", first[0].Symbol)
	assert.True(t, cache.Loaded())

	cache.All(context.Background())
	assert.Equal(t, 1, fetches, "populated cache must not refetch")
}

func TestCompanyCacheRetriesAfterFailure(t *testing.T) {
	fetches := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fetches++
		if fetches == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		w.Write([]byte(`[{"company_name":"Telkom Indonesia","symbol":"TLKM"}]`))
	})
	cache := NewCompanyCache(client)

	assert.Empty(t, cache.All(context.Background()))
	assert.False(t, cache.Loaded(), "failed fetch must leave the cache unpopulated")

	second := cache.All(context.Background())
	require.Len(t, second, 1)
	assert.Equal(t, "TLKM", second[0].Symbol)
}

func TestCompanyCacheSubsectorFallback(t *testing.T) {
	var subsectors []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		sub := r.URL.Query().Get("sub_sector")
		if sub == "" {
			// Bulk endpoint returns an empty list, forcing the fallback.
			w.Write([]byte(`[]`))
			return
		}
		subsectors = append(subsectors, sub)
		if sub == "banks" {
			w.Write([]byte(`[{"company_name":"PT Bank Central Asia Tbk","symbol":"BBCA"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})
	cache := NewCompanyCache(client)

	companies := cache.All(context.Background())
	require.Len(t, companies, 1)
	assert.Equal(t, "BBCA", companies[0].Symbol)
	assert.True(t, cache.Loaded())
	assert.Equal(t, strings.Join(commonSubsectors, ","), strings.Join(subsectors, ","))
}
