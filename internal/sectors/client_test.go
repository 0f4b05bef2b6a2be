package sectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 5})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{APIKey: "   "})
	assert.Error(t, err)
}

func TestGetSendsAuthorization(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	})

	_, err := client.CompanyOverview(context.Background(), "BBCA", "overview")
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotAuth)
}

func TestGetErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, kind: ErrRateLimited},
		{name: "bad request", status: http.StatusBadRequest, kind: ErrBadRequest},
		{name: "not found", status: http.StatusNotFound, kind: ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, kind: ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"boom"}`))
			})

			_, err := client.News(context.Background(), "BBCA")
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok, "expected *APIError, got %T", err)
			assert.Equal(t, tt.kind, apiErr.Kind)
		})
	}
}

func TestGetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	client.httpc.Timeout = 50 * time.Millisecond

	_, err = client.News(context.Background(), "")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, ErrTimeout, apiErr.Kind)
}

func TestGetRejectsInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.News(context.Background(), "")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, ErrGeneric, apiErr.Kind)
}

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"bbca", "BBCA"},
		{" BBCA.JK ", "BBCA"},
		{"tlkm.jk", "TLKM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, normalizeTicker(tt.in))
	}
}
