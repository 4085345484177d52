package firecrawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scrape", r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))

		var req ScrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://acmeplumbing.example", req.URL)
		assert.Equal(t, []string{"html"}, req.Formats)
		assert.Equal(t, 2000, req.WaitFor)

		_ = json.NewEncoder(w).Encode(ScrapeResponse{
			Success: true,
			Data: PageData{
				URL:        req.URL,
				Title:      "Acme Plumbing",
				HTML:       "<html><body>Licensed plumbers since 1998.</body></html>",
				StatusCode: 200,
			},
		})
	}))
	defer srv.Close()

	client := NewClient("fc-key", WithBaseURL(srv.URL))

	resp, err := client.Scrape(context.Background(), ScrapeRequest{
		URL:     "https://acmeplumbing.example",
		Formats: []string{"html"},
		WaitFor: 2000,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 200, resp.Data.StatusCode)
	assert.Contains(t, resp.Data.HTML, "Licensed plumbers")
}

func TestScrapeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"payment required"}`, http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client := NewClient("fc-key", WithBaseURL(srv.URL))

	_, err := client.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
}
