package perplexity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sonar-pro", req.Model, "default model applied")

		resp := ChatCompletionResponse{
			ID: "cmpl-1",
			Choices: []Choice{
				{Message: Message{Role: "assistant", Content: "Acme Plumbing holds license TX-12345."}},
			},
			Citations: []string{"https://tdlr.texas.gov/acme"},
			SearchResults: []SearchResult{
				{Title: "TDLR License Search", URL: "https://tdlr.texas.gov/acme"},
			},
			Usage: Usage{PromptTokens: 40, CompletionTokens: 22},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "acme plumbing austin license number"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Contains(t, resp.Choices[0].Message.Content, "TX-12345")
	assert.Equal(t, []string{"https://tdlr.texas.gov/acme"}, resp.Citations)
	require.Len(t, resp.SearchResults, 1)
	assert.Equal(t, "TDLR License Search", resp.SearchResults[0].Title)
}

func TestChatCompletionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "query"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatCompletionModelOverride(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		_ = json.NewEncoder(w).Encode(ChatCompletionResponse{})
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithModel("sonar"))
	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "q"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "sonar", gotModel)
}
