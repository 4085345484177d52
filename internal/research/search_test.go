package research

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/pkg/jina"
	"github.com/sells-group/onboard-cli/pkg/perplexity"
)

type fakePerplexity struct {
	resp *perplexity.ChatCompletionResponse
	err  error
}

func (f *fakePerplexity) ChatCompletion(_ context.Context, _ perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	return f.resp, f.err
}

type fakeJina struct {
	resp *jina.SearchResponse
	err  error
}

func (f *fakeJina) Search(_ context.Context, _ string, _ ...jina.SearchOption) (*jina.SearchResponse, error) {
	return f.resp, f.err
}

func TestSearchDedupesAndCaps(t *testing.T) {
	px := &fakePerplexity{resp: &perplexity.ChatCompletionResponse{
		SearchResults: []perplexity.SearchResult{
			{Title: "A", URL: "https://a.example"},
			{Title: "A again", URL: "https://a.example"},
			{Title: "B", URL: "https://b.example"},
			{Title: "C", URL: "https://c.example"},
		},
	}}

	s := NewWebSearcher(px, nil)
	results := s.Search(context.Background(), "acme plumbing", 2)

	require.Len(t, results, 2)
	assert.Equal(t, "https://a.example", results[0].URL)
	assert.Equal(t, "A", results[0].Title, "first-seen result wins the dedup")
	assert.Equal(t, "https://b.example", results[1].URL)
}

func TestSearchUsesBareCitations(t *testing.T) {
	px := &fakePerplexity{resp: &perplexity.ChatCompletionResponse{
		Citations: []string{"https://one.example", "https://two.example"},
	}}

	s := NewWebSearcher(px, nil)
	results := s.Search(context.Background(), "q", 5)

	require.Len(t, results, 2)
	assert.Empty(t, results[0].Snippet, "citation backends return no descriptions")
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchFallsBackToJina(t *testing.T) {
	px := &fakePerplexity{err: eris.New("perplexity down")}
	jn := &fakeJina{resp: &jina.SearchResponse{
		Code: 200,
		Data: []jina.SearchResult{
			{Title: "Fallback hit", URL: "https://fallback.example", Description: "a snippet"},
		},
	}}

	s := NewWebSearcher(px, jn)
	results := s.Search(context.Background(), "q", 5)

	require.Len(t, results, 1)
	assert.Equal(t, "jina", results[0].Source)
	assert.Equal(t, "a snippet", results[0].Snippet)
}

func TestSearchNeverErrors(t *testing.T) {
	// Both backends failing is "no results", not a workflow failure.
	s := NewWebSearcher(
		&fakePerplexity{err: eris.New("down")},
		&fakeJina{err: eris.New("also down")},
	)
	results := s.Search(context.Background(), "q", 5)
	assert.Empty(t, results)

	// No backends at all behaves the same way.
	empty := NewWebSearcher(nil, nil)
	assert.Empty(t, empty.Search(context.Background(), "q", 5))
}

func TestDedupeByURLDropsEmpty(t *testing.T) {
	in := []model.WebSearchResult{
		{URL: ""},
		{URL: "https://x.example"},
	}
	out := dedupeByURL(in)
	require.Len(t, out, 1)
	assert.Equal(t, "https://x.example", out[0].URL)
}
