// Package research provides the web search, page fetch, and content
// extraction adapters. Each isolates one unreliable external dependency
// and absorbs its expected failure modes: adapters log and degrade to
// empty results, they never fail the calling workflow.
package research

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/pkg/jina"
	"github.com/sells-group/onboard-cli/pkg/perplexity"
)

// Searcher performs a web search. An empty slice means no results;
// failures are absorbed and reported the same way.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) []model.WebSearchResult
}

// WebSearcher searches via Perplexity citations first and falls back to
// Jina search. Results are de-duplicated by exact URL, first seen wins.
type WebSearcher struct {
	perplexity perplexity.Client
	jina       jina.Client
}

// NewWebSearcher creates a WebSearcher. Either backend may be nil; a
// nil backend is simply skipped.
func NewWebSearcher(px perplexity.Client, jn jina.Client) *WebSearcher {
	return &WebSearcher{perplexity: px, jina: jn}
}

// Search runs the query against the backends in order and returns up to
// numResults URL-deduped results. Snippets are frequently empty: the
// citation backend returns sources, not descriptions.
func (s *WebSearcher) Search(ctx context.Context, query string, numResults int) []model.WebSearchResult {
	if numResults <= 0 {
		numResults = 5
	}

	results := s.searchPerplexity(ctx, query)
	if len(results) == 0 {
		results = s.searchJina(ctx, query)
	}

	deduped := dedupeByURL(results)
	if len(deduped) > numResults {
		deduped = deduped[:numResults]
	}

	zap.L().Debug("research: search complete",
		zap.String("query", query),
		zap.Int("results", len(deduped)),
	)
	return deduped
}

func (s *WebSearcher) searchPerplexity(ctx context.Context, query string) []model.WebSearchResult {
	if s.perplexity == nil {
		return nil
	}

	resp, err := s.perplexity.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{{Role: "user", Content: query}},
	})
	if err != nil {
		zap.L().Warn("research: perplexity search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	var results []model.WebSearchResult
	for i, sr := range resp.SearchResults {
		results = append(results, model.WebSearchResult{
			Title:  sr.Title,
			URL:    sr.URL,
			Source: "perplexity",
			Score:  citationScore(i),
		})
	}
	// Older API responses carry bare citation URLs only.
	if len(results) == 0 {
		for i, u := range resp.Citations {
			results = append(results, model.WebSearchResult{
				URL:    u,
				Source: "perplexity",
				Score:  citationScore(i),
			})
		}
	}
	return results
}

func (s *WebSearcher) searchJina(ctx context.Context, query string) []model.WebSearchResult {
	if s.jina == nil {
		return nil
	}

	resp, err := s.jina.Search(ctx, query)
	if err != nil {
		zap.L().Warn("research: jina search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	var results []model.WebSearchResult
	for i, sr := range resp.Data {
		results = append(results, model.WebSearchResult{
			Title:   sr.Title,
			URL:     sr.URL,
			Snippet: sr.Description,
			Source:  "jina",
			Score:   citationScore(i),
		})
	}
	return results
}

// citationScore converts a result's rank into a descending score.
func citationScore(rank int) float64 {
	return 1.0 / float64(rank+1)
}

// dedupeByURL drops results whose exact URL was already seen,
// preserving first-seen order. Exact match only; no prefix heuristics.
func dedupeByURL(results []model.WebSearchResult) []model.WebSearchResult {
	seen := make(map[string]struct{}, len(results))
	out := results[:0:0]
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}
