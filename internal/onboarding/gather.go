package onboarding

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/internal/research"
)

// candidatePage is one URL selected for fetching, tagged with the query
// that surfaced it.
type candidatePage struct {
	query string
	url   string
	title string
}

// gatherFindings runs each query through the search adapter, picks
// candidate pages, fetches them concurrently, and extracts content.
// Pages that fetch empty or extract nothing are dropped silently.
func (m *Manager) gatherFindings(ctx context.Context, queries []model.SearchQuery) []model.ResearchFinding {
	var candidates []candidatePage
	seen := map[string]bool{}
	for _, q := range queries {
		for _, r := range m.search.Search(ctx, q.Text, m.policy.SearchResults) {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			candidates = append(candidates, candidatePage{query: q.Text, url: r.URL, title: r.Title})
		}
	}
	if len(candidates) > m.policy.MaxPagesPerItem {
		candidates = candidates[:m.policy.MaxPagesPerItem]
	}
	return m.fetchAndExtract(ctx, candidates)
}

// fetchAndExtract resolves candidate pages into research findings. The
// fetches are independent reads and run concurrently; result order
// follows the candidate order, and the serialized caller merges the
// findings into session state.
func (m *Manager) fetchAndExtract(ctx context.Context, candidates []candidatePage) []model.ResearchFinding {
	results := make([]*model.ResearchFinding, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.policy.FetchConcurrency)
	for i, c := range candidates {
		g.Go(func() error {
			page := m.fetch.Fetch(gctx, c.url, true, research.DefaultFetchTimeout)
			if page.Empty() {
				zap.L().Debug("onboarding: candidate page unavailable", zap.String("url", c.url))
				return nil
			}
			info := m.extract.ExtractBusinessInfo(page.HTML, c.url)
			if info == nil || strings.TrimSpace(info.BusinessContent) == "" {
				return nil
			}
			title := info.Title
			if title == "" {
				title = c.title
			}
			results[i] = &model.ResearchFinding{
				Query:   c.query,
				URL:     c.url,
				Title:   title,
				Content: info.BusinessContent,
			}
			return nil
		})
	}
	// Per-page failures surface as nil findings, never as errors.
	_ = g.Wait()

	var findings []model.ResearchFinding
	for _, f := range results {
		if f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// rankCandidates orders candidate pages by LLM relevance to the
// question. A rerank failure keeps search order.
func (m *Manager) rankCandidates(ctx context.Context, question string, candidates []candidatePage) []candidatePage {
	if len(candidates) < 2 {
		return candidates
	}
	urls := make([]string, len(candidates))
	byURL := make(map[string]candidatePage, len(candidates))
	for i, c := range candidates {
		urls[i] = c.url
		byURL[c.url] = c
	}

	resp, err := m.llm.RerankURLs(ctx, question, urls)
	if err != nil {
		zap.L().Warn("onboarding: rerank failed, keeping search order", zap.Error(err))
		return candidates
	}

	ranked := make([]candidatePage, 0, len(candidates))
	used := map[string]bool{}
	for _, u := range resp.URLs {
		if c, ok := byURL[u]; ok && !used[u] {
			ranked = append(ranked, c)
			used[u] = true
		}
	}
	// URLs the rerank dropped keep their original relative order.
	for _, c := range candidates {
		if !used[c.url] {
			ranked = append(ranked, c)
		}
	}
	return ranked
}
