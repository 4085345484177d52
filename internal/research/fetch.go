package research

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/pkg/firecrawl"
)

// DefaultFetchTimeout bounds a single fetch attempt.
const DefaultFetchTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 512 * 1024

// renderWaitMillis is how long the rendering service lets client-side
// JS settle before capturing the page.
const renderWaitMillis = 2000

// browserUserAgent is the UA sent on direct HTTP fallback requests.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Fetcher retrieves a single page. The returned FetchedPage always
// exists; StatusCode 0 with empty HTML means every strategy failed and
// the caller should treat the page as unavailable, not as an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string, renderJS bool, timeout time.Duration) model.FetchedPage
}

// ChainFetcher tries strategies in order until one yields a non-empty
// body with HTTP status < 400: the rendering service with JS enabled,
// the same service without rendering, then a direct GET with a browser
// user agent. Outbound calls share a rate limiter.
type ChainFetcher struct {
	firecrawl firecrawl.Client
	direct    *http.Client
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewChainFetcher creates a ChainFetcher. fc may be nil, in which case
// only the direct strategy is attempted.
func NewChainFetcher(fc firecrawl.Client) *ChainFetcher {
	return &ChainFetcher{
		firecrawl: fc,
		direct: &http.Client{
			Timeout: DefaultFetchTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
		now:     time.Now,
	}
}

// WithNow fixes the clock for testing.
func (f *ChainFetcher) WithNow(now func() time.Time) *ChainFetcher {
	f.now = now
	return f
}

type fetchStrategy struct {
	name string
	run  func(ctx context.Context) (model.FetchedPage, bool)
}

// Fetch walks the fallback chain and returns the first usable page.
func (f *ChainFetcher) Fetch(ctx context.Context, url string, renderJS bool, timeout time.Duration) model.FetchedPage {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	var strategies []fetchStrategy
	if f.firecrawl != nil {
		if renderJS {
			strategies = append(strategies, fetchStrategy{
				name: "firecrawl_render",
				run: func(ctx context.Context) (model.FetchedPage, bool) {
					return f.fetchFirecrawl(ctx, url, true, timeout)
				},
			})
		}
		strategies = append(strategies, fetchStrategy{
			name: "firecrawl_raw",
			run: func(ctx context.Context) (model.FetchedPage, bool) {
				return f.fetchFirecrawl(ctx, url, false, timeout)
			},
		})
	}
	strategies = append(strategies, fetchStrategy{
		name: "direct_http",
		run: func(ctx context.Context) (model.FetchedPage, bool) {
			return f.fetchDirect(ctx, url, timeout)
		},
	})

	for _, s := range strategies {
		if err := f.limiter.Wait(ctx); err != nil {
			break
		}
		page, ok := s.run(ctx)
		if ok {
			zap.L().Debug("research: fetch succeeded",
				zap.String("strategy", s.name),
				zap.String("url", url),
				zap.Int("status", page.StatusCode),
			)
			return page
		}
		zap.L().Debug("research: fetch strategy failed, trying next",
			zap.String("strategy", s.name),
			zap.String("url", url),
		)
	}

	// Sentinel: all strategies exhausted. Not an error for callers.
	return model.FetchedPage{URL: url, StatusCode: 0, FetchedAt: f.now().UTC()}
}

func (f *ChainFetcher) fetchFirecrawl(ctx context.Context, url string, render bool, timeout time.Duration) (model.FetchedPage, bool) {
	req := firecrawl.ScrapeRequest{
		URL:     url,
		Timeout: int(timeout.Milliseconds()),
	}
	if render {
		req.Formats = []string{"html"}
		req.WaitFor = renderWaitMillis
	} else {
		req.Formats = []string{"rawHtml"}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.firecrawl.Scrape(ctx, req)
	if err != nil {
		zap.L().Debug("research: firecrawl scrape failed",
			zap.String("url", url),
			zap.Bool("render", render),
			zap.Error(err),
		)
		return model.FetchedPage{}, false
	}

	html := resp.Data.HTML
	if html == "" {
		html = resp.Data.RawHTML
	}
	status := resp.Data.StatusCode
	if status == 0 {
		status = resp.Data.Metadata.StatusCode
	}

	if !resp.Success || html == "" || status >= 400 {
		return model.FetchedPage{}, false
	}

	return model.FetchedPage{
		URL:        url,
		StatusCode: status,
		HTML:       html,
		FetchedAt:  f.now().UTC(),
	}, true
}

func (f *ChainFetcher) fetchDirect(ctx context.Context, url string, timeout time.Duration) (model.FetchedPage, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.FetchedPage{}, false
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.direct.Do(req)
	if err != nil {
		zap.L().Debug("research: direct fetch failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return model.FetchedPage{}, false
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil || len(body) == 0 || resp.StatusCode >= 400 {
		return model.FetchedPage{}, false
	}

	return model.FetchedPage{
		URL:        url,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
		FetchedAt:  f.now().UTC(),
	}, true
}
