package model

import "time"

// SearchQuery is a single targeted web search with its research intent.
type SearchQuery struct {
	Text   string `json:"text"`
	Intent string `json:"intent,omitempty"`
}

// WebSearchResult is one ranked search hit. Snippet is frequently empty
// because citation-based search backends return URLs without
// descriptions.
type WebSearchResult struct {
	Title   string  `json:"title,omitempty"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet,omitempty"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// FetchedPage is the outcome of one page fetch. A StatusCode of 0 is
// the sentinel for "all fetch strategies exhausted", not an HTTP status;
// callers treat it as "no content available" rather than an error.
type FetchedPage struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	HTML       string    `json:"html"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Empty reports whether the fetch produced no usable content.
func (p FetchedPage) Empty() bool {
	return p.StatusCode == 0 || p.HTML == ""
}

// ParsedPage is normalized page content extracted from raw HTML.
type ParsedPage struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Headings   []string `json:"headings"`
	Paragraphs []string `json:"paragraphs"`
	WordCount  int      `json:"word_count"`
	Source     string   `json:"source,omitempty"`
}

// Contacts holds best-effort contact details found in page markup.
// Each category is capped at three entries.
type Contacts struct {
	Emails    []string `json:"emails"`
	Phones    []string `json:"phones"`
	Addresses []string `json:"addresses"`
}

// BusinessInfo is the combined output of content extraction for one page.
type BusinessInfo struct {
	Contacts        Contacts `json:"contacts"`
	BusinessContent string   `json:"business_content"`
	Headings        []string `json:"headings"`
	Paragraphs      []string `json:"paragraphs"`
	Title           string   `json:"title"`
	SourceURL       string   `json:"source_url"`
	ContentLength   int      `json:"content_length"`
}
