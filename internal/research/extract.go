package research

import (
	"regexp"
	"strings"

	"github.com/sells-group/onboard-cli/internal/model"
)

// contactCap limits how many matches are kept per contact category.
const contactCap = 3

// Extractor turns raw HTML into normalized content plus best-effort
// business contact details. It never fails: malformed HTML yields at
// minimum whatever title can be recovered.
type Extractor interface {
	ExtractBusinessInfo(html, sourceURL string) *model.BusinessInfo
}

// HTMLExtractor is the regex-based extractor. The permissive patterns
// absorb broken markup instead of rejecting it.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

var (
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	headingRe = regexp.MustCompile(`(?is)<h[1-6][^>]*>(.*?)</h[1-6]>`)
	paraRe    = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	spaceRe   = regexp.MustCompile(`\s+`)

	// Contact patterns run over the raw markup: contact details often
	// live in href attributes and footer boilerplate that content
	// extraction strips.
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	// Street addresses: number + name + a common street suffix.
	addressRe = regexp.MustCompile(`(?i)\d{1,5}\s+[A-Za-z0-9.\- ]{2,40}\s(?:Street|St|Avenue|Ave|Boulevard|Blvd|Drive|Dr|Road|Rd|Lane|Ln|Way|Court|Ct|Suite|Ste)\.?\b[^,<\n]{0,40}`)
)

// ExtractBusinessInfo parses page structure (title, headings,
// paragraphs) from html and scans the raw markup for contact details,
// capping each category at three entries.
func (e *HTMLExtractor) ExtractBusinessInfo(html, sourceURL string) *model.BusinessInfo {
	page := parsePage(html, sourceURL)

	info := &model.BusinessInfo{
		Contacts: model.Contacts{
			Emails:    capped(dedupeStrings(emailRe.FindAllString(html, -1))),
			Phones:    capped(dedupeStrings(phoneRe.FindAllString(html, -1))),
			Addresses: capped(dedupeStrings(addressRe.FindAllString(html, -1))),
		},
		BusinessContent: page.Text,
		Headings:        page.Headings,
		Paragraphs:      page.Paragraphs,
		Title:           page.Title,
		SourceURL:       sourceURL,
		ContentLength:   len(page.Text),
	}
	return info
}

// parsePage extracts the title, headings, and paragraph text from HTML,
// with scripts and styles stripped first.
func parsePage(html, sourceURL string) model.ParsedPage {
	page := model.ParsedPage{URL: sourceURL}

	if m := titleRe.FindStringSubmatch(html); len(m) > 1 {
		page.Title = cleanFragment(m[1])
	}

	// Drop script/style/noscript blocks before structural extraction so
	// inline JS strings are not mistaken for content.
	stripped := html
	for _, tag := range []string{"script", "style", "noscript"} {
		re := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		stripped = re.ReplaceAllString(stripped, "")
	}

	for _, m := range headingRe.FindAllStringSubmatch(stripped, -1) {
		if h := cleanFragment(m[1]); h != "" {
			page.Headings = append(page.Headings, h)
		}
	}

	for _, m := range paraRe.FindAllStringSubmatch(stripped, -1) {
		if p := cleanFragment(m[1]); p != "" {
			page.Paragraphs = append(page.Paragraphs, p)
		}
	}

	var parts []string
	parts = append(parts, page.Headings...)
	parts = append(parts, page.Paragraphs...)
	page.Text = strings.Join(parts, "\n")
	page.WordCount = len(strings.Fields(page.Text))
	return page
}

// cleanFragment strips nested tags, decodes common entities, and
// collapses whitespace in an extracted HTML fragment.
func cleanFragment(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	s = r.Replace(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func capped(in []string) []string {
	if len(in) > contactCap {
		return in[:contactCap]
	}
	return in
}
