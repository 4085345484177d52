// Package llm provides the reasoning adapter: every structured-output
// call the onboarding workflow makes, validated against the schema
// layer before the result is consumed. Malformed output is treated as
// a transient failure and retried; only exhausted retries surface to
// the caller, which then degrades to its next-safest decision.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/internal/resilience"
	"github.com/sells-group/onboard-cli/pkg/anthropic"
)

// Reasoner is the set of structured reasoning operations the workflow
// depends on.
type Reasoner interface {
	GenerateChecklist(ctx context.Context, profileText string) (*model.ChecklistResponse, error)
	GenerateSearchQueries(ctx context.Context, intent, providerContext string) (*model.GenerateSearchQueriesResponse, error)
	RerankURLs(ctx context.Context, intent string, urls []string) (*model.RerankResponse, error)
	ExtractChecklistModifications(ctx context.Context, checklist []model.ChecklistItem, findings []model.ResearchFinding) (*model.ExtractChecklistModificationsResponse, error)
	ExtractAnswerFromContent(ctx context.Context, question, content string) (*model.ExtractAnswerFromContentResponse, error)
	ClarifyingText(ctx context.Context, situation string) (*model.TextResponse, error)
	SummarizeProfile(ctx context.Context, profileText string) (*model.ProfileSummaryResponse, error)
}

// Models selects which model serves each class of call.
type Models struct {
	// Fast serves cheap high-volume calls: queries, reranking, text.
	Fast string
	// Deep serves checklist generation, modification review, and
	// answer extraction.
	Deep string
}

// Claude is the anthropic-backed Reasoner.
type Claude struct {
	client anthropic.Client
	models Models
	retry  resilience.Policy
}

// NewClaude creates a Claude reasoner with the default retry policy.
func NewClaude(client anthropic.Client, models Models) *Claude {
	return &Claude{
		client: client,
		models: models,
		retry:  resilience.DefaultPolicy(),
	}
}

// validated is implemented by every structured response shape.
type validated interface {
	Validate() error
}

// maxContentChars truncates page content fed into extraction prompts.
const maxContentChars = 12000

// callStructured runs one structured-output call: prompt the model,
// strip code fences, unmarshal into T, validate. Parse and validation
// failures are transient (a fresh sample may parse); the retry policy
// decides when to give up.
func callStructured[T validated](ctx context.Context, c *Claude, step, modelID, system, prompt string) (T, error) {
	policy := c.retry
	policy.OnRetry = resilience.LogRetries("anthropic", step)

	return resilience.DoVal(ctx, policy, func(ctx context.Context) (T, error) {
		var out T

		resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     modelID,
			MaxTokens: 2048,
			System:    system,
			Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		})
		if err != nil {
			return out, err
		}
		resp.Usage.LogCost(modelID, step)

		cleaned := cleanJSON(resp.Text)
		if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
			return out, resilience.Transient(
				eris.Wrapf(err, "llm: %s returned unparseable JSON", step), 0)
		}
		if err := out.Validate(); err != nil {
			return out, resilience.Transient(
				eris.Wrapf(err, "llm: %s returned invalid shape", step), 0)
		}
		return out, nil
	})
}

func (c *Claude) GenerateChecklist(ctx context.Context, profileText string) (*model.ChecklistResponse, error) {
	return callStructured[*model.ChecklistResponse](ctx, c, "generate_checklist",
		c.models.Deep, checklistSystemText,
		fmt.Sprintf(generateChecklistPrompt, profileText))
}

func (c *Claude) GenerateSearchQueries(ctx context.Context, intent, providerContext string) (*model.GenerateSearchQueriesResponse, error) {
	return callStructured[*model.GenerateSearchQueriesResponse](ctx, c, "generate_search_queries",
		c.models.Fast, "",
		fmt.Sprintf(generateQueriesPrompt, intent, providerContext))
}

func (c *Claude) RerankURLs(ctx context.Context, intent string, urls []string) (*model.RerankResponse, error) {
	return callStructured[*model.RerankResponse](ctx, c, "rerank_urls",
		c.models.Fast, "",
		fmt.Sprintf(rerankPrompt, intent, strings.Join(urls, "\n")))
}

func (c *Claude) ExtractChecklistModifications(ctx context.Context, checklist []model.ChecklistItem, findings []model.ResearchFinding) (*model.ExtractChecklistModificationsResponse, error) {
	return callStructured[*model.ExtractChecklistModificationsResponse](ctx, c, "extract_checklist_modifications",
		c.models.Deep, modificationsSystemText,
		fmt.Sprintf(extractModificationsPrompt, formatChecklist(checklist), formatFindings(findings)))
}

func (c *Claude) ExtractAnswerFromContent(ctx context.Context, question, content string) (*model.ExtractAnswerFromContentResponse, error) {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return callStructured[*model.ExtractAnswerFromContentResponse](ctx, c, "extract_answer",
		c.models.Deep, "",
		fmt.Sprintf(extractAnswerPrompt, question, content))
}

func (c *Claude) ClarifyingText(ctx context.Context, situation string) (*model.TextResponse, error) {
	return callStructured[*model.TextResponse](ctx, c, "clarifying_text",
		c.models.Fast, "",
		fmt.Sprintf(clarifyingPrompt, situation))
}

func (c *Claude) SummarizeProfile(ctx context.Context, profileText string) (*model.ProfileSummaryResponse, error) {
	return callStructured[*model.ProfileSummaryResponse](ctx, c, "summarize_profile",
		c.models.Fast, "",
		fmt.Sprintf(summarizePrompt, profileText))
}

// formatChecklist renders checklist items for a review prompt.
func formatChecklist(items []model.ChecklistItem) string {
	var b strings.Builder
	for _, item := range items {
		kind := "optional"
		if item.Required {
			kind = "required"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", item.Key, kind, item.Prompt)
	}
	return b.String()
}

// formatFindings renders research findings for a review prompt.
func formatFindings(findings []model.ResearchFinding) string {
	if len(findings) == 0 {
		return "(no research findings)"
	}
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "--- %s (%s)\n%s\n", f.Title, f.URL, f.Content)
	}
	return b.String()
}

// cleanJSON strips markdown code fences and surrounding prose so the
// result starts at the first '{' and ends at the last '}'.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			return text[start : end+1]
		}
	}
	return text
}
