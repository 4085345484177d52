package model

import "github.com/rotisserie/eris"

// ChecklistResponse is the required shape for the combined initial
// checklist generation call: the checklist entries plus the research
// content basis text they were derived from.
type ChecklistResponse struct {
	Checklist       []RawChecklistItem `json:"checklist"`
	ResearchContent string             `json:"research_content"`
}

// Validate rejects an empty checklist. An empty result from the LLM is
// a recoverable failure that triggers a retry, never a usable state.
func (r *ChecklistResponse) Validate() error {
	if len(r.Checklist) == 0 {
		return eris.New("model: checklist response has no items")
	}
	return nil
}

// GenerateSearchQueriesResponse carries 1-3 targeted search queries.
type GenerateSearchQueriesResponse struct {
	Queries []SearchQuery `json:"queries"`
}

// Validate requires at least one non-empty query.
func (r *GenerateSearchQueriesResponse) Validate() error {
	if len(r.Queries) == 0 {
		return eris.New("model: search queries response has no queries")
	}
	for _, q := range r.Queries {
		if q.Text == "" {
			return eris.New("model: search queries response has empty query text")
		}
	}
	return nil
}

// RerankResponse is an ordered URL list expressing relevance ranking.
type RerankResponse struct {
	URLs []string `json:"urls"`
}

// Validate requires a non-empty ranking.
func (r *RerankResponse) Validate() error {
	if len(r.URLs) == 0 {
		return eris.New("model: rerank response has no urls")
	}
	return nil
}

// ProposedModification is one checklist addition or removal proposed
// during checklist customization.
type ProposedModification struct {
	Key      string `json:"key"`
	Question string `json:"question,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Type     string `json:"type,omitempty"`
}

// ExtractChecklistModificationsResponse is the modification set proposed
// by the LLM during checklist customization.
type ExtractChecklistModificationsResponse struct {
	MandatoryAdditions   []ProposedModification `json:"mandatory_additions"`
	RecommendedAdditions []ProposedModification `json:"recommended_additions"`
	ItemsToRemove        []ProposedModification `json:"items_to_remove"`
}

// Validate requires every proposed entry to carry a key. An empty
// modification set is valid: it means the checklist already fits.
func (r *ExtractChecklistModificationsResponse) Validate() error {
	for _, group := range [][]ProposedModification{
		r.MandatoryAdditions, r.RecommendedAdditions, r.ItemsToRemove,
	} {
		for _, m := range group {
			if Slugify(m.Key) == "" {
				return eris.New("model: modification entry missing key")
			}
		}
	}
	return nil
}

// ExtractAnswerFromContentResponse is a candidate answer extracted from
// researched page content. Value may be empty when the content does not
// answer the question; Confidence is then expected to be low.
type ExtractAnswerFromContentResponse struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
	Evidence   string  `json:"evidence,omitempty"`
}

// Validate bounds-checks the confidence score.
func (r *ExtractAnswerFromContentResponse) Validate() error {
	if r.Confidence < 0 || r.Confidence > 1 {
		return eris.Errorf("model: answer confidence %.3f out of range [0,1]", r.Confidence)
	}
	return nil
}

// TextResponse is a generic single-string LLM output used for
// clarifying questions and confirmation prompts.
type TextResponse struct {
	Text string `json:"text"`
}

// Validate requires non-empty text.
func (r *TextResponse) Validate() error {
	if r.Text == "" {
		return eris.New("model: text response is empty")
	}
	return nil
}

// ProfileSummaryResponse is a condensed provider profile summary used as
// search context.
type ProfileSummaryResponse struct {
	Summary string `json:"summary"`
}

// Validate requires a non-empty summary.
func (r *ProfileSummaryResponse) Validate() error {
	if r.Summary == "" {
		return eris.New("model: profile summary is empty")
	}
	return nil
}
