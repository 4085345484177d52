package onboarding

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/onboard-cli/internal/model"
)

// Policy tunes the answer-gathering decisions: when research is worth
// attempting, when an extracted answer is trusted enough to auto-fill,
// and how many attempts a single item gets before escalation.
type Policy struct {
	// ConfidenceThreshold is the minimum extraction confidence for an
	// auto-filled answer. Below it the workflow asks the provider
	// directly instead.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// MaxItemAttempts bounds question/research attempts per item.
	// A required item that exhausts the budget escalates the session.
	MaxItemAttempts int `yaml:"max_item_attempts"`

	// SearchResults caps results requested per search query.
	SearchResults int `yaml:"search_results"`

	// MaxPagesPerItem caps candidate pages fetched for one item.
	MaxPagesPerItem int `yaml:"max_pages_per_item"`

	// FetchConcurrency bounds parallel page fetches for one item.
	FetchConcurrency int `yaml:"fetch_concurrency"`

	// PersonalTopics are key/prompt markers for facts that only the
	// provider can answer. Matching items skip research entirely.
	PersonalTopics []string `yaml:"personal_topics"`
}

// DefaultPolicy returns the built-in research policy.
func DefaultPolicy() Policy {
	return Policy{
		ConfidenceThreshold: 0.7,
		MaxItemAttempts:     3,
		SearchResults:       5,
		MaxPagesPerItem:     3,
		FetchConcurrency:    3,
		PersonalTopics: []string{
			"preference", "preferred", "password", "username",
			"bank", "routing", "ssn", "tax_id",
			"emergency_contact", "availability", "schedule",
		},
	}
}

// LoadPolicy reads a research policy from a YAML file. Missing values
// fall back to the defaults.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, eris.Wrapf(err, "onboarding: read policy %s", path)
	}

	// The YAML has a top-level "research" key.
	var wrapper struct {
		Research Policy `yaml:"research"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Policy{}, eris.Wrap(err, "onboarding: parse policy")
	}

	p := wrapper.Research
	defaults := DefaultPolicy()
	if p.ConfidenceThreshold <= 0 || p.ConfidenceThreshold > 1 {
		p.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if p.MaxItemAttempts <= 0 {
		p.MaxItemAttempts = defaults.MaxItemAttempts
	}
	if p.SearchResults <= 0 {
		p.SearchResults = defaults.SearchResults
	}
	if p.MaxPagesPerItem <= 0 {
		p.MaxPagesPerItem = defaults.MaxPagesPerItem
	}
	if p.FetchConcurrency <= 0 {
		p.FetchConcurrency = defaults.FetchConcurrency
	}
	if len(p.PersonalTopics) == 0 {
		p.PersonalTopics = defaults.PersonalTopics
	}
	return p, nil
}

// ResearchEligible reports whether the item plausibly has a
// public-record answer. Personal and preference facts go straight to
// direct questioning.
func (p Policy) ResearchEligible(item model.ChecklistItem) bool {
	key := strings.ToLower(item.Key)
	prompt := strings.ToLower(item.Prompt)
	for _, topic := range p.PersonalTopics {
		if strings.Contains(key, topic) || strings.Contains(prompt, topic) {
			return false
		}
	}
	return true
}
