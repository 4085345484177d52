package model

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ItemStatus is the lifecycle status of a checklist item.
type ItemStatus string

const (
	// StatusPending means no answer has been collected yet.
	StatusPending ItemStatus = "pending"
	// StatusAsked means the item's question is in flight to the provider.
	StatusAsked ItemStatus = "asked"
	// StatusVerified means the value came from the provider directly or
	// was confirmed by them after research.
	StatusVerified ItemStatus = "verified"
	// StatusAutoFilled means the value was extracted by research and is
	// awaiting explicit provider confirmation.
	StatusAutoFilled ItemStatus = "auto_filled"
)

// ChecklistItem is one fact to collect about a provider.
//
// Invariant: Value != nil implies Status is verified or auto_filled.
type ChecklistItem struct {
	Key      string     `json:"key"`
	Prompt   string     `json:"prompt"`
	Required bool       `json:"required"`
	Status   ItemStatus `json:"status"`
	Value    *string    `json:"value"`
}

// HasValue reports whether the item carries a collected answer.
func (c ChecklistItem) HasValue() bool {
	return c.Value != nil
}

// Resolved reports whether the item no longer needs gathering work.
func (c ChecklistItem) Resolved() bool {
	return c.Status == StatusVerified || c.Status == StatusAutoFilled
}

// RawChecklistItem is an unvalidated checklist entry as produced by the
// LLM. Keys may be missing or malformed; Normalize coerces it into a
// well-formed ChecklistItem.
type RawChecklistItem struct {
	Key      string `json:"key"`
	Prompt   string `json:"prompt"`
	Required *bool  `json:"required"`
}

var (
	slugInvalidRe  = regexp.MustCompile(`[^a-z0-9_]+`)
	slugCollapseRe = regexp.MustCompile(`_{2,}`)
	promptCaser    = cases.Title(language.English)
)

// Slugify lowercases s and collapses everything that is not [a-z0-9_]
// into single underscores. Returns "" when nothing survives.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRe.ReplaceAllString(s, "_")
	s = slugCollapseRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Normalize coerces a raw LLM checklist entry into a well-formed item.
// A missing key falls back to "info", a missing prompt is synthesized
// from the title-cased key, and required defaults to true. Status and
// value are always forced to their initial pending/nil state so a
// malformed entry is never dropped silently.
func (r RawChecklistItem) Normalize() ChecklistItem {
	key := Slugify(r.Key)
	if key == "" {
		key = "info"
	}

	prompt := strings.TrimSpace(r.Prompt)
	if prompt == "" {
		label := promptCaser.String(strings.ReplaceAll(key, "_", " "))
		prompt = fmt.Sprintf("Could you share your %s?", label)
	}

	required := true
	if r.Required != nil {
		required = *r.Required
	}

	return ChecklistItem{
		Key:      key,
		Prompt:   prompt,
		Required: required,
		Status:   StatusPending,
		Value:    nil,
	}
}

// FindItem returns a pointer to the item with the given key, or nil.
func FindItem(checklist []ChecklistItem, key string) *ChecklistItem {
	for i := range checklist {
		if checklist[i].Key == key {
			return &checklist[i]
		}
	}
	return nil
}

// CompletionRate computes the share of required items that are verified.
// Auto-filled items do not count until the provider confirms them (which
// promotes them to verified). A checklist with no required items is
// complete by definition.
func CompletionRate(checklist []ChecklistItem) float64 {
	var required, verified int
	for _, item := range checklist {
		if !item.Required {
			continue
		}
		required++
		if item.Status == StatusVerified {
			verified++
		}
	}
	if required == 0 {
		return 1.0
	}
	return float64(verified) / float64(required)
}
