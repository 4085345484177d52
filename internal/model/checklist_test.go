package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"License Number", "license_number"},
		{"  annual-revenue  ", "annual_revenue"},
		{"ALREADY_GOOD", "already_good"},
		{"what's your NAICS code?", "what_s_your_naics_code"},
		{"___", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestRawChecklistItemNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  RawChecklistItem
		want ChecklistItem
	}{
		{
			name: "well formed",
			raw:  RawChecklistItem{Key: "license_number", Prompt: "What is your license number?", Required: boolPtr(true)},
			want: ChecklistItem{Key: "license_number", Prompt: "What is your license number?", Required: true, Status: StatusPending},
		},
		{
			name: "missing key falls back to info",
			raw:  RawChecklistItem{Prompt: "Tell us more"},
			want: ChecklistItem{Key: "info", Prompt: "Tell us more", Required: true, Status: StatusPending},
		},
		{
			name: "missing prompt synthesized from key",
			raw:  RawChecklistItem{Key: "annual_revenue"},
			want: ChecklistItem{Key: "annual_revenue", Prompt: "Could you share your Annual Revenue?", Required: true, Status: StatusPending},
		},
		{
			name: "optional stays optional",
			raw:  RawChecklistItem{Key: "team_size", Prompt: "How many people work with you?", Required: boolPtr(false)},
			want: ChecklistItem{Key: "team_size", Prompt: "How many people work with you?", Required: false, Status: StatusPending},
		},
		{
			name: "noisy key slugged",
			raw:  RawChecklistItem{Key: "Service Area (miles)", Prompt: "Coverage?"},
			want: ChecklistItem{Key: "service_area_miles", Prompt: "Coverage?", Required: true, Status: StatusPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.raw.Normalize()
			assert.Equal(t, tt.want, got)
			assert.Nil(t, got.Value, "normalized items always start without a value")
		})
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		checklist []ChecklistItem
		want      float64
	}{
		{
			name: "no required items is complete",
			checklist: []ChecklistItem{
				{Key: "a", Required: false, Status: StatusPending},
			},
			want: 1.0,
		},
		{
			name:      "empty checklist is complete",
			checklist: nil,
			want:      1.0,
		},
		{
			name: "half verified",
			checklist: []ChecklistItem{
				{Key: "a", Required: true, Status: StatusVerified, Value: strPtr("x")},
				{Key: "b", Required: true, Status: StatusPending},
			},
			want: 0.5,
		},
		{
			name: "auto filled does not count until confirmed",
			checklist: []ChecklistItem{
				{Key: "a", Required: true, Status: StatusAutoFilled, Value: strPtr("x")},
				{Key: "b", Required: true, Status: StatusVerified, Value: strPtr("y")},
			},
			want: 0.5,
		},
		{
			name: "optional items ignored",
			checklist: []ChecklistItem{
				{Key: "a", Required: true, Status: StatusVerified, Value: strPtr("x")},
				{Key: "b", Required: false, Status: StatusPending},
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompletionRate(tt.checklist), 1e-9)
		})
	}
}

func TestFindItem(t *testing.T) {
	checklist := []ChecklistItem{
		{Key: "a"},
		{Key: "b"},
	}
	require.NotNil(t, FindItem(checklist, "b"))
	assert.Equal(t, "b", FindItem(checklist, "b").Key)
	assert.Nil(t, FindItem(checklist, "missing"))

	// The pointer aliases the slice so mutations stick.
	FindItem(checklist, "a").Status = StatusVerified
	assert.Equal(t, StatusVerified, checklist[0].Status)
}

func TestValueStatusInvariant(t *testing.T) {
	// A normalized item never violates the value/status invariant, and
	// the resolved statuses are exactly the ones allowed to carry values.
	item := RawChecklistItem{Key: "x"}.Normalize()
	assert.False(t, item.HasValue())
	assert.False(t, item.Resolved())

	item.Status = StatusVerified
	item.Value = strPtr("answer")
	assert.True(t, item.HasValue())
	assert.True(t, item.Resolved())
}
