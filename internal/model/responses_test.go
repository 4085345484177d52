package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecklistResponseValidate(t *testing.T) {
	r := &ChecklistResponse{}
	assert.Error(t, r.Validate())

	r.Checklist = []RawChecklistItem{{Key: "license_number"}}
	assert.NoError(t, r.Validate())
}

func TestGenerateSearchQueriesResponseValidate(t *testing.T) {
	r := &GenerateSearchQueriesResponse{}
	assert.Error(t, r.Validate())

	r.Queries = []SearchQuery{{Text: ""}}
	assert.Error(t, r.Validate())

	r.Queries = []SearchQuery{{Text: "acme plumbing austin license", Intent: "license_number"}}
	assert.NoError(t, r.Validate())
}

func TestExtractChecklistModificationsResponseValidate(t *testing.T) {
	// Empty modification sets are valid: the checklist already fits.
	r := &ExtractChecklistModificationsResponse{}
	assert.NoError(t, r.Validate())

	r.MandatoryAdditions = []ProposedModification{{Key: "  "}}
	assert.Error(t, r.Validate())

	r.MandatoryAdditions = []ProposedModification{{Key: "insurance_carrier", Question: "Who insures you?"}}
	r.ItemsToRemove = []ProposedModification{{Key: "fax_number", Reason: "obsolete"}}
	assert.NoError(t, r.Validate())
}

func TestExtractAnswerFromContentResponseValidate(t *testing.T) {
	r := &ExtractAnswerFromContentResponse{Value: "TX-12345", Confidence: 0.8}
	assert.NoError(t, r.Validate())

	r.Confidence = 1.2
	assert.Error(t, r.Validate())

	r.Confidence = -0.1
	assert.Error(t, r.Validate())

	// A no-answer result with zero confidence is still a valid shape.
	r = &ExtractAnswerFromContentResponse{Confidence: 0}
	assert.NoError(t, r.Validate())
}

func TestTextAndSummaryValidate(t *testing.T) {
	assert.Error(t, (&TextResponse{}).Validate())
	assert.NoError(t, (&TextResponse{Text: "Could you confirm your license number?"}).Validate())

	assert.Error(t, (&ProfileSummaryResponse{}).Validate())
	assert.NoError(t, (&ProfileSummaryResponse{Summary: "Residential plumber in Austin."}).Validate())
}

func TestFetchedPageEmpty(t *testing.T) {
	assert.True(t, FetchedPage{StatusCode: 0}.Empty())
	assert.True(t, FetchedPage{StatusCode: 200}.Empty(), "no body means no content")
	assert.False(t, FetchedPage{StatusCode: 200, HTML: "<html></html>"}.Empty())
}
