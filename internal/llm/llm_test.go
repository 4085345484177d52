package llm

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/internal/resilience"
	"github.com/sells-group/onboard-cli/pkg/anthropic"
)

// scriptedClient returns canned responses in order, then repeats the last.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	requests  []anthropic.MessageRequest
}

func (s *scriptedClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	i := s.calls
	s.calls++
	s.requests = append(s.requests, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	text := ""
	if len(s.responses) > 0 {
		if i >= len(s.responses) {
			i = len(s.responses) - 1
		}
		text = s.responses[i]
	}
	return &anthropic.MessageResponse{Text: text, Model: req.Model}, nil
}

func testClaude(client anthropic.Client) *Claude {
	c := NewClaude(client, Models{Fast: "fast-model", Deep: "deep-model"})
	c.retry = resilience.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		Multiplier:  1.0,
	}
	return c
}

func TestGenerateChecklist(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"```json\n{\"checklist\": [{\"key\": \"license_number\", \"prompt\": \"License?\", \"required\": true}], \"research_content\": \"Austin plumber.\"}\n```",
	}}

	resp, err := testClaude(client).GenerateChecklist(context.Background(), "profile text")
	require.NoError(t, err)
	require.Len(t, resp.Checklist, 1)
	assert.Equal(t, "license_number", resp.Checklist[0].Key)
	assert.Equal(t, "Austin plumber.", resp.ResearchContent)
	assert.Equal(t, "deep-model", client.requests[0].Model)
}

func TestMalformedOutputRetriedThenSucceeds(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"sorry, here is prose instead of JSON",
		"{\"checklist\": [], \"research_content\": \"x\"}", // parses but fails validation
		"{\"checklist\": [{\"key\": \"hours\"}], \"research_content\": \"x\"}",
	}}

	resp, err := testClaude(client).GenerateChecklist(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, 3, client.calls)
	assert.Len(t, resp.Checklist, 1)
}

func TestMalformedOutputExhaustsRetries(t *testing.T) {
	client := &scriptedClient{responses: []string{"not json at all"}}

	_, err := testClaude(client).GenerateChecklist(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, 3, client.calls, "retried to the attempt cap")
}

func TestTransportErrorRetried(t *testing.T) {
	client := &scriptedClient{
		errs:      []error{resilience.Transient(eris.New("overloaded"), 529), nil},
		responses: []string{"", "{\"queries\": [{\"text\": \"acme license\"}]}"},
	}

	resp, err := testClaude(client).GenerateSearchQueries(context.Background(), "license", "ctx")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "acme license", resp.Queries[0].Text)
}

func TestNonTransientErrorNotRetried(t *testing.T) {
	client := &scriptedClient{errs: []error{eris.New("invalid api key")}}

	_, err := testClaude(client).GenerateSearchQueries(context.Background(), "i", "c")
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestExtractAnswerTruncatesContent(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"{\"value\": \"TX-12345\", \"confidence\": 0.9, \"evidence\": \"license TX-12345\"}",
	}}

	long := make([]byte, maxContentChars*2)
	for i := range long {
		long[i] = 'a'
	}

	resp, err := testClaude(client).ExtractAnswerFromContent(context.Background(), "License?", string(long))
	require.NoError(t, err)
	assert.Equal(t, "TX-12345", resp.Value)
	assert.Less(t, len(client.requests[0].Messages[0].Content), maxContentChars+500)
}

func TestRerankURLs(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"{\"urls\": [\"https://b.example\", \"https://a.example\"]}",
	}}

	resp, err := testClaude(client).RerankURLs(context.Background(), "License?",
		[]string{"https://a.example", "https://b.example"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.example", "https://a.example"}, resp.URLs)
	assert.Equal(t, "fast-model", client.requests[0].Model)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\": 1}", "{\"a\": 1}"},
		{"```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"Here you go:\n{\"a\": 1}\nHope that helps!", "{\"a\": 1}"},
		{"no braces here", "no braces here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanJSON(tt.in))
	}
}

func TestFormatChecklist(t *testing.T) {
	out := formatChecklist([]model.ChecklistItem{
		{Key: "a", Prompt: "A?", Required: true},
		{Key: "b", Prompt: "B?", Required: false},
	})
	assert.Contains(t, out, "- a (required): A?")
	assert.Contains(t, out, "- b (optional): B?")
}
