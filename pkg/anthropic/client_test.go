package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 500_000}

	assert.InDelta(t, 0.80+2.00, usage.EstimateCost("claude-haiku-4-5-20251001"), 1e-9)
	assert.InDelta(t, 3.00+7.50, usage.EstimateCost("claude-sonnet-4-5-20250929"), 1e-9)
	assert.Zero(t, usage.EstimateCost("unknown-model"))
}

func TestToSDKMessages(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "", Content: "fallback is user"},
	})
	assert.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}
