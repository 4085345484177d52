package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/llm"
	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/internal/onboarding"
	"github.com/sells-group/onboard-cli/internal/research"
	"github.com/sells-group/onboard-cli/internal/store"
	"github.com/sells-group/onboard-cli/pkg/anthropic"
	"github.com/sells-group/onboard-cli/pkg/firecrawl"
	"github.com/sells-group/onboard-cli/pkg/jina"
	"github.com/sells-group/onboard-cli/pkg/perplexity"
)

func openStore(ctx context.Context) (store.SessionStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "cmd: open session store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "cmd: migrate session store")
	}
	return st, nil
}

func buildManager() (*onboarding.Manager, error) {
	policy := onboarding.DefaultPolicy()
	if cfg.Research.PolicyPath != "" {
		loaded, err := onboarding.LoadPolicy(cfg.Research.PolicyPath)
		if err != nil {
			return nil, eris.Wrap(err, "cmd: load research policy")
		}
		policy = loaded
	}

	claude := llm.NewClaude(anthropic.NewClient(cfg.Anthropic.Key), llm.Models{
		Fast: cfg.Anthropic.FastModel,
		Deep: cfg.Anthropic.DeepModel,
	})
	px := perplexity.NewClient(cfg.Perplexity.Key,
		perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
		perplexity.WithModel(cfg.Perplexity.Model))
	jn := jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.SearchBaseURL))
	fc := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))

	return onboarding.New(
		claude,
		research.NewWebSearcher(px, jn),
		research.NewChainFetcher(fc),
		research.NewHTMLExtractor(),
		policy,
	), nil
}

// sessionOutcome is the compact per-invocation view printed to stdout.
// The full state lives in the store; this surfaces only what the
// operator needs to act on next.
type sessionOutcome struct {
	SessionID            string                      `json:"session_id"`
	Status               model.WorkflowStatus        `json:"status"`
	Decision             model.WorkflowDecision      `json:"decision"`
	CompletionRate       float64                     `json:"completion_rate"`
	Question             string                      `json:"question,omitempty"`
	QuestionKey          string                      `json:"question_key,omitempty"`
	PendingConfirmations []model.PendingConfirmation `json:"pending_confirmations,omitempty"`
	EscalationReason     string                      `json:"escalation_reason,omitempty"`
}

func summarize(state *model.OnboardingState, decision model.WorkflowDecision) sessionOutcome {
	out := sessionOutcome{
		SessionID:        state.SessionID,
		Status:           state.WorkflowStatus,
		Decision:         decision,
		CompletionRate:   state.CompletionMetrics.CompletionRate,
		EscalationReason: state.EscalationReason,
	}
	if state.AwaitingResponse {
		out.Question = state.LastQuestion
		out.QuestionKey = state.LastQuestionKey
	}
	if state.AwaitingConfirmation {
		out.PendingConfirmations = state.PendingConfirmations
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// advance drives the session forward until it suspends on a question or
// confirmation, or reaches a terminal status. State is persisted after
// each phase so a crash loses at most one transition.
func advance(ctx context.Context, m *onboarding.Manager, st store.SessionStore, state *model.OnboardingState) (model.WorkflowDecision, error) {
	if !state.ChecklistResearchCompleted && !state.WorkflowStatus.Terminal() {
		decision := m.RunChecklistResearch(ctx, state)
		zap.L().Info("checklist research finished",
			zap.String("session_id", state.SessionID),
			zap.String("decision", string(decision)))
		if err := st.SaveSession(ctx, state); err != nil {
			return "", eris.Wrap(err, "cmd: save session")
		}
	}

	decision := m.RunAnswerGathering(ctx, state)
	if err := st.SaveSession(ctx, state); err != nil {
		return "", eris.Wrap(err, "cmd: save session")
	}
	return decision, nil
}
