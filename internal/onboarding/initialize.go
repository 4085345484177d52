package onboarding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/internal/resilience"
)

const (
	initAttempts = 3
	initBackoff  = time.Second
)

// InitializeState creates a new onboarding session from a provider
// profile. The checklist and its research-content basis come from one
// combined LLM call, retried up to three times with a short backoff; an
// empty checklist counts as a failure. If every attempt fails the error
// propagates and no session state is returned - a silent empty-checklist
// session is never created.
func (m *Manager) InitializeState(ctx context.Context, providerProfile map[string]string) (*model.OnboardingState, error) {
	profileText := strings.TrimSpace(providerProfile["profile_text"])
	if profileText == "" {
		return nil, eris.New("onboarding: provider profile has no profile_text")
	}

	policy := resilience.FixedDelay(initAttempts, initBackoff)
	policy.OnRetry = resilience.LogRetries("onboarding", "initialize_state")

	resp, err := resilience.DoVal(ctx, policy, func(ctx context.Context) (*model.ChecklistResponse, error) {
		return m.llm.GenerateChecklist(ctx, profileText)
	})
	if err != nil {
		return nil, eris.Wrap(err, "onboarding: generate initial checklist")
	}

	checklist := make([]model.ChecklistItem, 0, len(resp.Checklist))
	for _, raw := range resp.Checklist {
		checklist = append(checklist, raw.Normalize())
	}

	researchContent := strings.TrimSpace(resp.ResearchContent)
	if researchContent == "" {
		// Both research phases need a profile digest as query context.
		summary, sumErr := m.llm.SummarizeProfile(ctx, profileText)
		if sumErr != nil {
			zap.L().Warn("onboarding: profile summary failed, using raw profile",
				zap.Error(sumErr))
			researchContent = profileText
		} else {
			researchContent = summary.Summary
		}
	}

	now := model.Timestamp(m.now())
	state := &model.OnboardingState{
		SessionID:       uuid.NewString(),
		ProviderProfile: cloneMap(providerProfile),
		UserProfile:     map[string]string{},

		Checklist:       checklist,
		ResearchContent: researchContent,

		ResearchAnswers:         map[string]string{},
		AnswerEvaluationResults: map[string]string{},
		SessionMetadata:         map[string]string{},

		StartedAt:    now,
		LastActivity: now,

		WorkflowStatus: model.WorkflowInitialized,
	}
	state.RecomputeMetrics()

	zap.L().Info("onboarding: session initialized",
		zap.String("session_id", state.SessionID),
		zap.Int("checklist_items", len(state.Checklist)),
	)
	return state, nil
}

func cloneMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
