package onboarding

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/model"
)

// HandleUserResponse resumes a session suspended on a question. The
// response verifies the outstanding item and clears the conversation
// cursor; an empty response re-asks instead. The context parameter is
// unused today but keeps the transition surface uniform.
func (m *Manager) HandleUserResponse(_ context.Context, state *model.OnboardingState, response string) (model.WorkflowDecision, error) {
	if !state.AwaitingResponse {
		return "", eris.New("onboarding: no question is awaiting a response")
	}
	item := model.FindItem(state.Checklist, state.LastQuestionKey)
	if item == nil {
		return "", eris.Errorf("onboarding: outstanding question key %q not in checklist", state.LastQuestionKey)
	}

	value := strings.TrimSpace(response)
	if value == "" {
		state.ResearchEvaluationDecision = model.DecisionAskClarifyingQuestion
		state.Touch(m.now())
		return model.DecisionAskClarifyingQuestion, nil
	}

	item.Status = model.StatusVerified
	item.Value = &value
	state.LastUserResponse = response
	state.AwaitingResponse = false
	state.RecomputeMetrics()
	state.Touch(m.now())

	zap.L().Info("onboarding: response recorded",
		zap.String("session_id", state.SessionID),
		zap.String("key", item.Key),
	)

	if d := m.finishIfDone(state); d != "" {
		return d, nil
	}
	state.WorkflowStatus = model.WorkflowResearchingAnswers
	state.ResearchEvaluationDecision = model.DecisionProceedToAnswerResearch
	return model.DecisionProceedToAnswerResearch, nil
}

// HandleConfirmation resolves one pending confirmation for an
// auto-filled item. Accepting promotes the item to verified. Rejecting
// resets it to pending with no value and marks it never to be
// researched again: the next gathering pass asks the provider directly
// instead of re-running the research that already got it wrong.
func (m *Manager) HandleConfirmation(_ context.Context, state *model.OnboardingState, key string, accepted bool) (model.WorkflowDecision, error) {
	idx := -1
	for i, pc := range state.PendingConfirmations {
		if pc.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", eris.Errorf("onboarding: no pending confirmation for %q", key)
	}
	item := model.FindItem(state.Checklist, key)
	if item == nil {
		return "", eris.Errorf("onboarding: confirmation key %q not in checklist", key)
	}

	if accepted {
		item.Status = model.StatusVerified
		state.ConfirmationResult = "accepted: " + key
		state.AnswerEvaluationResults[key] = "confirmed by provider"
	} else {
		item.Status = model.StatusPending
		item.Value = nil
		delete(state.ResearchAnswers, key)
		markNoResearch(state, key)
		state.ConfirmationResult = "rejected: " + key
		state.AnswerEvaluationResults[key] = "rejected by provider"
	}

	state.PendingConfirmations = append(
		state.PendingConfirmations[:idx], state.PendingConfirmations[idx+1:]...)
	state.AwaitingConfirmation = len(state.PendingConfirmations) > 0
	state.RecomputeMetrics()
	state.Touch(m.now())

	zap.L().Info("onboarding: confirmation handled",
		zap.String("session_id", state.SessionID),
		zap.String("key", key),
		zap.Bool("accepted", accepted),
	)

	if d := m.finishIfDone(state); d != "" {
		return d, nil
	}
	if state.AwaitingConfirmation {
		state.ResearchEvaluationDecision = model.DecisionRequestConfirmation
		return model.DecisionRequestConfirmation, nil
	}
	state.WorkflowStatus = model.WorkflowResearchingAnswers
	state.ResearchEvaluationDecision = model.DecisionProceedToAnswerResearch
	return model.DecisionProceedToAnswerResearch, nil
}
