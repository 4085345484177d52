package onboarding

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/model"
)

// RunAnswerGathering runs the answer-gathering phase: walk the
// checklist in insertion order and resolve each unresolved item, by web
// research when the fact plausibly has a public-record answer, by a
// direct question otherwise. The phase suspends as soon as a question
// is posed (at most one question is ever in flight) and resumes on the
// next invocation after HandleUserResponse. Research failures fall
// through to direct questioning; they never fail the session.
func (m *Manager) RunAnswerGathering(ctx context.Context, state *model.OnboardingState) model.WorkflowDecision {
	if state.WorkflowStatus.Terminal() {
		return state.ResearchEvaluationDecision
	}
	if state.AwaitingResponse {
		return model.DecisionAskNextQuestion
	}
	if state.AwaitingConfirmation {
		return model.DecisionRequestConfirmation
	}

	state.WorkflowStatus = model.WorkflowResearchingAnswers
	log := zap.L().With(zap.String("session_id", state.SessionID))

	for i := range state.Checklist {
		item := &state.Checklist[i]
		if item.Resolved() || skipped(state, item.Key) {
			continue
		}

		if m.itemAttempts(state, item.Key) >= m.policy.MaxItemAttempts {
			if item.Required {
				log.Warn("onboarding: required item exhausted attempts",
					zap.String("key", item.Key))
				return m.escalate(state)
			}
			markSkipped(state, item.Key)
			state.AnswerEvaluationResults[item.Key] = "skipped: attempt budget exhausted"
			continue
		}
		m.recordAttempt(state, item.Key)

		researched := false
		if m.policy.ResearchEligible(*item) && !noResearch(state, item.Key) {
			researched = true
			if m.researchItem(ctx, state, item) {
				continue
			}
		}
		return m.askQuestion(ctx, state, item, researched)
	}

	if len(state.PendingConfirmations) > 0 {
		state.AwaitingConfirmation = true
		state.WorkflowStatus = model.WorkflowAwaitingConfirmation
		state.ResearchEvaluationDecision = model.DecisionRequestConfirmation
		state.Touch(m.now())
		return model.DecisionRequestConfirmation
	}
	if d := m.finishIfDone(state); d != "" {
		return d
	}
	// Nothing left to ask or confirm yet the session is incomplete;
	// hand off rather than loop.
	return m.escalate(state)
}

// researchItem attempts to auto-fill one item from web research.
// Returns true when a confident answer was extracted and queued for
// confirmation; false falls the item through to direct questioning.
func (m *Manager) researchItem(ctx context.Context, state *model.OnboardingState, item *model.ChecklistItem) bool {
	log := zap.L().With(
		zap.String("session_id", state.SessionID),
		zap.String("key", item.Key),
	)

	queries, err := m.llm.GenerateSearchQueries(ctx, item.Prompt, state.ResearchContent)
	if err != nil {
		log.Warn("onboarding: search query generation failed", zap.Error(err))
		return false
	}

	var candidates []candidatePage
	seen := map[string]bool{}
	for _, q := range queries.Queries {
		for _, r := range m.search.Search(ctx, q.Text, m.policy.SearchResults) {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			candidates = append(candidates, candidatePage{query: q.Text, url: r.URL, title: r.Title})
		}
	}
	if len(candidates) == 0 {
		log.Info("onboarding: no research candidates found")
		return false
	}

	candidates = m.rankCandidates(ctx, item.Prompt, candidates)
	if len(candidates) > m.policy.MaxPagesPerItem {
		candidates = candidates[:m.policy.MaxPagesPerItem]
	}

	findings := m.fetchAndExtract(ctx, candidates)
	state.AnswerResearchResults = append(state.AnswerResearchResults, findings...)
	if len(findings) == 0 {
		log.Info("onboarding: research candidates yielded no content")
		return false
	}

	answer, err := m.llm.ExtractAnswerFromContent(ctx, item.Prompt, combineFindings(findings))
	if err != nil {
		log.Warn("onboarding: answer extraction failed", zap.Error(err))
		return false
	}
	if strings.TrimSpace(answer.Value) == "" || answer.Confidence < m.policy.ConfidenceThreshold {
		state.AnswerEvaluationResults[item.Key] = fmt.Sprintf(
			"research below threshold: confidence %.2f", answer.Confidence)
		log.Info("onboarding: extracted answer below threshold",
			zap.Float64("confidence", answer.Confidence),
			zap.Float64("threshold", m.policy.ConfidenceThreshold),
		)
		return false
	}

	now := m.now()
	value := strings.TrimSpace(answer.Value)
	item.Status = model.StatusAutoFilled
	item.Value = &value
	state.ResearchAnswers[item.Key] = value
	state.AnswerEvaluationResults[item.Key] = fmt.Sprintf(
		"auto_filled: confidence %.2f", answer.Confidence)
	state.PendingConfirmations = append(state.PendingConfirmations, model.PendingConfirmation{
		Key:        item.Key,
		Prompt:     item.Prompt,
		Value:      value,
		Confidence: answer.Confidence,
		Source:     answer.Source,
		Evidence:   answer.Evidence,
	})
	state.AnswerResearchTimestamp = model.Timestamp(now)
	state.RecomputeMetrics()
	state.Touch(now)

	log.Info("onboarding: item auto-filled",
		zap.Float64("confidence", answer.Confidence),
		zap.String("source", answer.Source),
	)
	return true
}

// askQuestion poses the item's question and suspends the workflow.
// An item asked directly moves to the asked status; an item that fell
// through from research stays pending, since the question is a fallback
// rather than the item's primary strategy. Either way the conversation
// cursor holds exactly one outstanding question.
func (m *Manager) askQuestion(ctx context.Context, state *model.OnboardingState, item *model.ChecklistItem, researched bool) model.WorkflowDecision {
	question := item.Prompt
	if researched {
		// Soften the fallback question; the raw prompt serves if the
		// LLM is unavailable.
		text, err := m.llm.ClarifyingText(ctx, fmt.Sprintf(
			"Web research could not confirm an answer for: %s", item.Prompt))
		if err == nil {
			question = text.Text
		}
	} else {
		item.Status = model.StatusAsked
	}

	state.LastQuestion = question
	state.LastQuestionKey = item.Key
	state.AwaitingResponse = true
	state.WorkflowStatus = model.WorkflowAwaitingResponse
	state.ResearchEvaluationDecision = model.DecisionAskNextQuestion
	state.Touch(m.now())

	zap.L().Info("onboarding: question posed",
		zap.String("session_id", state.SessionID),
		zap.String("key", item.Key),
		zap.Bool("research_fallback", researched),
	)
	return model.DecisionAskNextQuestion
}

// combineFindings concatenates research findings into one extraction
// context, each chunk labeled with its source URL.
func combineFindings(findings []model.ResearchFinding) string {
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "Source: %s\n%s\n\n", f.URL, f.Content)
	}
	return strings.TrimSpace(b.String())
}
