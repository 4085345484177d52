// Package onboarding owns the per-session checklist state machine: it
// creates the session state, runs the two research phases, and applies
// every conversational transition. All mutation of an OnboardingState
// goes through a Manager under a single-writer discipline; research
// sub-steps may fan out, but results merge back on the calling
// goroutine.
package onboarding

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/internal/research"
)

// Reasoner is the LLM surface the state machine depends on. It matches
// llm.Claude; tests substitute scripted fakes.
type Reasoner interface {
	GenerateChecklist(ctx context.Context, profileText string) (*model.ChecklistResponse, error)
	GenerateSearchQueries(ctx context.Context, intent, providerContext string) (*model.GenerateSearchQueriesResponse, error)
	RerankURLs(ctx context.Context, intent string, urls []string) (*model.RerankResponse, error)
	ExtractChecklistModifications(ctx context.Context, checklist []model.ChecklistItem, findings []model.ResearchFinding) (*model.ExtractChecklistModificationsResponse, error)
	ExtractAnswerFromContent(ctx context.Context, question, content string) (*model.ExtractAnswerFromContentResponse, error)
	ClarifyingText(ctx context.Context, situation string) (*model.TextResponse, error)
	SummarizeProfile(ctx context.Context, profileText string) (*model.ProfileSummaryResponse, error)
}

// Manager drives one onboarding session at a time. It holds no session
// state of its own; every method takes the state it operates on.
type Manager struct {
	llm     Reasoner
	search  research.Searcher
	fetch   research.Fetcher
	extract research.Extractor
	policy  Policy
	now     func() time.Time
}

// New creates a Manager with all collaborator handles injected. The
// Manager never performs collaborator setup itself.
func New(reasoner Reasoner, searcher research.Searcher, fetcher research.Fetcher, extractor research.Extractor, policy Policy) *Manager {
	return &Manager{
		llm:     reasoner,
		search:  searcher,
		fetch:   fetcher,
		extract: extractor,
		policy:  policy,
		now:     time.Now,
	}
}

// WithNow replaces the clock. Used by tests for deterministic
// timestamps.
func (m *Manager) WithNow(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Session metadata keys. Attempt counters and research opt-outs live in
// the metadata bag so they survive serialization with the rest of the
// state.
const (
	metaAttemptsPrefix   = "attempts_"
	metaNoResearchPrefix = "no_research_"
	metaSkippedPrefix    = "skipped_"
)

func (m *Manager) itemAttempts(state *model.OnboardingState, key string) int {
	n, _ := strconv.Atoi(state.SessionMetadata[metaAttemptsPrefix+key])
	return n
}

func (m *Manager) recordAttempt(state *model.OnboardingState, key string) int {
	n := m.itemAttempts(state, key) + 1
	state.SessionMetadata[metaAttemptsPrefix+key] = strconv.Itoa(n)
	return n
}

// noResearch reports whether the item has been marked as never to be
// researched again (a rejected auto-fill, or an exhausted research
// attempt).
func noResearch(state *model.OnboardingState, key string) bool {
	return state.SessionMetadata[metaNoResearchPrefix+key] == "true"
}

func markNoResearch(state *model.OnboardingState, key string) {
	state.SessionMetadata[metaNoResearchPrefix+key] = "true"
}

// skipped reports whether an optional item has been abandoned after
// exhausting its attempt budget.
func skipped(state *model.OnboardingState, key string) bool {
	return state.SessionMetadata[metaSkippedPrefix+key] == "true"
}

func markSkipped(state *model.OnboardingState, key string) {
	state.SessionMetadata[metaSkippedPrefix+key] = "true"
}

// finishIfDone transitions to the complete terminal state when every
// required item is verified and nothing is awaiting confirmation.
// Returns the decision taken, or "" if the session is not done.
func (m *Manager) finishIfDone(state *model.OnboardingState) model.WorkflowDecision {
	state.RecomputeMetrics()
	if state.CompletionMetrics.CompletionRate >= 1.0 &&
		!state.AwaitingConfirmation && len(state.PendingConfirmations) == 0 {
		state.WorkflowStatus = model.WorkflowComplete
		state.ResearchEvaluationDecision = model.DecisionCompleteSession
		state.Touch(m.now())
		return model.DecisionCompleteSession
	}
	return ""
}

// escalate moves the session to the escalated terminal state, naming
// the unresolved required keys.
func (m *Manager) escalate(state *model.OnboardingState) model.WorkflowDecision {
	state.WorkflowStatus = model.WorkflowEscalated
	state.ResearchEvaluationDecision = model.DecisionEscalateToHuman
	state.EscalationReason = "unresolved required items: " +
		strings.Join(state.UnresolvedRequiredKeys(), ", ")
	state.Touch(m.now())
	return model.DecisionEscalateToHuman
}
