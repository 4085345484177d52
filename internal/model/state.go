package model

import "time"

// WorkflowStatus tags the onboarding session's position in the workflow.
type WorkflowStatus string

const (
	WorkflowInitialized          WorkflowStatus = "initialized"
	WorkflowResearchingChecklist WorkflowStatus = "researching_checklist"
	WorkflowResearchingAnswers   WorkflowStatus = "researching_answers"
	WorkflowAwaitingResponse     WorkflowStatus = "awaiting_response"
	WorkflowAwaitingConfirmation WorkflowStatus = "awaiting_confirmation"
	WorkflowComplete             WorkflowStatus = "complete"
	WorkflowEscalated            WorkflowStatus = "escalated"
)

// Terminal reports whether no further automatic transitions occur.
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowComplete || s == WorkflowEscalated
}

// WorkflowDecision is the vocabulary of transition intents emitted by
// the state machine.
type WorkflowDecision string

const (
	DecisionProceedToChecklistResearch WorkflowDecision = "proceed_to_checklist_research"
	DecisionProceedToAnswerResearch    WorkflowDecision = "proceed_to_answer_research"
	DecisionSkipResearch               WorkflowDecision = "skip_research"
	DecisionAskNextQuestion            WorkflowDecision = "ask_next_question"
	DecisionEscalateToHuman            WorkflowDecision = "escalate_to_human"
	DecisionCompleteSession            WorkflowDecision = "complete_session"
	DecisionUpdateChecklist            WorkflowDecision = "update_checklist"
	DecisionRequestConfirmation        WorkflowDecision = "request_confirmation"
	DecisionAskClarifyingQuestion      WorkflowDecision = "ask_clarifying_question"
)

// ResearchPhase identifies which of the two research phases is active.
// Checklist customization always runs to completion (or explicit skip)
// before answer gathering begins; the phases never interleave.
type ResearchPhase string

const (
	PhaseChecklistCustomization ResearchPhase = "checklist_customization"
	PhaseAnswerGathering        ResearchPhase = "answer_gathering"
)

// CompletionMetrics is derived from checklist status counts and is
// recomputed after every item-level mutation.
type CompletionMetrics struct {
	CompletionRate float64 `json:"completion_rate"`
}

// ChecklistModification records one applied or skipped checklist change.
type ChecklistModification struct {
	Key    string `json:"key"`
	Type   string `json:"type"` // "mandatory", "recommended", "removal"
	Reason string `json:"reason,omitempty"`
	Action string `json:"action"` // "added", "removed", "skipped_duplicate", "skipped_absent"
}

// PendingConfirmation is a research-proposed fact awaiting explicit
// provider sign-off before it is treated as ground truth.
type PendingConfirmation struct {
	Key        string  `json:"key"`
	Prompt     string  `json:"prompt"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
	Evidence   string  `json:"evidence,omitempty"`
}

// ResearchFinding is one piece of web research evidence gathered during
// either phase.
type ResearchFinding struct {
	Query   string `json:"query"`
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// OnboardingState is the full per-session aggregate. It is created
// exactly once per session and thereafter mutated only through the
// onboarding.Manager transition functions under a single-writer
// discipline. Every field round-trips losslessly through JSON.
type OnboardingState struct {
	SessionID       string            `json:"session_id"`
	ProviderProfile map[string]string `json:"provider_profile"`
	UserProfile     map[string]string `json:"user_profile"`

	// Conversation cursor: at most one question is in flight at a time.
	LastQuestion     string `json:"last_question"`
	LastQuestionKey  string `json:"last_question_key"`
	LastUserResponse string `json:"last_user_response"`
	AwaitingResponse bool   `json:"awaiting_response"`

	Checklist         []ChecklistItem   `json:"checklist"`
	CompletionMetrics CompletionMetrics `json:"completion_metrics"`

	// Phase 1: checklist customization.
	ChecklistResearchResults   []ResearchFinding       `json:"checklist_research_results"`
	ChecklistResearchCompleted bool                    `json:"checklist_research_completed"`
	ChecklistModifications     []ChecklistModification `json:"checklist_modifications"`

	// Phase 2: answer gathering.
	AnswerResearchResults []ResearchFinding `json:"answer_research_results"`
	ResearchAnswers       map[string]string `json:"research_answers"`
	ResearchContent       string            `json:"research_content"`

	// Evaluation and confirmation gating.
	AnswerEvaluationResults    map[string]string     `json:"answer_evaluation_results"`
	ResearchEvaluationDecision WorkflowDecision      `json:"research_evaluation_decision,omitempty"`
	AwaitingConfirmation       bool                  `json:"awaiting_confirmation"`
	PendingConfirmations       []PendingConfirmation `json:"pending_confirmations"`
	ConfirmationResult         string                `json:"confirmation_result,omitempty"`

	// ISO-8601 UTC timestamps, monotonically non-decreasing in-session.
	ChecklistResearchTimestamp string `json:"checklist_research_timestamp,omitempty"`
	AnswerResearchTimestamp    string `json:"answer_research_timestamp,omitempty"`
	StartedAt                  string `json:"started_at"`
	LastActivity               string `json:"last_activity"`

	// Opaque external retrieval-index handle, passed through untouched.
	RAGCollectionID string `json:"rag_collection_id,omitempty"`

	WorkflowStatus WorkflowStatus `json:"workflow_status"`

	// Diagnostics set on terminal or error paths.
	Evaluation       string   `json:"evaluation,omitempty"`
	ValidationStatus string   `json:"validation_status,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	EscalationReason string   `json:"escalation_reason,omitempty"`

	SessionMetadata map[string]string `json:"session_metadata"`
}

// Timestamp formats t as an ISO-8601 UTC string, the only timestamp
// representation stored in session state.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Touch advances LastActivity without letting it move backwards.
func (s *OnboardingState) Touch(now time.Time) {
	ts := Timestamp(now)
	if ts > s.LastActivity {
		s.LastActivity = ts
	}
}

// RecomputeMetrics refreshes the derived completion metrics from the
// current checklist. Call after every item-level mutation.
func (s *OnboardingState) RecomputeMetrics() {
	s.CompletionMetrics.CompletionRate = CompletionRate(s.Checklist)
}

// UnresolvedRequiredKeys returns the keys of required items that are
// not yet verified, in checklist order.
func (s *OnboardingState) UnresolvedRequiredKeys() []string {
	var keys []string
	for _, item := range s.Checklist {
		if item.Required && item.Status != StatusVerified {
			keys = append(keys, item.Key)
		}
	}
	return keys
}
