package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/onboard-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleState(id string) *model.OnboardingState {
	value := "TX-12345"
	return &model.OnboardingState{
		SessionID:       id,
		ProviderProfile: map[string]string{"profile_text": "Acme Plumbing, Austin TX"},
		UserProfile:     map[string]string{},
		Checklist: []model.ChecklistItem{
			{Key: "license_number", Prompt: "License?", Required: true, Status: model.StatusAutoFilled, Value: &value},
			{Key: "hours", Prompt: "Hours?", Required: true, Status: model.StatusPending},
		},
		CompletionMetrics:          model.CompletionMetrics{CompletionRate: 0},
		ChecklistResearchCompleted: true,
		ChecklistResearchTimestamp: "2025-06-01T12:00:00Z",
		ChecklistModifications: []model.ChecklistModification{
			{Key: "license_number", Type: "mandatory", Action: "added"},
		},
		ResearchAnswers:         map[string]string{"license_number": value},
		ResearchContent:         "Austin plumber",
		AnswerEvaluationResults: map[string]string{"license_number": "auto_filled: confidence 0.90"},
		PendingConfirmations: []model.PendingConfirmation{
			{Key: "license_number", Prompt: "License?", Value: value, Confidence: 0.9},
		},
		AwaitingConfirmation: true,
		StartedAt:            "2025-06-01T11:59:00Z",
		LastActivity:         "2025-06-01T12:00:00Z",
		WorkflowStatus:       model.WorkflowAwaitingConfirmation,
		SessionMetadata:      map[string]string{"attempts_license_number": "1"},
	}
}

func TestSaveAndGetSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	state := sampleState("sess-1")

	require.NoError(t, s.SaveSession(ctx, state))

	rec, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", rec.ID)
	assert.Equal(t, model.WorkflowAwaitingConfirmation, rec.Status)

	// Every field, pointer values included, survives the round trip.
	want, err := json.Marshal(state)
	require.NoError(t, err)
	got, err := json.Marshal(rec.State)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestSaveSessionUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	state := sampleState("sess-1")

	require.NoError(t, s.SaveSession(ctx, state))

	state.WorkflowStatus = model.WorkflowComplete
	require.NoError(t, s.SaveSession(ctx, state))

	rec, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.WorkflowComplete, rec.Status)

	all, err := s.ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveSessionRejectsMissingID(t *testing.T) {
	s := newTestStore(t)
	require.Error(t, s.SaveSession(context.Background(), &model.OnboardingState{}))
	require.Error(t, s.SaveSession(context.Background(), nil))
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSessionsFilterAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		state := sampleState(id)
		if id == "c" {
			state.WorkflowStatus = model.WorkflowComplete
		}
		require.NoError(t, s.SaveSession(ctx, state))
	}

	complete, err := s.ListSessions(ctx, SessionFilter{Status: model.WorkflowComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, "c", complete[0].ID)

	limited, err := s.ListSessions(ctx, SessionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, sampleState("sess-1")))
	require.NoError(t, s.DeleteSession(ctx, "sess-1"))

	_, err := s.GetSession(ctx, "sess-1")
	require.Error(t, err)

	require.Error(t, s.DeleteSession(ctx, "sess-1"))
}
