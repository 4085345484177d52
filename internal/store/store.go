// Package store persists onboarding sessions between CLI invocations.
// The workflow suspends whenever a question or confirmation is
// outstanding; the store is what lets a later invocation resume it.
package store

import (
	"context"
	"time"

	"github.com/sells-group/onboard-cli/internal/model"
)

// SessionRecord is one persisted onboarding session. State holds the
// full aggregate and round-trips every field losslessly.
type SessionRecord struct {
	ID        string                 `json:"id"`
	Status    model.WorkflowStatus   `json:"status"`
	State     *model.OnboardingState `json:"state"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SessionFilter specifies criteria for listing sessions.
type SessionFilter struct {
	Status model.WorkflowStatus `json:"status,omitempty"`
	Limit  int                  `json:"limit,omitempty"`
	Offset int                  `json:"offset,omitempty"`
}

// SessionStore defines the persistence interface for onboarding
// sessions. SaveSession is called after every transition so a crash
// between transitions loses at most one step.
type SessionStore interface {
	SaveSession(ctx context.Context, state *model.OnboardingState) error
	GetSession(ctx context.Context, sessionID string) (*SessionRecord, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]SessionRecord, error)
	DeleteSession(ctx context.Context, sessionID string) error

	Migrate(ctx context.Context) error
	Close() error
}
