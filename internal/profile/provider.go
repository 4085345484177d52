// Package profile gives the onboarding workflow read-only access to
// stored provider profiles. The workflow treats profile text as an
// opaque string; it never inspects provider storage directly.
package profile

import "context"

// ProfileMatch is one provider profile returned by a lookup. For a
// direct fetch-by-id the similarity score is 1.0; sampling queries may
// carry a lower score when backed by a similarity search.
type ProfileMatch struct {
	ProfileID       string  `json:"profile_id"`
	SimilarityScore float64 `json:"similarity_score"`
	ProfileText     string  `json:"profile_text"`
}

// Provider is the read-only profile lookup surface the workflow
// consumes. GetProfileByID returns (nil, nil) when no profile exists.
type Provider interface {
	GetProfileByID(ctx context.Context, id string) (*ProfileMatch, error)
	GetFilteredProfiles(ctx context.Context, minDescriptionLength int, requireLocation bool) ([]ProfileMatch, error)
	GetRandomProfiles(ctx context.Context, n int) ([]ProfileMatch, error)
}
