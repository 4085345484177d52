package profile

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/onboard-cli/internal/db"
)

// profileTextSQL assembles the opaque profile text the checklist
// generator consumes: business name, description, services, and
// location, newline-separated with empty parts dropped.
const profileTextSQL = `concat_ws(E'\n',
	nullif(name, ''),
	nullif(description, ''),
	nullif(services, ''),
	nullif(location, ''))`

// PostgresProvider implements Provider against the provider_profiles
// table.
type PostgresProvider struct {
	pool db.Pool
}

// NewPostgres creates a PostgresProvider with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresProvider, func(), error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, nil, eris.Wrap(err, "profile: parse config")
	}
	cfg.MaxConns = 5
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, eris.Wrap(err, "profile: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, eris.Wrap(err, "profile: ping")
	}
	return &PostgresProvider{pool: pool}, pool.Close, nil
}

// NewWithPool wraps an existing pool. Tests use this with pgxmock.
func NewWithPool(pool db.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

// GetProfileByID fetches one profile. A missing id is a not-found
// signal, not an error.
func (p *PostgresProvider) GetProfileByID(ctx context.Context, id string) (*ProfileMatch, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, `+profileTextSQL+` FROM provider_profiles WHERE id = $1`,
		id,
	)

	var m ProfileMatch
	err := row.Scan(&m.ProfileID, &m.ProfileText)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "profile: get profile %s", id)
	}
	m.SimilarityScore = 1.0
	return &m, nil
}

// GetFilteredProfiles returns profiles whose aggregate description
// meets a minimum length, optionally requiring non-empty location data.
func (p *PostgresProvider) GetFilteredProfiles(ctx context.Context, minDescriptionLength int, requireLocation bool) ([]ProfileMatch, error) {
	query := `SELECT id, ` + profileTextSQL + ` FROM provider_profiles
		WHERE length(coalesce(description, '')) >= $1`
	if requireLocation {
		query += ` AND coalesce(location, '') <> ''`
	}
	query += ` ORDER BY id`

	rows, err := p.pool.Query(ctx, query, minDescriptionLength)
	if err != nil {
		return nil, eris.Wrap(err, "profile: filtered query")
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetRandomProfiles samples n profiles, used by operator tooling to
// spot-check checklist generation.
func (p *PostgresProvider) GetRandomProfiles(ctx context.Context, n int) ([]ProfileMatch, error) {
	if n <= 0 {
		n = 5
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, `+profileTextSQL+` FROM provider_profiles ORDER BY random() LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, eris.Wrap(err, "profile: random sample query")
	}
	defer rows.Close()

	return scanMatches(rows)
}

func scanMatches(rows pgx.Rows) ([]ProfileMatch, error) {
	var matches []ProfileMatch
	for rows.Next() {
		var m ProfileMatch
		if err := rows.Scan(&m.ProfileID, &m.ProfileText); err != nil {
			return nil, eris.Wrap(err, "profile: scan profile")
		}
		m.SimilarityScore = 1.0
		matches = append(matches, m)
	}
	return matches, eris.Wrap(rows.Err(), "profile: iterate profiles")
}
