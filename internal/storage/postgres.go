package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hyperjump/tomaru/internal/models"
)

// PostgresStorage implements Storage on PostgreSQL.
type PostgresStorage struct {
	db   *sqlx.DB
	opts options
}

// NewPostgresStorage connects to dsn and creates the schema when missing.
func NewPostgresStorage(ctx context.Context, dsn string, opts ...Option) (*PostgresStorage, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := initPostgresSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &PostgresStorage{db: db, opts: buildOptions(opts)}, nil
}

func initPostgresSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS candidates (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		historical_demand DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_candidates_lat_lng ON candidates(latitude, longitude);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_natural_key ON candidates(name, latitude, longitude);

	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// CreateCandidate inserts a candidate. A zero ID is assigned by the sequence.
// An explicit ID advances the sequence past it.
func (s *PostgresStorage) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	c.CreatedAt = time.Now()
	if c.ID == 0 {
		err := s.db.QueryRowxContext(ctx,
			`INSERT INTO candidates (name, latitude, longitude, historical_demand, created_at)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			c.Name, c.Latitude, c.Longitude, c.HistoricalDemand, c.CreatedAt,
		).Scan(&c.ID)
		return postgresError(err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx,
		`INSERT INTO candidates (id, name, latitude, longitude, historical_demand, created_at)
		 VALUES (:id, :name, :latitude, :longitude, :historical_demand, :created_at)`, c); err != nil {
		return postgresError(err)
	}
	if err := resyncSequence(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// GetCandidate returns a candidate by ID.
func (s *PostgresStorage) GetCandidate(ctx context.Context, id int64) (*models.Candidate, error) {
	var c models.Candidate
	err := s.db.GetContext(ctx, &c, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCandidate removes a candidate by ID.
func (s *PostgresStorage) DeleteCandidate(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	return err
}

// ListCandidates returns candidates ordered by ID with offset and limit.
func (s *PostgresStorage) ListCandidates(ctx context.Context, offset, limit int) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	err := s.db.SelectContext(ctx, &candidates,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	return candidates, err
}

// BatchUpsertCandidates inserts or updates candidates in a transaction.
// Candidates with an ID are upserted by ID. Candidates without one are upserted
// by name and position, so importing the same rows twice leaves one copy.
func (s *PostgresStorage) BatchUpsertCandidates(ctx context.Context, candidates []*models.Candidate) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	explicit := false
	for _, c := range candidates {
		c.CreatedAt = now
		if c.ID == 0 {
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO candidates (name, latitude, longitude, historical_demand, created_at)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (name, latitude, longitude) DO UPDATE SET
					historical_demand = EXCLUDED.historical_demand
				 RETURNING id`,
				c.Name, c.Latitude, c.Longitude, c.HistoricalDemand, c.CreatedAt,
			).Scan(&c.ID)
		} else {
			explicit = true
			_, err = tx.NamedExecContext(ctx,
				`INSERT INTO candidates (id, name, latitude, longitude, historical_demand, created_at)
				 VALUES (:id, :name, :latitude, :longitude, :historical_demand, :created_at)
				 ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					latitude = EXCLUDED.latitude,
					longitude = EXCLUDED.longitude,
					historical_demand = EXCLUDED.historical_demand`, c)
		}
		if err != nil {
			return fmt.Errorf("failed to upsert candidate %q: %w", c.Name, postgresError(err))
		}
	}
	if explicit {
		if err := resyncSequence(ctx, tx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// resyncSequence moves the id sequence to the current maximum so the next
// generated id does not collide with an explicitly inserted one.
func resyncSequence(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('candidates', 'id'),
		 COALESCE((SELECT MAX(id) FROM candidates), 1))`)
	if err != nil {
		return fmt.Errorf("failed to resync candidate id sequence: %w", err)
	}
	return nil
}

// postgresError maps unique violations to ErrConflict.
func postgresError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// FetchCandidates returns candidates ordered by ID, prefiltered by the window when set.
func (s *PostgresStorage) FetchCandidates(ctx context.Context, lat, lng float64) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var args []any
	if box, ok := s.opts.window(lat, lng); ok {
		var clause string
		clause, args = windowClause(box, func(n int) string { return fmt.Sprintf("$%d", n) })
		query += ` WHERE ` + clause
	}
	err := s.db.SelectContext(ctx, &candidates, query+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	return candidates, nil
}

// LogSearch appends a search history record.
func (s *PostgresStorage) LogSearch(ctx context.Context, record *models.SearchRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO searches (id, query, latitude, longitude, created_at)
		 VALUES (:id, :query, :latitude, :longitude, :created_at)`, record)
	return err
}

// CountCandidates returns the total number of candidates.
func (s *PostgresStorage) CountCandidates(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM candidates`)
	return count, err
}

// CountSearches returns the number of recorded searches.
func (s *PostgresStorage) CountSearches(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM searches`)
	return count, err
}

// Close closes the connection pool.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
