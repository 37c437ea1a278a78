package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/hyperjump/tomaru/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	opts options
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db, opts: buildOptions(opts)}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS candidates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		historical_demand REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_candidates_lat_lng ON candidates(latitude, longitude);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_natural_key ON candidates(name, latitude, longitude);

	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

const candidateColumns = `id, name, latitude, longitude, historical_demand, created_at`

// CreateCandidate inserts a candidate. A zero ID is assigned by the database.
func (s *SQLiteStorage) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	c.CreatedAt = time.Now()

	var id any
	if c.ID > 0 {
		id = c.ID
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO candidates (id, name, latitude, longitude, historical_demand, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.Latitude, c.Longitude, c.HistoricalDemand, c.CreatedAt,
	)
	if err != nil {
		return sqliteError(err)
	}
	if c.ID == 0 {
		if c.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read candidate id: %w", err)
		}
	}
	return nil
}

// GetCandidate returns a candidate by ID.
func (s *SQLiteStorage) GetCandidate(ctx context.Context, id int64) (*models.Candidate, error) {
	var c models.Candidate
	err := s.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Latitude, &c.Longitude, &c.HistoricalDemand, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCandidate removes a candidate by ID.
func (s *SQLiteStorage) DeleteCandidate(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	return err
}

// ListCandidates returns candidates ordered by ID with offset and limit.
func (s *SQLiteStorage) ListCandidates(ctx context.Context, offset, limit int) ([]*models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanCandidates(rows)
}

// BatchUpsertCandidates inserts or replaces candidates in a transaction.
// Candidates with an ID are upserted by ID. Candidates without one are upserted
// by name and position, so importing the same rows twice leaves one copy.
func (s *SQLiteStorage) BatchUpsertCandidates(ctx context.Context, candidates []*models.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	byID, err := tx.PrepareContext(ctx,
		`INSERT INTO candidates (id, name, latitude, longitude, historical_demand, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			historical_demand = excluded.historical_demand`,
	)
	if err != nil {
		return err
	}
	defer byID.Close()

	byKey, err := tx.PrepareContext(ctx,
		`INSERT INTO candidates (name, latitude, longitude, historical_demand, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name, latitude, longitude) DO UPDATE SET
			historical_demand = excluded.historical_demand
		 RETURNING id`,
	)
	if err != nil {
		return err
	}
	defer byKey.Close()

	now := time.Now()
	for _, c := range candidates {
		c.CreatedAt = now
		if c.ID > 0 {
			_, err = byID.ExecContext(ctx, c.ID, c.Name, c.Latitude, c.Longitude, c.HistoricalDemand, c.CreatedAt)
		} else {
			err = byKey.QueryRowContext(ctx, c.Name, c.Latitude, c.Longitude, c.HistoricalDemand, c.CreatedAt).Scan(&c.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to upsert candidate %q: %w", c.Name, sqliteError(err))
		}
	}
	return tx.Commit()
}

// FetchCandidates returns candidates ordered by ID. With a window configured only
// candidates inside its bounding box are returned.
func (s *SQLiteStorage) FetchCandidates(ctx context.Context, lat, lng float64) ([]*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var args []any
	if box, ok := s.opts.window(lat, lng); ok {
		var clause string
		clause, args = windowClause(box, func(int) string { return "?" })
		query += ` WHERE ` + clause
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	return scanCandidates(rows)
}

// sqliteError maps uniqueness violations to ErrConflict.
func sqliteError(err error) error {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && (sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func scanCandidates(rows *sql.Rows) ([]*models.Candidate, error) {
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Latitude, &c.Longitude, &c.HistoricalDemand, &c.CreatedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

// LogSearch appends a search history record.
func (s *SQLiteStorage) LogSearch(ctx context.Context, record *models.SearchRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, latitude, longitude, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Query, record.Latitude, record.Longitude, record.CreatedAt,
	)
	return err
}

// CountCandidates returns the total number of candidates.
func (s *SQLiteStorage) CountCandidates(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&count)
	return count, err
}

// CountSearches returns the number of recorded searches.
func (s *SQLiteStorage) CountSearches(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searches`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
