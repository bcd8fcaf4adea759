// Package history persists completed calculations beyond the process
// lifetime and makes them searchable. The agent's own in-memory
// history stays authoritative for the session; this package is a
// best-effort sink behind the engine.Recorder interface.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"reckon/internal/engine"
)

// Store persists calculation results in sqlite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database and initializes the schema.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// WAL mode for concurrent readers, busy timeout for the single writer
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id          TEXT PRIMARY KEY,
		expression  TEXT NOT NULL,
		result      REAL NOT NULL,
		reasoning   TEXT NOT NULL,
		confidence  REAL NOT NULL,
		verified    INTEGER NOT NULL,
		created_at  INTEGER NOT NULL,
		tokens_used INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created_at
		ON calculations(created_at);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Record implements engine.Recorder.
func (s *Store) Record(ctx context.Context, result engine.CalculationResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO calculations
			(id, expression, result, reasoning, confidence, verified, created_at, tokens_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.Expression,
		result.Result,
		result.Reasoning,
		result.Confidence,
		boolToInt(result.Verified),
		result.CreatedAt.UnixNano(),
		result.TokensUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}
	return nil
}

// List returns up to limit calculations, newest first. limit <= 0
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]engine.CalculationResult, error) {
	query := `
		SELECT id, expression, result, reasoning, confidence, verified, created_at, tokens_used
		FROM calculations
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	var results []engine.CalculationResult
	for rows.Next() {
		var r engine.CalculationResult
		var verified int
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Expression, &r.Result, &r.Reasoning,
			&r.Confidence, &verified, &createdAt, &r.TokensUsed); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		r.Verified = verified != 0
		r.CreatedAt = time.Unix(0, createdAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}

	return results, nil
}

// Get returns a single calculation by ID.
func (s *Store) Get(ctx context.Context, id string) (engine.CalculationResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, expression, result, reasoning, confidence, verified, created_at, tokens_used
		FROM calculations WHERE id = ?`, id)

	var r engine.CalculationResult
	var verified int
	var createdAt int64
	if err := row.Scan(&r.ID, &r.Expression, &r.Result, &r.Reasoning,
		&r.Confidence, &verified, &createdAt, &r.TokensUsed); err != nil {
		return engine.CalculationResult{}, fmt.Errorf("failed to load calculation %s: %w", id, err)
	}
	r.Verified = verified != 0
	r.CreatedAt = time.Unix(0, createdAt)
	return r, nil
}

// Count returns the number of stored calculations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calculations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count calculations: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
