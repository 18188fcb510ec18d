package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	collection  TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	payload     JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_collection_seq_idx ON reports (collection, seq DESC);
`

// PostgresStore keeps reports in a single table. The BIGSERIAL sequence gives
// a total insertion order, so concurrent writers cannot reorder history.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgresStore opens a connection pool using the lib/pq driver.
func OpenPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the reports table and index if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure reports schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, c domain.Collection, r domain.Report) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	data, err := encodeReport(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, collection, recorded_at, payload) VALUES ($1, $2, $3, $4)`,
		r.ID, string(c), r.Timestamp, data,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateReport, r.ID)
		}
		return fmt.Errorf("postgres append %s report: %w", c, err)
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context, c domain.Collection) ([]domain.Report, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM reports WHERE collection = $1 ORDER BY seq DESC`, string(c))
	if err != nil {
		return nil, fmt.Errorf("postgres load %s reports: %w", c, err)
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var p []byte
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		payloads = append(payloads, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres load %s reports: %w", c, err)
	}
	return decodeReports(payloads)
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
