// Package tracking records processed tickets in PostgreSQL so repeated runs
// skip tickets that were already analyzed and uploaded.
package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/openautomations/dmcascan/internal/config"
)

const createSchema = `CREATE SCHEMA IF NOT EXISTS zendesk;`

const createTable = `
CREATE TABLE IF NOT EXISTS zendesk.dmca_automation (
    id SERIAL PRIMARY KEY,
    ticket_id BIGINT UNIQUE NOT NULL,
    ticket_url TEXT,
    processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    urls_found INTEGER DEFAULT 0,
    urls_converted INTEGER DEFAULT 0,
    airtable_records INTEGER DEFAULT 0,
    status VARCHAR(50) DEFAULT 'processed',
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

const createIndex = `
CREATE INDEX IF NOT EXISTS idx_dmca_automation_ticket_id
ON zendesk.dmca_automation (ticket_id);`

// Processed describes one handled ticket for the tracking table.
type Processed struct {
	TicketID        int64
	TicketURL       string
	URLsFound       int
	URLsConverted   int
	AirtableRecords int
	Notes           string
}

// Store tracks processed tickets in one PostgreSQL table.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open connects to PostgreSQL and ensures the tracking schema exists.
func Open(ctx context.Context, cfg config.PostgresConfig, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// init creates the schema, table, and index when they do not exist yet.
func (s *Store) init(ctx context.Context) error {
	for _, stmt := range []string{createSchema, createTable, createIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize tracking table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

// IsProcessed reports whether the ticket was handled by an earlier run.
func (s *Store) IsProcessed(ctx context.Context, ticketID int64) (bool, error) {
	var one int

	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM zendesk.dmca_automation WHERE ticket_id = $1",
		ticketID).Scan(&one)

	switch err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, fmt.Errorf("failed to check ticket %d: %w", ticketID, err)
	}
}

// MarkProcessed records a handled ticket, updating the row when the ticket
// was seen before.
func (s *Store) MarkProcessed(ctx context.Context, p Processed) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO zendesk.dmca_automation
        (ticket_id, ticket_url, urls_found, urls_converted, airtable_records, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (ticket_id) DO UPDATE SET
            processed_at = CURRENT_TIMESTAMP,
            ticket_url = EXCLUDED.ticket_url,
            urls_found = EXCLUDED.urls_found,
            urls_converted = EXCLUDED.urls_converted,
            airtable_records = EXCLUDED.airtable_records,
            notes = EXCLUDED.notes`,
		p.TicketID, p.TicketURL, p.URLsFound, p.URLsConverted, p.AirtableRecords, p.Notes)
	if err != nil {
		return fmt.Errorf("failed to mark ticket %d processed: %w", p.TicketID, err)
	}

	s.log.Info("marked ticket processed", zap.Int64("ticket_id", p.TicketID))

	return nil
}

// CountProcessed returns how many tickets earlier runs have handled.
func (s *Store) CountProcessed(ctx context.Context) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM zendesk.dmca_automation").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count processed tickets: %w", err)
	}

	return count, nil
}
