package tracking

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return &Store{db: db, log: zap.NewNop()}, mock
}

func TestIsProcessed(t *testing.T) {
	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		queryErr error
		want     bool
		wantErr  bool
	}{
		{
			name: "known ticket",
			rows: sqlmock.NewRows([]string{"?column?"}).AddRow(1),
			want: true,
		},
		{
			name:     "unknown ticket",
			queryErr: sql.ErrNoRows,
			want:     false,
		},
		{
			name:     "query failure",
			queryErr: errors.New("connection reset"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)

			expect := mock.ExpectQuery("SELECT 1 FROM zendesk.dmca_automation").
				WithArgs(int64(107289))
			if tt.queryErr != nil {
				expect.WillReturnError(tt.queryErr)
			} else {
				expect.WillReturnRows(tt.rows)
			}

			got, err := store.IsProcessed(context.Background(), 107289)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMarkProcessed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO zendesk.dmca_automation").
		WithArgs(int64(107289), "https://example.zendesk.com/agent/tickets/107289", 3, 2, 2, "takedown").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.MarkProcessed(context.Background(), Processed{
		TicketID:        107289,
		TicketURL:       "https://example.zendesk.com/agent/tickets/107289",
		URLsFound:       3,
		URLsConverted:   2,
		AirtableRecords: 2,
		Notes:           "takedown",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkProcessedFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO zendesk.dmca_automation").
		WillReturnError(errors.New("connection reset"))

	err := store.MarkProcessed(context.Background(), Processed{TicketID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark ticket 1")
}

func TestCountProcessed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := store.CountProcessed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestInitCreatesSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS zendesk").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS zendesk.dmca_automation").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_dmca_automation_ticket_id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
