// Package pipeline wires the analysis stages together: fetch tickets,
// analyze each one, upload the results, write the report.
package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/openautomations/dmcascan/internal/airtable"
	"github.com/openautomations/dmcascan/internal/analyze"
	"github.com/openautomations/dmcascan/internal/tracking"
	"github.com/openautomations/dmcascan/internal/zendesk"
)

// TicketSource provides the tickets to analyze.
type TicketSource interface {
	SearchOpenTickets(ctx context.Context) ([]zendesk.Ticket, error)
	AgentURL(id int64) string
}

// Uploader receives flattened analysis rows.
type Uploader interface {
	Enabled() bool
	Upload(ctx context.Context, rows []airtable.Fields) (int, error)
}

// NoteAdder leaves the processing note on a handled ticket.
type NoteAdder interface {
	AddInternalNote(ctx context.Context, ticketID int64, body string) error
}

// Tracker remembers which tickets earlier runs handled.
type Tracker interface {
	IsProcessed(ctx context.Context, ticketID int64) (bool, error)
	MarkProcessed(ctx context.Context, p tracking.Processed) error
}

// ReportWriter persists the full record list.
type ReportWriter func(records []analyze.Record, path string) (string, error)

// Summary aggregates what one run did.
type Summary struct {
	Tickets    int    `json:"tickets_analyzed"`
	Skipped    int    `json:"tickets_skipped"`
	URLsFound  int    `json:"urls_found"`
	Converted  int    `json:"urls_converted"`
	Uploaded   int    `json:"records_uploaded"`
	NotesAdded int    `json:"notes_added"`
	ReportPath string `json:"report_path,omitempty"`
}

// Pipeline runs the end-to-end analysis.
type Pipeline struct {
	source      TicketSource
	builder     *analyze.Builder
	uploader    Uploader
	noteAdder   NoteAdder
	noteText    string
	tracker     Tracker
	writeReport ReportWriter
	reportPath  string
	log         *zap.Logger
}

// Option adjusts pipeline construction.
type Option func(*Pipeline)

// WithReportPath sets an explicit report path instead of the timestamped
// default.
func WithReportPath(path string) Option {
	return func(p *Pipeline) { p.reportPath = path }
}

// WithReportWriter replaces the report writer, primarily for tests.
func WithReportWriter(w ReportWriter) Option {
	return func(p *Pipeline) { p.writeReport = w }
}

// WithProcessedNote makes the pipeline leave text as an internal note on
// every ticket it analyzes.
func WithProcessedNote(adder NoteAdder, text string) Option {
	return func(p *Pipeline) {
		p.noteAdder = adder
		p.noteText = text
	}
}

// WithTracker enables duplicate prevention: tickets the tracker knows are
// skipped, and handled tickets are recorded.
func WithTracker(t Tracker) Option {
	return func(p *Pipeline) { p.tracker = t }
}

// New assembles a Pipeline around its collaborators.
func New(source TicketSource, builder *analyze.Builder, uploader Uploader, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:   source,
		builder:  builder,
		uploader: uploader,
		log:      log,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes one full analysis pass and returns the records plus a
// summary. Only fetch failures abort the run. Upload failures are logged
// and reflected in the summary so the report still gets written.
func (p *Pipeline) Run(ctx context.Context) ([]analyze.Record, Summary, error) {
	if p.tracker == nil {
		p.log.Warn("ticket tracking disabled, duplicate processing may occur")
	}

	tickets, err := p.source.SearchOpenTickets(ctx)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	if len(tickets) == 0 {
		p.log.Warn("no tickets found to analyze")
		return nil, Summary{}, nil
	}

	var summary Summary

	records := make([]analyze.Record, 0, len(tickets))

	for _, t := range tickets {
		if p.tracker != nil {
			done, err := p.tracker.IsProcessed(ctx, t.ID)
			if err != nil {
				p.log.Error("failed to check ticket tracking", zap.Int64("ticket_id", t.ID), zap.Error(err))
			} else if done {
				summary.Skipped++
				p.log.Info("skipping already processed ticket", zap.Int64("ticket_id", t.ID))

				continue
			}
		}

		agentURL := p.source.AgentURL(t.ID)

		rec := p.builder.Build(analyze.TicketInput{
			ID:          strconv.FormatInt(t.ID, 10),
			Subject:     t.Subject,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			TicketURL:   agentURL,
		})

		records = append(records, rec)
		summary.Tickets++
		summary.URLsFound += rec.TotalFound
		summary.Converted += rec.TotalConverted

		p.log.Info("analyzed ticket",
			zap.String("ticket_id", rec.TicketID),
			zap.Int("urls_found", rec.TotalFound),
			zap.Int("urls_converted", rec.TotalConverted))

		if p.tracker != nil {
			err := p.tracker.MarkProcessed(ctx, tracking.Processed{
				TicketID:      t.ID,
				TicketURL:     agentURL,
				URLsFound:     rec.TotalFound,
				URLsConverted: rec.TotalConverted,
				// One Airtable record per converted URL.
				AirtableRecords: rec.TotalConverted,
				Notes:           subjectNote(t.Subject),
			})
			if err != nil {
				p.log.Error("failed to mark ticket processed", zap.Int64("ticket_id", t.ID), zap.Error(err))
			}
		}

		if p.noteAdder != nil {
			if err := p.noteAdder.AddInternalNote(ctx, t.ID, p.noteText); err != nil {
				p.log.Warn("failed to add processing note", zap.Int64("ticket_id", t.ID), zap.Error(err))
			} else {
				summary.NotesAdded++
			}
		}
	}

	rows := airtable.RowsFromRecords(records)

	switch {
	case !p.uploader.Enabled():
		p.log.Warn("AIRTABLE_API_KEY not set, skipping upload",
			zap.Int("records_ready", len(rows)))
	default:
		uploaded, err := p.uploader.Upload(ctx, rows)
		summary.Uploaded = uploaded

		if err != nil {
			p.log.Error("upload failed", zap.Error(err))
		}
	}

	if p.writeReport != nil {
		path, err := p.writeReport(records, p.reportPath)
		if err != nil {
			p.log.Error("failed to write report", zap.Error(err))
		} else {
			summary.ReportPath = path
			p.log.Info("report written", zap.String("path", path))
		}
	}

	p.log.Info("analysis complete",
		zap.Int("tickets", summary.Tickets),
		zap.Int("skipped", summary.Skipped),
		zap.Int("urls_found", summary.URLsFound),
		zap.Int("urls_converted", summary.Converted),
		zap.Int("uploaded", summary.Uploaded),
		zap.Int("notes_added", summary.NotesAdded))

	return records, summary, nil
}

// subjectNote shortens a ticket subject for the tracking table's notes
// column.
func subjectNote(subject string) string {
	const limit = 100

	runes := []rune(subject)
	if len(runes) <= limit {
		return subject
	}

	return string(runes[:limit]) + "..."
}
