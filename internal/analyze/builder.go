// Package analyze assembles per-ticket analysis records from extracted and
// converted marketplace URLs.
package analyze

import (
	"time"

	"github.com/openautomations/dmcascan/internal/convert"
	"github.com/openautomations/dmcascan/internal/extract"
)

// maxDescription caps how much ticket description is carried into a record.
const maxDescription = 500

// ConvertedURL pairs a source URL with its canonical token.
type ConvertedURL struct {
	OriginalURL string `json:"original_url"`
	Converted   string `json:"converted"`
}

// Record is the per-ticket analysis result handed to the report writer and
// the Airtable uploader. It is immutable after Build returns.
//
// Unmatched URLs stay in ExtractedURLs but are absent from ConvertedURLs,
// so a gap between TotalFound and TotalConverted is always visible.
type Record struct {
	TicketID       string         `json:"ticket_id"`
	Subject        string         `json:"subject"`
	Description    string         `json:"description"`
	CreatedAt      string         `json:"created_at,omitempty"`
	TicketURL      string         `json:"ticket_url,omitempty"`
	ExtractedURLs  []string       `json:"extracted_urls"`
	ConvertedURLs  []ConvertedURL `json:"converted_urls"`
	TotalFound     int            `json:"total_urls_found"`
	TotalConverted int            `json:"total_converted"`
	AnalyzedAt     time.Time      `json:"analysis_timestamp"`
}

// TicketInput is what the builder needs to know about a ticket. The fields
// mirror what the ticket source returns; the builder itself does no I/O.
type TicketInput struct {
	ID          string
	Subject     string
	Description string
	CreatedAt   string
	TicketURL   string
}

// Builder runs extraction and conversion over ticket descriptions.
type Builder struct {
	converter *convert.Converter
	now       func() time.Time
}

// NewBuilder creates a Builder using the given converter.
func NewBuilder(converter *convert.Converter) *Builder {
	return &Builder{
		converter: converter,
		now:       time.Now,
	}
}

// Build analyzes one ticket: extracts URLs from the description in
// first-appearance order, converts each one, and aggregates the outcome.
// A URL that fails conversion never aborts the ticket.
func (b *Builder) Build(in TicketInput) Record {
	urls := extract.URLs(in.Description)

	converted := make([]ConvertedURL, 0, len(urls))

	for _, u := range urls {
		result := b.converter.Convert(u)
		if !result.Converted() {
			continue
		}

		converted = append(converted, ConvertedURL{
			OriginalURL: result.Original,
			Converted:   result.Token,
		})
	}

	return Record{
		TicketID:       in.ID,
		Subject:        in.Subject,
		Description:    truncate(in.Description, maxDescription),
		CreatedAt:      in.CreatedAt,
		TicketURL:      in.TicketURL,
		ExtractedURLs:  urls,
		ConvertedURLs:  converted,
		TotalFound:     len(urls),
		TotalConverted: len(converted),
		AnalyzedAt:     b.now(),
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max]) + "..."
}
