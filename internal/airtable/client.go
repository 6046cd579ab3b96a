// Package airtable uploads analysis results to an Airtable table in the
// batches the API allows.
package airtable

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/openautomations/dmcascan/internal/analyze"
	"github.com/openautomations/dmcascan/internal/config"
)

// batchSize is the Airtable API limit on records per create request.
const batchSize = 10

// batchDelay spaces out consecutive batch requests to stay inside the
// Airtable rate limit.
const batchDelay = 200 * time.Millisecond

// Fields maps one converted URL onto the moderation table's columns. The
// column names are part of the downstream automation and must not change.
type Fields struct {
	Item         string `json:"item"`
	DateReceived string `json:"Date Received,omitempty"`
	Zendesk      string `json:"Zendesk,omitempty"`
	Status       string `json:"Status"`
	Notes        string `json:"Notes"`
}

type record struct {
	Fields Fields `json:"fields"`
}

type createRequest struct {
	Records []record `json:"records"`
}

// Client uploads rows to one Airtable table.
type Client struct {
	http  *resty.Client
	cfg   config.AirtableConfig
	delay time.Duration
	log   *zap.Logger
}

// New creates a Client from configuration.
func New(cfg config.AirtableConfig, log *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL("https://api.airtable.com/v0").
		SetAuthToken(cfg.APIKey).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:  http,
		cfg:   cfg,
		delay: batchDelay,
		log:   log,
	}
}

// Enabled reports whether an API key is configured. Without one the upload
// stage is skipped rather than failed.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// WebURL returns the browser URL of the destination view.
func (c *Client) WebURL() string {
	if c.cfg.ViewID == "" {
		return fmt.Sprintf("https://airtable.com/%s/%s", c.cfg.BaseID, c.cfg.TableID)
	}

	return fmt.Sprintf("https://airtable.com/%s/%s/%s?blocks=hide", c.cfg.BaseID, c.cfg.TableID, c.cfg.ViewID)
}

// dateOnly reduces a Zendesk RFC3339 timestamp to the YYYY-MM-DD value the
// Date Received column expects. Unparseable values fall back to their first
// ten characters.
func dateOnly(createdAt string) string {
	if createdAt == "" {
		return ""
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return t.Format("2006-01-02")
	}

	if len(createdAt) > 10 {
		return createdAt[:10]
	}

	return createdAt
}

// RowsFromRecords flattens analysis records into table rows, one row per
// converted URL.
func RowsFromRecords(records []analyze.Record) []Fields {
	var rows []Fields

	for _, rec := range records {
		for _, cu := range rec.ConvertedURLs {
			rows = append(rows, Fields{
				Item:         cu.Converted,
				DateReceived: dateOnly(rec.CreatedAt),
				Zendesk:      rec.TicketURL,
				Status:       "Done",
				Notes: fmt.Sprintf("Ticket #%s: %s\nOriginal URL: %s",
					rec.TicketID, rec.Subject, cu.OriginalURL),
			})
		}
	}

	return rows
}

// Upload creates the given rows in batches, pausing between batches. It
// returns the number of rows uploaded; a failed batch aborts the upload.
func (c *Client) Upload(ctx context.Context, rows []Fields) (int, error) {
	if len(rows) == 0 {
		c.log.Info("no records to upload")
		return 0, nil
	}

	path := fmt.Sprintf("/%s/%s", c.cfg.BaseID, c.cfg.TableID)

	uploaded := 0

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := make([]record, 0, end-start)
		for _, row := range rows[start:end] {
			batch = append(batch, record{Fields: row})
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(createRequest{Records: batch}).
			Post(path)
		if err != nil {
			return uploaded, fmt.Errorf("airtable batch %d failed: %w", start/batchSize+1, err)
		}

		if resp.IsError() {
			return uploaded, fmt.Errorf("airtable batch %d returned HTTP %d", start/batchSize+1, resp.StatusCode())
		}

		uploaded += len(batch)

		c.log.Info("uploaded batch",
			zap.Int("batch", start/batchSize+1),
			zap.Int("records", len(batch)))

		if end < len(rows) && c.delay > 0 {
			select {
			case <-ctx.Done():
				return uploaded, ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}

	c.log.Info("upload complete",
		zap.Int("records", uploaded),
		zap.String("view", c.WebURL()))

	return uploaded, nil
}
