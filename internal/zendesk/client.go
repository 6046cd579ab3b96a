// Package zendesk is a minimal client for the Zendesk ticket API: searching
// open tickets on a form, fetching single tickets, and leaving internal
// notes.
package zendesk

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/openautomations/dmcascan/internal/config"
)

// Ticket is the slice of a Zendesk ticket the analyzer cares about.
type Ticket struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	URL         string `json:"url"`
}

// searchResponse is one page of the search API response.
type searchResponse struct {
	Results  []Ticket `json:"results"`
	NextPage string   `json:"next_page"`
}

type ticketEnvelope struct {
	Ticket Ticket `json:"ticket"`
}

type commentPayload struct {
	Ticket struct {
		Comment struct {
			Body   string `json:"body"`
			Public bool   `json:"public"`
		} `json:"comment"`
	} `json:"ticket"`
}

// Client talks to one Zendesk instance.
type Client struct {
	http      *resty.Client
	subdomain string
	formID    string
	log       *zap.Logger
}

// New creates a Client from configuration. HTTP calls carry a timeout and
// retry with exponential backoff.
func New(cfg config.ZendeskConfig, log *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(fmt.Sprintf("https://%s.zendesk.com/api/v2", cfg.Subdomain)).
		SetBasicAuth(cfg.Email+"/token", cfg.APIToken).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http:      http,
		subdomain: cfg.Subdomain,
		formID:    cfg.FormID,
		log:       log,
	}
}

// SearchOpenTickets returns all open tickets on the configured form,
// following search pagination until exhausted.
func (c *Client) SearchOpenTickets(ctx context.Context) ([]Ticket, error) {
	query := fmt.Sprintf("type:ticket form:%s status:open", c.formID)

	c.log.Info("searching tickets", zap.String("query", query))

	var tickets []Ticket

	page := "/search.json"
	params := map[string]string{"query": query}

	for page != "" {
		var body searchResponse

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&body).
			Get(page)
		if err != nil {
			return nil, fmt.Errorf("zendesk search failed: %w", err)
		}

		if resp.IsError() {
			return nil, fmt.Errorf("zendesk search returned HTTP %d", resp.StatusCode())
		}

		tickets = append(tickets, body.Results...)

		// next_page is an absolute URL carrying the query; no extra params.
		page = body.NextPage
		params = nil
	}

	c.log.Info("retrieved tickets", zap.Int("count", len(tickets)))

	return tickets, nil
}

// GetTicket fetches a single ticket by id.
func (c *Client) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	var body ticketEnvelope

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/tickets/%d.json", id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", id, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("fetching ticket %d returned HTTP %d", id, resp.StatusCode())
	}

	return &body.Ticket, nil
}

// AddInternalNote attaches a private comment to a ticket, invisible to the
// requester.
func (c *Client) AddInternalNote(ctx context.Context, id int64, note string) error {
	var payload commentPayload
	payload.Ticket.Comment.Body = note
	payload.Ticket.Comment.Public = false

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put(fmt.Sprintf("/tickets/%d.json", id))
	if err != nil {
		return fmt.Errorf("failed to add note to ticket %d: %w", id, err)
	}

	if resp.IsError() {
		return fmt.Errorf("adding note to ticket %d returned HTTP %d", id, resp.StatusCode())
	}

	c.log.Info("added internal note", zap.Int64("ticket_id", id))

	return nil
}

// AgentURL returns the agent-facing web URL for a ticket.
func (c *Client) AgentURL(id int64) string {
	return fmt.Sprintf("https://%s.zendesk.com/agent/tickets/%s", c.subdomain, strconv.FormatInt(id, 10))
}
