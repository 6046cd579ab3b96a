package zendesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openautomations/dmcascan/internal/config"
	"github.com/openautomations/dmcascan/internal/logger"
)

// newTestClient points a Client at a test server instead of Zendesk.
func newTestClient(serverURL string) *Client {
	c := New(config.ZendeskConfig{
		Subdomain: "example",
		Email:     "agent@example.com",
		APIToken:  "secret",
		FormID:    "360003074771",
	}, logger.Nop())

	c.http.SetBaseURL(serverURL)
	c.http.SetRetryCount(0)

	return c
}

func TestSearchOpenTickets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "type:ticket form:360003074771 status:open", r.URL.Query().Get("query"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "request must carry basic auth")
		assert.Equal(t, "agent@example.com/token", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"results": [
				{"id": 107289, "subject": "DMCA request", "description": "see https://opensea.io/collection/cats", "created_at": "2026-02-20T10:00:00Z"},
				{"id": 107290, "subject": "Another request", "description": "no links"}
			],
			"next_page": ""
		}`)
	}))
	defer server.Close()

	tickets, err := newTestClient(server.URL).SearchOpenTickets(context.Background())
	require.NoError(t, err)

	require.Len(t, tickets, 2)
	assert.Equal(t, int64(107289), tickets[0].ID)
	assert.Equal(t, "DMCA request", tickets[0].Subject)
	assert.Equal(t, "2026-02-20T10:00:00Z", tickets[0].CreatedAt)
	assert.Equal(t, int64(107290), tickets[1].ID)
}

func TestSearchOpenTicketsFollowsPagination(t *testing.T) {
	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/search.json":
			fmt.Fprintf(w, `{"results": [{"id": 1, "subject": "first"}], "next_page": %q}`, server.URL+"/search_page2.json")
		case "/search_page2.json":
			fmt.Fprint(w, `{"results": [{"id": 2, "subject": "second"}], "next_page": ""}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tickets, err := newTestClient(server.URL).SearchOpenTickets(context.Background())
	require.NoError(t, err)

	require.Len(t, tickets, 2)
	assert.Equal(t, int64(1), tickets[0].ID)
	assert.Equal(t, int64(2), tickets[1].ID)
}

func TestSearchOpenTicketsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchOpenTickets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGetTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets/107289.json", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ticket": {"id": 107289, "subject": "DMCA request", "created_at": "2026-02-20T10:00:00Z"}}`)
	}))
	defer server.Close()

	ticket, err := newTestClient(server.URL).GetTicket(context.Background(), 107289)
	require.NoError(t, err)

	assert.Equal(t, int64(107289), ticket.ID)
	assert.Equal(t, "DMCA request", ticket.Subject)
}

func TestAddInternalNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tickets/107289.json", r.URL.Path)

		var payload commentPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		assert.Equal(t, "OpenAutomations: DMCA request is processed", payload.Ticket.Comment.Body)
		assert.False(t, payload.Ticket.Comment.Public, "note must be internal")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ticket": {"id": 107289}}`)
	}))
	defer server.Close()

	err := newTestClient(server.URL).AddInternalNote(context.Background(), 107289,
		"OpenAutomations: DMCA request is processed")
	require.NoError(t, err)
}

func TestAddInternalNoteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	err := newTestClient(server.URL).AddInternalNote(context.Background(), 1, "note")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestAgentURL(t *testing.T) {
	c := New(config.ZendeskConfig{Subdomain: "example"}, logger.Nop())

	assert.Equal(t, "https://example.zendesk.com/agent/tickets/107289", c.AgentURL(107289))
}
