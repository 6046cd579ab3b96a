package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openautomations/dmcascan/internal/analyze"
	"github.com/openautomations/dmcascan/internal/config"
	"github.com/openautomations/dmcascan/internal/logger"
)

func newTestClient(serverURL string) *Client {
	c := New(config.AirtableConfig{
		APIKey:  "key",
		BaseID:  "appTEST",
		TableID: "tblTEST",
		ViewID:  "viwTEST",
	}, logger.Nop())

	c.http.SetBaseURL(serverURL)
	c.http.SetRetryCount(0)
	c.delay = 0

	return c
}

func makeRows(n int) []Fields {
	rows := make([]Fields, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Fields{Item: fmt.Sprintf("ETHEREUM-0x%04d", i), Status: "Done"})
	}

	return rows
}

func TestUploadBatches(t *testing.T) {
	tests := []struct {
		name        string
		rows        int
		wantBatches []int
	}{
		{name: "single partial batch", rows: 3, wantBatches: []int{3}},
		{name: "exact batch", rows: 10, wantBatches: []int{10}},
		{name: "split batches", rows: 23, wantBatches: []int{10, 10, 3}},
		{name: "no rows", rows: 0, wantBatches: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBatches []int

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/appTEST/tblTEST", r.URL.Path)
				assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

				var body createRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

				gotBatches = append(gotBatches, len(body.Records))

				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"records": []}`)
			}))
			defer server.Close()

			uploaded, err := newTestClient(server.URL).Upload(context.Background(), makeRows(tt.rows))
			require.NoError(t, err)

			assert.Equal(t, tt.rows, uploaded)
			assert.Equal(t, tt.wantBatches, gotBatches)
		})
	}
}

func TestUploadStopsOnHTTPError(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		if calls == 2 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"records": []}`)
	}))
	defer server.Close()

	uploaded, err := newTestClient(server.URL).Upload(context.Background(), makeRows(15))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Equal(t, 10, uploaded, "first batch should have counted before the failure")
}

func TestEnabled(t *testing.T) {
	assert.True(t, New(config.AirtableConfig{APIKey: "key"}, logger.Nop()).Enabled())
	assert.False(t, New(config.AirtableConfig{}, logger.Nop()).Enabled())
}

func TestWebURL(t *testing.T) {
	withView := New(config.AirtableConfig{BaseID: "app1", TableID: "tbl1", ViewID: "viw1"}, logger.Nop())
	assert.Equal(t, "https://airtable.com/app1/tbl1/viw1?blocks=hide", withView.WebURL())

	withoutView := New(config.AirtableConfig{BaseID: "app1", TableID: "tbl1"}, logger.Nop())
	assert.Equal(t, "https://airtable.com/app1/tbl1", withoutView.WebURL())
}

func TestRowsFromRecords(t *testing.T) {
	records := []analyze.Record{
		{
			TicketID:  "107289",
			Subject:   "DMCA takedown",
			CreatedAt: "2026-02-20T10:00:00Z",
			TicketURL: "https://example.zendesk.com/agent/tickets/107289",
			ConvertedURLs: []analyze.ConvertedURL{
				{OriginalURL: "https://opensea.io/assets/ethereum/0xabc/1", Converted: "ETHEREUM-0xabc:1"},
				{OriginalURL: "https://opensea.io/collection/cats", Converted: "cats"},
			},
		},
		{
			// Nothing converted: contributes no rows.
			TicketID:      "107290",
			ExtractedURLs: []string{"https://example.com/evidence.pdf"},
		},
	}

	rows := RowsFromRecords(records)
	require.Len(t, rows, 2)

	assert.Equal(t, "ETHEREUM-0xabc:1", rows[0].Item)
	assert.Equal(t, "Done", rows[0].Status)
	assert.Equal(t, "2026-02-20", rows[0].DateReceived)
	assert.Equal(t, "https://example.zendesk.com/agent/tickets/107289", rows[0].Zendesk)
	assert.Contains(t, rows[0].Notes, "Ticket #107289: DMCA takedown")
	assert.Contains(t, rows[0].Notes, "https://opensea.io/assets/ethereum/0xabc/1")

	assert.Equal(t, "cats", rows[1].Item)
}

func TestDateOnly(t *testing.T) {
	tests := []struct {
		name    string
		created string
		want    string
	}{
		{name: "rfc3339 utc", created: "2026-02-20T10:00:00Z", want: "2026-02-20"},
		{name: "rfc3339 with offset", created: "2026-02-20T23:30:00+05:00", want: "2026-02-20"},
		{name: "unparseable falls back to first ten chars", created: "2026-02-20 10:00:00", want: "2026-02-20"},
		{name: "short garbage kept as-is", created: "yesterday", want: "yesterday"},
		{name: "empty", created: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dateOnly(tt.created))
		})
	}
}
