// ABOUTME: Tests for the webhook gateway envelope and endpoint helpers
// ABOUTME: Uses httptest servers to exercise success, HTTP failures, and transport errors
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestCallSuccess(t *testing.T) {
	var got map[string]any
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EndpointPDF, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Len(t, r.Header.Get("X-Request-ID"), 26)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"pdf_url":"https://files.example.com/p1.pdf"}`)
	})

	resp := client.GeneratePDF(context.Background(), "p1", "u1")
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "https://files.example.com/p1.pdf", resp.Data.PDFURL)
	assert.Empty(t, resp.Error)
	assert.NoError(t, resp.Err())
	assert.Equal(t, map[string]any{"proposal_id": "p1", "user_id": "u1"}, got)
}

func TestCallNon2xx(t *testing.T) {
	var calls atomic.Int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	resp := Call[PDFResult](context.Background(), client, EndpointPDF, PDFRequest{ProposalID: "p1"})
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "HTTP 500", resp.Error)
	assert.EqualError(t, resp.Err(), "HTTP 500")
	assert.Equal(t, int32(1), calls.Load(), "gateway must not retry")
}

func TestCallTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	resp := Call[ManageResult](context.Background(), New(url), EndpointManage, ManageRequest{})
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestCallInvalidJSON(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>not json</html>")
	})

	resp := Call[PDFResult](context.Background(), client, EndpointPDF, PDFRequest{})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid response")
}

func TestCallUnencodablePayload(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	resp := Call[PDFResult](context.Background(), client, EndpointPDF, map[string]any{"bad": make(chan int)})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "failed to encode payload")
}

func TestCallCanceledContext(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := Call[PDFResult](ctx, client, EndpointPDF, PDFRequest{})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "context canceled")
}

func TestManageRequestOmitsEmptyOptionals(t *testing.T) {
	var body map[string]any
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	resp := client.ManageProposal(context.Background(), ManageRequest{
		Action:       ActionUpdateStatus,
		ProposalID:   "p1",
		UserID:       "u1",
		Status:       "lost",
		OutcomeNotes: "budget cut",
	})
	require.True(t, resp.Success)
	assert.True(t, resp.Data.Success)
	assert.Equal(t, map[string]any{
		"action":        "update_status",
		"proposal_id":   "p1",
		"user_id":       "u1",
		"status":        "lost",
		"outcome_notes": "budget cut",
	}, body)
}

func TestFirefliesHelpers(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req FirefliesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Action {
		case "list_meetings":
			_, _ = io.WriteString(w, `{"meetings":[{"id":"m1","title":"Discovery","date":"2024-05-01","duration":42.5,"participants":["a@acme.com"]}]}`)
		case "get_transcript":
			assert.Equal(t, "m1", req.MeetingID)
			_, _ = io.WriteString(w, `{"transcript":"hello"}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	meetings := client.ListMeetings(context.Background(), "u1")
	require.True(t, meetings.Success)
	require.Len(t, meetings.Data.Meetings, 1)
	assert.Equal(t, "Discovery", meetings.Data.Meetings[0].Title)

	transcript := client.GetTranscript(context.Background(), "u1", "m1")
	require.True(t, transcript.Success)
	assert.Equal(t, "hello", transcript.Data.Transcript)
}
