package googlecalendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
)

type redirectTransport struct{ base *url.URL }

func (t redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.base.Scheme
	req.URL.Host = t.base.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL)
	require.NoError(t, err)

	c := New(arbor.NewLogger(), nil, "client-id", "client-secret")
	c.http.HTTP = &http.Client{Transport: redirectTransport{base: base}}
	c.auth = connector.AuthDetails{"access_token": "test-access-token"}
	return c
}

func TestListEventsSendsBearerAuth(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		require.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{{"summary": "Standup"}}})
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{Name: "search"})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "Standup")
}

func TestGetEventBuildsPath(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/calendars/primary/events/evt1")
		json.NewEncoder(w).Encode(map[string]any{"id": "evt1"})
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "get_event",
		Arguments: map[string]json.RawMessage{"event_id": json.RawMessage(`"evt1"`)},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "evt1")
}

func TestTestAuthFailsWithoutAccessToken(t *testing.T) {
	c := New(arbor.NewLogger(), nil, "client-id", "client-secret")
	require.Error(t, c.TestAuth(context.Background()))
}

func TestCallToolRejectsUnknownTool(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := c.CallTool(context.Background(), connector.CallRequest{Name: "nope"})
	require.Error(t, err)
}
