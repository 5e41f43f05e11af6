package reddit

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

	c := New(arbor.NewLogger())
	c.http.HTTP = &http.Client{Transport: redirectTransport{base: base}}
	return c
}

func TestSearchBuildsSubredditPath(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/r/golang/search", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("restrict_sr"))
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"children": []any{}}})
	})

	_, err := c.CallTool(context.Background(), connector.CallRequest{
		Name: "search",
		Arguments: map[string]json.RawMessage{
			"query":     json.RawMessage(`"goroutines"`),
			"subreddit": json.RawMessage(`"golang"`),
		},
	})
	require.NoError(t, err)
}

func TestGetPostBuildsInfoPath(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "t3_abc123", r.URL.Query().Get("id"))
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	})

	_, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "get_post",
		Arguments: map[string]json.RawMessage{"id": json.RawMessage(`"abc123"`)},
	})
	require.NoError(t, err)
}

func TestConfigSchemaRequiresClientCredentials(t *testing.T) {
	c := New(arbor.NewLogger())
	err := c.ConfigSchema().Validate(connector.AuthDetails{})
	require.Error(t, err)
}

func TestCallToolRejectsUnknownTool(t *testing.T) {
	c := New(arbor.NewLogger())
	_, err := c.CallTool(context.Background(), connector.CallRequest{Name: "nope"})
	require.Error(t, err)
}
