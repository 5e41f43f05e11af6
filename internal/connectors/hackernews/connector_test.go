package hackernews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
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

func TestGetItemReturnsStory(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/item/8863.json", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": 8863, "title": "My YC app"})
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "get_item",
		Arguments: map[string]json.RawMessage{"id": json.RawMessage(`8863`)},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "My YC app")
}

func TestGetItemNotFoundWhenNull(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})

	_, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "get_item",
		Arguments: map[string]json.RawMessage{"id": json.RawMessage(`1`)},
	})
	require.Error(t, err)
}

func TestSearchFetchesTopStories(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/topstories.json"):
			json.NewEncoder(w).Encode([]int{1, 2, 3})
		case strings.HasSuffix(r.URL.Path, "/item/1.json"):
			json.NewEncoder(w).Encode(map[string]any{"id": 1, "title": "First"})
		case strings.HasSuffix(r.URL.Path, "/item/2.json"):
			json.NewEncoder(w).Encode(map[string]any{"id": 2, "title": "Second"})
		default:
			w.Write([]byte("null"))
		}
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "search",
		Arguments: map[string]json.RawMessage{"limit": json.RawMessage(`2`)},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "First")
	require.Contains(t, string(result.StructuredContent), "Second")
}

func TestCallToolRejectsUnknownTool(t *testing.T) {
	c := New(arbor.NewLogger())
	_, err := c.CallTool(context.Background(), connector.CallRequest{Name: "nope"})
	require.Error(t, err)
}
