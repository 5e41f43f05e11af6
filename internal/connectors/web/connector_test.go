package web

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

const searchResultsHTML = `<html><body>
<div class="result__body">
  <a class="result__title">The Go Programming Language</a>
  <a class="result__url">golang.org</a>
  <a class="result__snippet">Go is an open source programming language.</a>
</div>
</body></html>`

func TestSearchScrapesResultList(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchResultsHTML))
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "search",
		Arguments: map[string]json.RawMessage{"query": json.RawMessage(`"golang"`)},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "The Go Programming Language")
}

func TestFetchConvertsHTMLToMarkdown(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><h1>Hello</h1><p>World</p></body></html>"))
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "fetch",
		Arguments: map[string]json.RawMessage{"url": json.RawMessage(`"http://example.com/page"`)},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "Hello")
	require.Contains(t, string(result.StructuredContent), "World")
}

func TestCallToolRejectsUnknownTool(t *testing.T) {
	c := New(arbor.NewLogger())
	_, err := c.CallTool(context.Background(), connector.CallRequest{Name: "nope"})
	require.Error(t, err)
}
