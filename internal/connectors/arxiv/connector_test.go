package arxiv

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

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762</id>
    <title>Attention Is All You Need</title>
    <summary>The dominant sequence transduction models...</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
  </entry>
</feed>`

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

func TestSearchParsesAtomFeed(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomFixture))
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "search",
		Arguments: map[string]json.RawMessage{"query": json.RawMessage(`"attention"`)},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "Attention Is All You Need")
	require.Contains(t, string(result.StructuredContent), "Ashish Vaswani")
}

func TestGetPaperNotFoundWhenEmpty(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	_, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "get_paper",
		Arguments: map[string]json.RawMessage{"id": json.RawMessage(`"9999.99999"`)},
	})
	require.Error(t, err)
}

func TestCallToolRejectsUnknownTool(t *testing.T) {
	c := New(arbor.NewLogger())
	_, err := c.CallTool(context.Background(), connector.CallRequest{Name: "nope"})
	require.Error(t, err)
}
