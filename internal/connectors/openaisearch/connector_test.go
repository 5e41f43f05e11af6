package openaisearch

import (
	"context"
	"encoding/json"
	"io"
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
	c.client = &http.Client{Transport: redirectTransport{base: base}}
	c.auth = connector.AuthDetails{"api_key": "sk-test"}
	return c
}

func TestSearchSendsBearerAuthAndModel(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Equal(t, "gpt-4.1-mini", payload["model"])
		require.Equal(t, "what is go", payload["input"])
		json.NewEncoder(w).Encode(map[string]any{"output_text": "Go is a programming language."})
	})

	result, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "search",
		Arguments: map[string]json.RawMessage{"query": json.RawMessage(`"what is go"`)},
	})
	require.NoError(t, err)
	require.Contains(t, string(result.StructuredContent), "Go is a programming language")
}

func TestSearchHonorsModelOverride(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Equal(t, "gpt-4.1", payload["model"])
		json.NewEncoder(w).Encode(map[string]any{})
	})

	_, err := c.CallTool(context.Background(), connector.CallRequest{
		Name: "search",
		Arguments: map[string]json.RawMessage{
			"query": json.RawMessage(`"test"`),
			"model": json.RawMessage(`"gpt-4.1"`),
		},
	})
	require.NoError(t, err)
}

func TestTestAuthFailsWithoutAPIKey(t *testing.T) {
	c := New(arbor.NewLogger())
	require.Error(t, c.TestAuth(context.Background()))
}

func TestCredentialProviderIsSharedOpenAIName(t *testing.T) {
	c := New(arbor.NewLogger())
	require.Equal(t, "openai", c.CredentialProvider())
	require.Equal(t, "openai-search", c.Name())
}
