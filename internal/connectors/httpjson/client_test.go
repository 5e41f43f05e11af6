package httpjson

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
)

func TestGetJSONDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "v1", r.Header.Get("X-Test"))
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	c := New(server.Client(), arbor.NewLogger())
	var out map[string]string
	err := c.GetJSON(context.Background(), server.URL, map[string]string{"X-Test": "v1"}, &out)
	require.NoError(t, err)
	require.Equal(t, "yes", out["ok"])
}

func TestGetJSONClassifiesUnauthorizedAsAuthentication(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.Client(), arbor.NewLogger())
	c.Policy.MaxAttempts = 0
	var out map[string]string
	err := c.GetJSON(context.Background(), server.URL, nil, &out)
	require.Error(t, err)

	var connErr *connector.Error
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, connector.KindAuthentication, connErr.Kind)
}

func TestGetJSONClassifiesOtherErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("teapot"))
	}))
	defer server.Close()

	c := New(server.Client(), arbor.NewLogger())
	c.Policy.MaxAttempts = 0
	var out map[string]string
	err := c.GetJSON(context.Background(), server.URL, nil, &out)
	require.Error(t, err)

	var connErr *connector.Error
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, connector.KindOther, connErr.Kind)
	require.Equal(t, http.StatusTeapot, connErr.Status)
}

func TestGetRawWithContentTypeReturnsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	c := New(server.Client(), arbor.NewLogger())
	body, contentType, err := c.GetRawWithContentType(context.Background(), server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", contentType)
	require.Equal(t, "%PDF-1.4", string(body))
}
