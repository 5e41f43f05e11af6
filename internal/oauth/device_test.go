package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/arivu/arivu/internal/connector"
)

func newTestProvider(t *testing.T, tokenHandler http.HandlerFunc) (*oauth2Provider, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/device/code", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "DEVICE123",
			"user_code":        "ABCD-EFGH",
			"verification_uri": "https://example.test/activate",
			"interval":         5,
			"expires_in":       600,
		})
	})
	mux.HandleFunc("/token", tokenHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	provider := newOAuth2Provider("client-id", "client-secret", oauth2.Endpoint{
		DeviceAuthURL: srv.URL + "/device/code",
		TokenURL:      srv.URL + "/token",
	}, []string{"profile"})
	return provider, srv
}

func TestAuthorizeReturnsDeviceCodeFields(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})

	auth, err := provider.Authorize(context.Background())
	require.NoError(t, err)
	require.Equal(t, "DEVICE123", auth.DeviceCode)
	require.Equal(t, "ABCD-EFGH", auth.UserCode)
	require.Equal(t, "https://example.test/activate", auth.VerificationURI)
}

func TestPollSucceedsReturnsAccessAndRefreshToken(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "ACCESS1",
			"refresh_token": "REFRESH1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})

	details, err := provider.Poll(context.Background(), "DEVICE123")
	require.NoError(t, err)
	require.Equal(t, "ACCESS1", details.Get("access_token"))
	require.Equal(t, "REFRESH1", details.Get("refresh_token"))
	require.NotEmpty(t, details.Get("expires_at"))
}

func TestPollAuthorizationPendingIsAuthenticationError(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "authorization_pending",
		})
	})

	_, err := provider.Poll(context.Background(), "DEVICE123")
	require.Error(t, err)
	var connErr *connector.Error
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, connector.KindAuthentication, connErr.Kind)
}

func TestPollUnknownErrorIsInvalidParams(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "invalid_client",
		})
	})

	_, err := provider.Poll(context.Background(), "DEVICE123")
	require.Error(t, err)
	var connErr *connector.Error
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, connector.KindInvalidParams, connErr.Kind)
}

func TestRefreshWithoutStoredRefreshTokenIsAuthenticationError(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := provider.Refresh(context.Background(), connector.AuthDetails{})
	require.Error(t, err)
	var connErr *connector.Error
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, connector.KindAuthentication, connErr.Kind)
}

func TestRefreshExchangesRefreshTokenForNewAccessToken(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "ACCESS2",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	details, err := provider.Refresh(context.Background(), connector.AuthDetails{"refresh_token": "REFRESH1"})
	require.NoError(t, err)
	require.Equal(t, "ACCESS2", details.Get("access_token"))
	require.Equal(t, "REFRESH1", details.Get("refresh_token"))
}
