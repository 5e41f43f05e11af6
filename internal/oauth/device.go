// Package oauth implements device-code authorization and token refresh for
// the Google and Microsoft identity providers. Flows are exposed as a
// provider-facing interface; core connectors depend only on Provider,
// never on a specific vendor.
package oauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/arivu/arivu/internal/connector"
)

// DeviceAuthorization is the response to the authorize step.
type DeviceAuthorization struct {
	DeviceCode      string
	UserCode        string
	VerificationURI string
	Interval        time.Duration
	ExpiresAt       time.Time
}

// Provider is the interface every OAuth-backed connector depends on;
// concrete Google/Microsoft wiring lives behind it so connectors never
// import a vendor-specific package.
type Provider interface {
	Authorize(ctx context.Context) (DeviceAuthorization, error)
	Poll(ctx context.Context, deviceCode string) (connector.AuthDetails, error)
	Refresh(ctx context.Context, details connector.AuthDetails) (connector.AuthDetails, error)
}

// oauth2Provider implements Provider on top of golang.org/x/oauth2's
// generic device-authorization grant, parameterized per vendor by endpoint.
type oauth2Provider struct {
	config *oauth2.Config
}

func newOAuth2Provider(clientID, clientSecret string, endpoint oauth2.Endpoint, scopes []string) *oauth2Provider {
	return &oauth2Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
	}
}

func (p *oauth2Provider) Authorize(ctx context.Context) (DeviceAuthorization, error) {
	resp, err := p.config.DeviceAuth(ctx)
	if err != nil {
		return DeviceAuthorization{}, connector.Wrap(connector.KindHTTPRequest, "device authorization request failed", err)
	}
	return DeviceAuthorization{
		DeviceCode:      resp.DeviceCode,
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		Interval:        time.Duration(resp.Interval) * time.Second,
		ExpiresAt:       resp.Expiry,
	}, nil
}

// Poll exchanges a device code for tokens with a single token request; a
// still-pending, slowed-down or expired authorization is returned as an
// Authentication error rather than waited on.
func (p *oauth2Provider) Poll(ctx context.Context, deviceCode string) (connector.AuthDetails, error) {
	token, err := p.config.Exchange(ctx, "",
		oauth2.SetAuthURLParam("grant_type", "urn:ietf:params:oauth:grant-type:device_code"),
		oauth2.SetAuthURLParam("device_code", deviceCode),
	)
	if err != nil {
		return connector.AuthDetails{}, classifyDeviceError(err)
	}
	return tokenToDetails(p.config, token), nil
}

func (p *oauth2Provider) Refresh(ctx context.Context, details connector.AuthDetails) (connector.AuthDetails, error) {
	refreshToken := details.Get("refresh_token")
	if refreshToken == "" {
		return connector.AuthDetails{}, connector.Authentication("no refresh_token stored for this provider")
	}
	src := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return connector.AuthDetails{}, connector.Wrap(connector.KindAuthentication, "refreshing access token", err)
	}
	out := tokenToDetails(p.config, token)
	if out.Get("refresh_token") == "" {
		out["refresh_token"] = refreshToken
	}
	return out, nil
}

func tokenToDetails(config *oauth2.Config, token *oauth2.Token) connector.AuthDetails {
	details := connector.AuthDetails{
		"access_token": token.AccessToken,
		"client_id":    config.ClientID,
	}
	if token.RefreshToken != "" {
		details["refresh_token"] = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		details["expires_at"] = fmt.Sprintf("%d", token.Expiry.Unix())
	}
	return details
}

func classifyDeviceError(err error) error {
	msg := err.Error()
	for _, pending := range []string{"authorization_pending", "slow_down", "expired_token"} {
		if strings.Contains(msg, pending) {
			return connector.Authentication("%s", msg)
		}
	}
	return connector.InvalidParams("%s", msg)
}
