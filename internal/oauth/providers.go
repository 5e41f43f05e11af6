package oauth

import "golang.org/x/oauth2"

// googleEndpoint and microsoftEndpoint are the two identity providers this
// package ships device-code support for; connectors needing another
// provider construct their own oauth2Provider with NewGeneric.
var (
	googleEndpoint = oauth2.Endpoint{
		AuthURL:       "https://accounts.google.com/o/oauth2/auth",
		TokenURL:      "https://oauth2.googleapis.com/token",
		DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
	}
	microsoftEndpoint = oauth2.Endpoint{
		AuthURL:       "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
		TokenURL:      "https://login.microsoftonline.com/common/oauth2/v2.0/token",
		DeviceAuthURL: "https://login.microsoftonline.com/common/oauth2/v2.0/devicecode",
	}
)

// NewGoogleProvider builds a device-code Provider for Google identity
// (used by connectors like google-calendar).
func NewGoogleProvider(clientID, clientSecret string, scopes []string) Provider {
	return newOAuth2Provider(clientID, clientSecret, googleEndpoint, scopes)
}

// NewMicrosoftProvider builds a device-code Provider for Microsoft
// identity, scoped to a single tenant when tenantID is non-empty.
func NewMicrosoftProvider(clientID, clientSecret, tenantID string, scopes []string) Provider {
	endpoint := microsoftEndpoint
	if tenantID != "" {
		endpoint.AuthURL = "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/authorize"
		endpoint.TokenURL = "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/token"
		endpoint.DeviceAuthURL = "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/devicecode"
	}
	return newOAuth2Provider(clientID, clientSecret, endpoint, scopes)
}

// NewGeneric builds a device-code Provider for any OAuth2 endpoint a
// connector supplies directly.
func NewGeneric(clientID, clientSecret string, endpoint oauth2.Endpoint, scopes []string) Provider {
	return newOAuth2Provider(clientID, clientSecret, endpoint, scopes)
}
