// Package googlecalendar wraps the Google Calendar API v3, authenticated
// through the device-code flow in internal/oauth: list upcoming events and
// fetch one event by ID.
package googlecalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/auth"
	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/httpjson"
	"github.com/arivu/arivu/internal/oauth"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "google-calendar"

const apiBase = "https://www.googleapis.com/calendar/v3"

var scopes = []string{"https://www.googleapis.com/auth/calendar.readonly"}

type Connector struct {
	connector.Base
	http      *httpjson.Client
	provider  oauth.Provider
	authStore *auth.Store
	auth      connector.AuthDetails
}

// New builds the connector with a caller-supplied OAuth client ID/secret;
// the device-code flow runs against oauth.NewGoogleProvider and refreshed
// tokens are persisted through authStore via auth.EnsureAccess.
func New(logger arbor.ILogger, authStore *auth.Store, clientID, clientSecret string) *Connector {
	return &Connector{
		http:      httpjson.New(transport.NewDefaultClient(0), logger),
		provider:  oauth.NewGoogleProvider(clientID, clientSecret, scopes),
		authStore: authStore,
		auth:      connector.AuthDetails{},
	}
}

// Refresh satisfies auth.Refresher by delegating to the OAuth provider.
func (c *Connector) Refresh(ctx context.Context, details connector.AuthDetails) (connector.AuthDetails, error) {
	return c.provider.Refresh(ctx, details)
}

func (c *Connector) Name() string        { return Name }
func (c *Connector) Description() string { return "Google Calendar event listing and lookup, OAuth-backed." }
func (c *Connector) CredentialProvider() string { return Name }

func (c *Connector) ConfigSchema() connector.ConfigSchema {
	return connector.ConfigSchema{Fields: []connector.ConfigField{
		{Name: "access_token", Label: "Access token", Type: connector.FieldSecret, Required: true,
			Description: "Obtained via the device-code flow; set automatically after authorization completes."},
		{Name: "refresh_token", Label: "Refresh token", Type: connector.FieldSecret, Required: false},
		{Name: "expires_at", Label: "Access token expiry (unix seconds)", Type: connector.FieldText, Required: false},
	}}
}

func (c *Connector) Initialize(ctx context.Context, req connector.InitializeRequest) (connector.InitializeResult, error) {
	return connector.InitializeResult{ProtocolVersion: req.ProtocolVersion, ServerName: Name, ServerVersion: "1.0.0"}, nil
}

func (c *Connector) GetAuthDetails(ctx context.Context) (connector.AuthDetails, error) {
	return c.auth.Clone(), nil
}

func (c *Connector) SetAuthDetails(ctx context.Context, details connector.AuthDetails) error {
	c.auth = details.Clone()
	return nil
}

func (c *Connector) TestAuth(ctx context.Context) error {
	if c.auth.Get("access_token") == "" {
		return connector.Authentication("no Google OAuth token configured; run device authorization first")
	}
	var calendars map[string]any
	return c.http.GetJSON(ctx, apiBase+"/users/me/calendarList", c.headers(), &calendars)
}

// Authorize starts the device-code flow; callers poll with AwaitAuthorization.
func (c *Connector) Authorize(ctx context.Context) (oauth.DeviceAuthorization, error) {
	return c.provider.Authorize(ctx)
}

// AwaitAuthorization exchanges a device code for tokens once the user has
// approved the request, and stores the resulting credentials.
func (c *Connector) AwaitAuthorization(ctx context.Context, deviceCode string) error {
	details, err := c.provider.Poll(ctx, deviceCode)
	if err != nil {
		return err
	}
	c.auth = details
	return nil
}

// ensureFreshToken refreshes and persists the access token through the auth
// store when it is within auth.EnsureAccess's refresh margin of expiring.
func (c *Connector) ensureFreshToken(ctx context.Context) error {
	if c.authStore == nil {
		return nil
	}
	fresh, err := auth.EnsureAccess(ctx, c.authStore, Name, c, time.Now())
	if err != nil {
		return err
	}
	c.auth = fresh
	return nil
}

func (c *Connector) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.auth.Get("access_token")}
}

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "search",
			Description: "List upcoming events on the primary calendar.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"limit":{"type":"integer"}},"required":[]}`),
		},
		{
			Name:        "get_event",
			Description: "Fetch a single event by ID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"event_id":{"type":"string"}},"required":["event_id"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	if err := c.ensureFreshToken(ctx); err != nil {
		return connector.CallResult{}, err
	}
	switch req.Name {
	case "search":
		return c.listEvents(ctx, req)
	case "get_event":
		return c.getEvent(ctx, req)
	default:
		return connector.CallResult{}, connector.ToolNotFound(req.Name)
	}
}

func (c *Connector) listEvents(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	limit := 10
	_ = req.Arg("limit", &limit)

	u := fmt.Sprintf("%s/calendars/primary/events?maxResults=%d&timeMin=%s&singleEvents=true&orderBy=startTime",
		apiBase, limit, url.QueryEscape(time.Now().UTC().Format(time.RFC3339)))

	var result map[string]any
	if err := c.http.GetJSON(ctx, u, c.headers(), &result); err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(result)
}

func (c *Connector) getEvent(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var eventID string
	if err := req.Arg("event_id", &eventID); err != nil {
		return connector.CallResult{}, err
	}

	u := fmt.Sprintf("%s/calendars/primary/events/%s", apiBase, url.PathEscape(eventID))
	var result map[string]any
	if err := c.http.GetJSON(ctx, u, c.headers(), &result); err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(result)
}

func marshalResult(v any) (connector.CallResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: data}, nil
}
