// Package reddit wraps the Reddit API using an app-only OAuth2
// client-credentials grant: subreddit listing search and a single post
// lookup by ID.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/httpjson"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "reddit"

const (
	tokenURL = "https://www.reddit.com/api/v1/access_token"
	apiBase  = "https://oauth.reddit.com"
)

type Connector struct {
	connector.Base
	logger arbor.ILogger
	http   *httpjson.Client
	auth   connector.AuthDetails
}

// redditRatePerSecond matches Reddit's documented app-only rate limit of 60
// requests per minute.
const redditRatePerSecond = 1.0

func New(logger arbor.ILogger) *Connector {
	return &Connector{
		logger: logger,
		http:   httpjson.New(transport.NewRateLimitedClient(0, redditRatePerSecond, 5), logger),
		auth:   connector.AuthDetails{},
	}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "Reddit subreddit and post search via the app-only API." }
func (c *Connector) CredentialProvider() string { return Name }

func (c *Connector) ConfigSchema() connector.ConfigSchema {
	return connector.ConfigSchema{Fields: []connector.ConfigField{
		{Name: "client_id", Label: "Client ID", Type: connector.FieldSecret, Required: true},
		{Name: "client_secret", Label: "Client secret", Type: connector.FieldSecret, Required: true},
	}}
}

func (c *Connector) Initialize(ctx context.Context, req connector.InitializeRequest) (connector.InitializeResult, error) {
	return connector.InitializeResult{ProtocolVersion: req.ProtocolVersion, ServerName: Name, ServerVersion: "1.0.0"}, nil
}

func (c *Connector) GetAuthDetails(ctx context.Context) (connector.AuthDetails, error) {
	return c.auth.Clone(), nil
}

func (c *Connector) SetAuthDetails(ctx context.Context, details connector.AuthDetails) error {
	if err := c.ConfigSchema().Validate(details); err != nil {
		return err
	}
	c.auth = details.Clone()

	cfg := clientcredentials.Config{
		ClientID:     c.auth.Get("client_id"),
		ClientSecret: c.auth.Get("client_secret"),
		TokenURL:     tokenURL,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, transport.NewRateLimitedClient(0, redditRatePerSecond, 5))
	c.http.HTTP = oauth2.NewClient(ctx, cfg.TokenSource(ctx))
	return nil
}

func (c *Connector) TestAuth(ctx context.Context) error {
	if c.auth.Get("client_id") == "" || c.auth.Get("client_secret") == "" {
		return connector.Authentication("reddit client credentials not configured")
	}
	var me map[string]any
	if err := c.http.GetJSON(ctx, apiBase+"/api/v1/me", nil, &me); err != nil {
		return connector.Wrap(connector.KindAuthentication, "reddit credentials rejected", err)
	}
	return nil
}

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "search",
			Description: "Search posts across Reddit by free-text query.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"subreddit":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "get_post",
			Description: "Fetch a single post by its ID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "search":
		return c.search(ctx, req)
	case "get_post":
		return c.getPost(ctx, req)
	default:
		return connector.CallResult{}, connector.ToolNotFound(req.Name)
	}
}

func (c *Connector) search(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var query string
	if err := req.Arg("query", &query); err != nil {
		return connector.CallResult{}, err
	}
	subreddit := req.ArgString("subreddit", "")
	limit := 10
	_ = req.Arg("limit", &limit)

	path := "/search"
	if subreddit != "" {
		path = fmt.Sprintf("/r/%s/search", url.PathEscape(subreddit))
	}
	u := fmt.Sprintf("%s%s?q=%s&limit=%d&restrict_sr=%t", apiBase, path, url.QueryEscape(query), limit, subreddit != "")

	var result map[string]any
	if err := c.http.GetJSON(ctx, u, nil, &result); err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(result)
}

func (c *Connector) getPost(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var id string
	if err := req.Arg("id", &id); err != nil {
		return connector.CallResult{}, err
	}

	u := fmt.Sprintf("%s/api/info?id=t3_%s", apiBase, url.QueryEscape(id))
	var result map[string]any
	if err := c.http.GetJSON(ctx, u, nil, &result); err != nil {
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
