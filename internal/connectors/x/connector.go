// Package x wraps the X (Twitter) API v2 using a bearer token: recent-tweet
// search and a single tweet lookup by ID.
package x

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/httpjson"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "x"

const apiBase = "https://api.twitter.com/2"

type Connector struct {
	connector.Base
	http *httpjson.Client
	auth connector.AuthDetails
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{http: httpjson.New(transport.NewDefaultClient(0), logger), auth: connector.AuthDetails{}}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "X (Twitter) recent-tweet search and lookup by ID." }
func (c *Connector) CredentialProvider() string { return Name }

func (c *Connector) ConfigSchema() connector.ConfigSchema {
	return connector.ConfigSchema{Fields: []connector.ConfigField{
		{Name: "bearer_token", Label: "Bearer token", Type: connector.FieldSecret, Required: true},
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
	return nil
}

func (c *Connector) TestAuth(ctx context.Context) error {
	if c.auth.Get("bearer_token") == "" {
		return connector.Authentication("no X bearer token configured")
	}
	var result map[string]any
	return c.http.GetJSON(ctx, apiBase+"/tweets/search/recent?query=test&max_results=10", c.headers(), &result)
}

func (c *Connector) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.auth.Get("bearer_token")}
}

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "search",
			Description: "Search recent tweets by free-text query.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "get_tweet",
			Description: "Fetch a single tweet by ID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "search":
		return c.search(ctx, req)
	case "get_tweet":
		return c.getTweet(ctx, req)
	default:
		return connector.CallResult{}, connector.ToolNotFound(req.Name)
	}
}

func (c *Connector) search(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var query string
	if err := req.Arg("query", &query); err != nil {
		return connector.CallResult{}, err
	}
	limit := 10
	_ = req.Arg("limit", &limit)

	u := fmt.Sprintf("%s/tweets/search/recent?query=%s&max_results=%d", apiBase, url.QueryEscape(query), limit)
	var result map[string]any
	if err := c.http.GetJSON(ctx, u, c.headers(), &result); err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(result)
}

func (c *Connector) getTweet(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var id string
	if err := req.Arg("id", &id); err != nil {
		return connector.CallResult{}, err
	}

	u := fmt.Sprintf("%s/tweets/%s", apiBase, url.PathEscape(id))
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
