// Package hackernews wraps the public Hacker News Firebase API: no
// credentials required, so CredentialProvider/TestAuth are effectively
// no-ops.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/httpjson"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "hackernews"

const baseURL = "https://hacker-news.firebaseio.com/v0"

type Connector struct {
	connector.Base
	http *httpjson.Client
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{http: httpjson.New(transport.NewDefaultClient(0), logger)}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "Hacker News stories, comments, and the top-stories front page." }
func (c *Connector) CredentialProvider() string { return Name }

func (c *Connector) ConfigSchema() connector.ConfigSchema {
	return connector.ConfigSchema{}
}

func (c *Connector) Initialize(ctx context.Context, req connector.InitializeRequest) (connector.InitializeResult, error) {
	return connector.InitializeResult{ProtocolVersion: req.ProtocolVersion, ServerName: Name, ServerVersion: "1.0.0"}, nil
}

func (c *Connector) GetAuthDetails(ctx context.Context) (connector.AuthDetails, error) {
	return connector.AuthDetails{}, nil
}

func (c *Connector) SetAuthDetails(ctx context.Context, details connector.AuthDetails) error {
	return nil
}

func (c *Connector) TestAuth(ctx context.Context) error {
	return nil
}

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "get_item",
			Description: "Fetch a single story, comment, or job by item ID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"id":{"type":"integer"}},"required":["id"]}`),
		},
		{
			Name:        "search",
			Description: "Return the current top stories, most relevant first.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"limit":{"type":"integer"}},"required":[]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "get_item":
		return c.getItem(ctx, req)
	case "search":
		return c.search(ctx, req)
	default:
		return connector.CallResult{}, connector.ToolNotFound(req.Name)
	}
}

func (c *Connector) getItem(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var id int
	if err := req.Arg("id", &id); err != nil {
		return connector.CallResult{}, err
	}

	var item map[string]any
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/item/%d.json", baseURL, id), nil, &item); err != nil {
		return connector.CallResult{}, err
	}
	if item == nil {
		return connector.CallResult{}, connector.ResourceNotFound("item %d not found", id)
	}
	return marshalResult(item)
}

func (c *Connector) search(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	limit := 10
	_ = req.Arg("limit", &limit)

	var ids []int
	if err := c.http.GetJSON(ctx, baseURL+"/topstories.json", nil, &ids); err != nil {
		return connector.CallResult{}, err
	}
	if limit > len(ids) {
		limit = len(ids)
	}

	stories := make([]map[string]any, 0, limit)
	for _, id := range ids[:limit] {
		var item map[string]any
		if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/item/%d.json", baseURL, id), nil, &item); err != nil {
			continue
		}
		stories = append(stories, item)
	}
	return marshalResult(map[string]any{"stories": stories})
}

func marshalResult(v any) (connector.CallResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: data}, nil
}
