// Package wikipedia wraps the public Wikipedia REST API: full-text search
// and fetching a page's summary by title.
package wikipedia

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

const Name = "wikipedia"

const (
	searchURL  = "https://en.wikipedia.org/w/rest.php/v1/search/page"
	summaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
)

type Connector struct {
	connector.Base
	http *httpjson.Client
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{http: httpjson.New(transport.NewDefaultClient(0), logger)}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "Wikipedia article search and summary lookup by title." }
func (c *Connector) CredentialProvider() string { return Name }

func (c *Connector) ConfigSchema() connector.ConfigSchema { return connector.ConfigSchema{} }

func (c *Connector) Initialize(ctx context.Context, req connector.InitializeRequest) (connector.InitializeResult, error) {
	return connector.InitializeResult{ProtocolVersion: req.ProtocolVersion, ServerName: Name, ServerVersion: "1.0.0"}, nil
}

func (c *Connector) GetAuthDetails(ctx context.Context) (connector.AuthDetails, error) {
	return connector.AuthDetails{}, nil
}

func (c *Connector) SetAuthDetails(ctx context.Context, details connector.AuthDetails) error { return nil }

func (c *Connector) TestAuth(ctx context.Context) error { return nil }

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "search",
			Description: "Search Wikipedia article titles and snippets.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "get_summary",
			Description: "Fetch the summary of a single page by title.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"title":{"type":"string"}},"required":["title"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "search":
		return c.search(ctx, req)
	case "get_summary":
		return c.getSummary(ctx, req)
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

	u := fmt.Sprintf("%s?q=%s&limit=%d", searchURL, url.QueryEscape(query), limit)
	var result map[string]any
	if err := c.http.GetJSON(ctx, u, nil, &result); err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(result)
}

func (c *Connector) getSummary(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var title string
	if err := req.Arg("title", &title); err != nil {
		return connector.CallResult{}, err
	}

	u := fmt.Sprintf("%s/%s", summaryURL, url.PathEscape(title))
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
