// Package semanticscholar wraps the Semantic Scholar Graph API. It also
// serves as the DOI lookup target the resolver routes bare and URL-form DOIs
// to, via get_paper with the DOI as captured (no "DOI:" prefix) as paper_id.
package semanticscholar

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

const Name = "semantic-scholar"

const baseURL = "https://api.semanticscholar.org/graph/v1/paper"

const fields = "title,abstract,year,authors,externalIds,url"

type Connector struct {
	connector.Base
	http *httpjson.Client
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{http: httpjson.New(transport.NewDefaultClient(0), logger)}
}

func (c *Connector) Name() string        { return Name }
func (c *Connector) Description() string { return "Semantic Scholar paper search and lookup, including DOI resolution." }
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
			Description: "Search papers by free-text query.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "get_paper",
			Description: "Fetch a single paper by its Semantic Scholar ID, arXiv ID, or DOI (prefixed DOI:<id>).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"paper_id":{"type":"string"}},"required":["paper_id"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "search":
		return c.search(ctx, req)
	case "get_paper":
		return c.getPaper(ctx, req)
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

	u := fmt.Sprintf("%s/search?query=%s&limit=%d&fields=%s", baseURL, url.QueryEscape(query), limit, fields)
	var result map[string]any
	if err := c.http.GetJSON(ctx, u, nil, &result); err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(result)
}

func (c *Connector) getPaper(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var paperID string
	if err := req.Arg("paper_id", &paperID); err != nil {
		return connector.CallResult{}, err
	}

	u := fmt.Sprintf("%s/%s?fields=%s", baseURL, url.PathEscape(paperID), fields)
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
