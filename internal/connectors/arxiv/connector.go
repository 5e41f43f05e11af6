// Package arxiv wraps the public arXiv Atom export API: search by query and
// fetch a single paper by its arXiv ID, no credentials required.
package arxiv

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/httpjson"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "arxiv"

const exportURL = "https://export.arxiv.org/api/query"

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type Connector struct {
	connector.Base
	http *httpjson.Client
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{http: httpjson.New(transport.NewDefaultClient(0), logger)}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "arXiv preprint search and lookup by paper ID." }
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
			Description: "Search arXiv papers by free-text query.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "get_paper",
			Description: "Fetch a single paper by its arXiv ID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
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

	u := fmt.Sprintf("%s?search_query=all:%s&max_results=%d", exportURL, url.QueryEscape(query), limit)
	feed, err := c.fetchFeed(ctx, u)
	if err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(map[string]any{"papers": toPapers(feed.Entries)})
}

func (c *Connector) getPaper(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var id string
	if err := req.Arg("id", &id); err != nil {
		return connector.CallResult{}, err
	}

	u := fmt.Sprintf("%s?id_list=%s", exportURL, url.QueryEscape(id))
	feed, err := c.fetchFeed(ctx, u)
	if err != nil {
		return connector.CallResult{}, err
	}
	papers := toPapers(feed.Entries)
	if len(papers) == 0 {
		return connector.CallResult{}, connector.ResourceNotFound("arxiv paper %q not found", id)
	}
	return marshalResult(papers[0])
}

func (c *Connector) fetchFeed(ctx context.Context, u string) (atomFeed, error) {
	raw, err := c.http.GetRaw(ctx, u, nil)
	if err != nil {
		return atomFeed{}, err
	}
	var feed atomFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return atomFeed{}, connector.SerdeJSON(err)
	}
	return feed, nil
}

func toPapers(entries []atomEntry) []map[string]any {
	papers := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		authors := make([]string, 0, len(e.Authors))
		for _, a := range e.Authors {
			authors = append(authors, a.Name)
		}
		papers = append(papers, map[string]any{
			"id":        e.ID,
			"title":     e.Title,
			"summary":   e.Summary,
			"published": e.Published,
			"authors":   authors,
		})
	}
	return papers
}

func marshalResult(v any) (connector.CallResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: data}, nil
}
