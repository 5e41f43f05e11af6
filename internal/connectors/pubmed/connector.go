// Package pubmed wraps the NCBI E-utilities API: esearch for free-text
// queries and esummary for fetching a paper by PMID.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/httpjson"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "pubmed"

const (
	esearchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	esummaryURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
)

type esearchResult struct {
	IDList struct {
		IDs []string `xml:"Id"`
	} `xml:"IdList"`
}

type esummaryResult struct {
	Docs []docSummary `xml:"DocSum"`
}

type docSummary struct {
	ID    string     `xml:"Id"`
	Items []docField `xml:"Item"`
}

type docField struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:",chardata"`
}

type Connector struct {
	connector.Base
	http *httpjson.Client
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{http: httpjson.New(transport.NewDefaultClient(0), logger)}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "PubMed biomedical literature search and lookup by PMID." }
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
			Description: "Search PubMed by free-text query.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "get_article",
			Description: "Fetch a single article's summary by PMID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"pmid":{"type":"string"}},"required":["pmid"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "search":
		return c.search(ctx, req)
	case "get_article":
		return c.getArticle(ctx, req)
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

	u := fmt.Sprintf("%s?db=pubmed&retmode=xml&retmax=%d&term=%s", esearchURL, limit, url.QueryEscape(query))
	raw, err := c.http.GetRaw(ctx, u, nil)
	if err != nil {
		return connector.CallResult{}, err
	}
	var search esearchResult
	if err := xml.Unmarshal(raw, &search); err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	if len(search.IDList.IDs) == 0 {
		return marshalResult(map[string]any{"articles": []map[string]any{}})
	}

	articles, err := c.fetchSummaries(ctx, search.IDList.IDs)
	if err != nil {
		return connector.CallResult{}, err
	}
	return marshalResult(map[string]any{"articles": articles})
}

func (c *Connector) getArticle(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var pmid string
	if err := req.Arg("pmid", &pmid); err != nil {
		return connector.CallResult{}, err
	}
	articles, err := c.fetchSummaries(ctx, []string{pmid})
	if err != nil {
		return connector.CallResult{}, err
	}
	if len(articles) == 0 {
		return connector.CallResult{}, connector.ResourceNotFound("pubmed article %q not found", pmid)
	}
	return marshalResult(articles[0])
}

func (c *Connector) fetchSummaries(ctx context.Context, pmids []string) ([]map[string]any, error) {
	u := fmt.Sprintf("%s?db=pubmed&retmode=xml&id=%s", esummaryURL, strings.Join(pmids, ","))
	raw, err := c.http.GetRaw(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	var summaries esummaryResult
	if err := xml.Unmarshal(raw, &summaries); err != nil {
		return nil, connector.SerdeJSON(err)
	}

	articles := make([]map[string]any, 0, len(summaries.Docs))
	for _, doc := range summaries.Docs {
		fields := map[string]any{"pmid": doc.ID}
		for _, item := range doc.Items {
			fields[strings.ToLower(item.Name)] = item.Value
		}
		articles = append(articles, fields)
	}
	return articles, nil
}

func marshalResult(v any) (connector.CallResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: data}, nil
}
