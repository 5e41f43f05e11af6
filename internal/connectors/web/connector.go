// Package web is the generic fallback connector the resolver routes any
// unrecognized URL to: it fetches a page (HTML converted to markdown, PDF
// reduced to plain text) and scrapes a search-results list from DuckDuckGo's
// HTML result page.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/httpjson"
	"github.com/arivu/arivu/internal/extract"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "web"

const searchURL = "https://html.duckduckgo.com/html/"

type Connector struct {
	connector.Base
	http       *httpjson.Client
	converter  *md.Converter
	extractors *extract.Registry
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{
		http:       httpjson.New(transport.NewDefaultClient(0), logger),
		converter:  md.NewConverter("", true, nil),
		extractors: extract.NewRegistry(),
	}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "Generic web search and page fetch for URLs no other connector claims." }
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
			Description: "Search the open web by free-text query.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "fetch",
			Description: "Fetch a URL and return its body as markdown (plain text for PDFs).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"url":{"type":"string"}},"required":["url"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "search":
		return c.search(ctx, req)
	case "fetch":
		return c.fetch(ctx, req)
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

	u := fmt.Sprintf("%s?q=%s", searchURL, url.QueryEscape(query))
	raw, err := c.http.GetRaw(ctx, u, map[string]string{"User-Agent": "arivu/1.0"})
	if err != nil {
		return connector.CallResult{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}

	results := make([]map[string]any, 0, limit)
	doc.Find(".result__body").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(results) >= limit {
			return false
		}
		title := strings.TrimSpace(s.Find(".result__title").Text())
		link, _ := s.Find(".result__url").Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())
		if title == "" {
			return true
		}
		results = append(results, map[string]any{
			"title":   title,
			"url":     strings.TrimSpace(link),
			"snippet": snippet,
		})
		return true
	})

	return marshalResult(map[string]any{"results": results})
}

func (c *Connector) fetch(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var target string
	if err := req.Arg("url", &target); err != nil {
		return connector.CallResult{}, err
	}

	raw, contentType, err := c.http.GetRawWithContentType(ctx, target, map[string]string{"User-Agent": "arivu/1.0"})
	if err != nil {
		return connector.CallResult{}, err
	}

	if strings.Contains(contentType, "application/pdf") {
		doc, err := c.extractors.Extract(ctx, extract.ContentPDF, raw)
		if err != nil {
			return connector.CallResult{}, connector.Wrap(connector.KindOther, "extracting pdf text", err)
		}
		return marshalResult(map[string]any{"url": target, "content_type": contentType, "text": doc.Text, "page_count": doc.PageCount})
	}

	body, err := c.converter.ConvertString(string(raw))
	if err != nil {
		return connector.CallResult{}, connector.Wrap(connector.KindOther, "converting page body to markdown", err)
	}

	doc, err := c.extractors.Extract(ctx, extract.ContentMarkdown, []byte(body))
	if err != nil {
		return connector.CallResult{}, connector.Wrap(connector.KindOther, "extracting markdown outline", err)
	}

	return marshalResult(map[string]any{"url": target, "markdown": body, "sections": doc.Sections})
}

func marshalResult(v any) (connector.CallResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: data}, nil
}
