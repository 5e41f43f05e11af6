// Package github wraps the GitHub REST API as a connector exposing
// repository lookup, issue/pull-request lookup by number, and repository
// search. Code search is not exposed.
package github

import (
	"context"
	"encoding/json"

	gogithub "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/arivu/arivu/internal/connector"
)

const Name = "github"

// Connector talks to the GitHub REST API via google/go-github, authenticated
// with a personal access token supplied through SetAuthDetails.
type Connector struct {
	connector.Base
	client *gogithub.Client
	auth   connector.AuthDetails
}

func New() *Connector {
	return &Connector{client: gogithub.NewClient(nil), auth: connector.AuthDetails{}}
}

func (c *Connector) Name() string              { return Name }
func (c *Connector) Description() string       { return "Repositories, issues, pull requests, and repository search on GitHub." }
func (c *Connector) CredentialProvider() string { return Name }

func (c *Connector) ConfigSchema() connector.ConfigSchema {
	return connector.ConfigSchema{Fields: []connector.ConfigField{
		{Name: "token", Label: "Personal access token", Type: connector.FieldSecret, Required: true,
			Description: "A GitHub personal access token with repo read scope."},
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
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.auth.Get("token")})
	c.client = gogithub.NewClient(oauth2.NewClient(ctx, ts))
	return nil
}

func (c *Connector) TestAuth(ctx context.Context) error {
	if c.auth.Get("token") == "" {
		return connector.Authentication("no GitHub token configured")
	}
	if _, _, err := c.client.Users.Get(ctx, ""); err != nil {
		return connector.Wrap(connector.KindAuthentication, "github token rejected", err)
	}
	return nil
}

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "get_repository",
			Description: "Fetch metadata for a repository.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"owner":{"type":"string"},"repo":{"type":"string"}},"required":["owner","repo"]}`),
		},
		{
			Name:        "get_issue",
			Description: "Fetch a single issue or pull request by number.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"owner":{"type":"string"},"repo":{"type":"string"},"number":{"type":"integer"}},"required":["owner","repo","number"]}`),
		},
		{
			Name:        "search_repositories",
			Description: "Search repositories by query string.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	switch req.Name {
	case "get_repository":
		return c.getRepository(ctx, req)
	case "get_issue":
		return c.getIssue(ctx, req)
	case "search_repositories":
		return c.searchRepositories(ctx, req)
	default:
		return connector.CallResult{}, connector.ToolNotFound(req.Name)
	}
}

func (c *Connector) getRepository(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var owner, repo string
	if err := req.Arg("owner", &owner); err != nil {
		return connector.CallResult{}, err
	}
	if err := req.Arg("repo", &repo); err != nil {
		return connector.CallResult{}, err
	}

	r, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return connector.CallResult{}, classifyAPIError(resp, err)
	}
	return structuredResult(r)
}

func (c *Connector) getIssue(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var owner, repo string
	var number int
	if err := req.Arg("owner", &owner); err != nil {
		return connector.CallResult{}, err
	}
	if err := req.Arg("repo", &repo); err != nil {
		return connector.CallResult{}, err
	}
	if err := req.Arg("number", &number); err != nil {
		return connector.CallResult{}, err
	}

	issue, resp, err := c.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return connector.CallResult{}, classifyAPIError(resp, err)
	}
	return structuredResult(issue)
}

func (c *Connector) searchRepositories(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	var query string
	if err := req.Arg("query", &query); err != nil {
		return connector.CallResult{}, err
	}
	limit := 10
	_ = req.Arg("limit", &limit)

	opts := &gogithub.SearchOptions{ListOptions: gogithub.ListOptions{PerPage: limit}}
	result, resp, err := c.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return connector.CallResult{}, classifyAPIError(resp, err)
	}
	return structuredResult(result)
}

func classifyAPIError(resp *gogithub.Response, err error) *connector.Error {
	if resp == nil {
		return connector.HTTPRequest(err)
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return connector.Authentication("github rejected the request: %v", err)
	}
	if resp.StatusCode == 404 {
		return connector.ResourceNotFound("github resource not found: %v", err)
	}
	return connector.Other(resp.StatusCode, err.Error())
}

func structuredResult(v any) (connector.CallResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: data}, nil
}
