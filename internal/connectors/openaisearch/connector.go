// Package openaisearch wraps OpenAI's web-search-enabled Responses API as a
// connector, demonstrating credential_provider aliasing: this connector's
// registry name is "openai-search" but its stored credential lives under
// the shared "openai" provider.
package openaisearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/transport"
)

const Name = "openai-search"

const CredentialProviderName = "openai"

const responsesURL = "https://api.openai.com/v1/responses"

type Connector struct {
	connector.Base
	client *http.Client
	policy transport.RetryPolicy
	logger arbor.ILogger
	auth   connector.AuthDetails
}

func New(logger arbor.ILogger) *Connector {
	return &Connector{
		client: transport.NewDefaultClient(60 * time.Second),
		policy: transport.DefaultRetryPolicy(),
		logger: logger,
		auth:   connector.AuthDetails{},
	}
}

func (c *Connector) Name() string        { return Name }
func (c *Connector) Description() string { return "Web search grounded by an OpenAI model with the web_search tool enabled." }
func (c *Connector) CredentialProvider() string { return CredentialProviderName }

func (c *Connector) ConfigSchema() connector.ConfigSchema {
	return connector.ConfigSchema{Fields: []connector.ConfigField{
		{Name: "api_key", Label: "OpenAI API key", Type: connector.FieldSecret, Required: true},
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
	if c.auth.Get("api_key") == "" {
		return connector.Authentication("no OpenAI API key configured")
	}
	return nil
}

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "search",
			Description: "Ask an OpenAI model to search the web and summarize results.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"model":{"type":"string"}},"required":["query"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	if req.Name != "search" {
		return connector.CallResult{}, connector.ToolNotFound(req.Name)
	}

	var query string
	if err := req.Arg("query", &query); err != nil {
		return connector.CallResult{}, err
	}
	model := req.ArgString("model", "gpt-4.1-mini")

	payload, err := json.Marshal(map[string]any{
		"model": model,
		"input": query,
		"tools": []map[string]string{{"type": "web_search"}},
	})
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}

	var body []byte
	retryErr := transport.ExecuteWithRetry(ctx, c.logger, c.policy, func(attempt int) (transport.Attempt, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, responsesURL, bytes.NewReader(payload))
		if err != nil {
			return transport.Attempt{Err: err}, connector.HTTPRequest(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.auth.Get("api_key"))

		resp, err := c.client.Do(httpReq)
		if err != nil {
			return transport.Attempt{Err: err}, connector.HTTPRequest(err)
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return transport.Attempt{StatusCode: resp.StatusCode}, connector.IO(readErr)
		}
		if resp.StatusCode == 401 || resp.StatusCode == 403 {
			return transport.Attempt{StatusCode: resp.StatusCode}, connector.Authentication("openai rejected the request: %s", string(data))
		}
		if resp.StatusCode >= 400 {
			return transport.Attempt{StatusCode: resp.StatusCode, RetryAfter: resp.Header.Get("Retry-After")}, connector.Other(resp.StatusCode, string(data))
		}
		body = data
		return transport.Attempt{StatusCode: resp.StatusCode}, nil
	})
	if retryErr != nil {
		return connector.CallResult{}, retryErr
	}

	var structured map[string]any
	if err := json.Unmarshal(body, &structured); err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: body}, nil
}
