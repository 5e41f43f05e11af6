// Package httpjson is the shared HTTP-plus-JSON helper every REST-backed
// connector builds its tool calls on: one retrying GET that decodes a JSON
// body, with the connector error taxonomy already applied to every failure
// mode.
package httpjson

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/transport"
)

// Client wraps an *http.Client with the shared retry policy and logger every
// connector uses to talk to its upstream REST API.
type Client struct {
	HTTP   *http.Client
	Policy transport.RetryPolicy
	Logger arbor.ILogger
}

// New builds a Client with the default retry policy and a timeout-bound
// *http.Client.
func New(httpClient *http.Client, logger arbor.ILogger) *Client {
	return &Client{HTTP: httpClient, Policy: transport.DefaultRetryPolicy(), Logger: logger}
}

// GetJSON issues an HTTP GET to url with the given headers, retrying on
// transport failures and retryable status codes, and decodes the response
// body into out on success.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	body, err := c.get(ctx, url, headers)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return connector.SerdeJSON(err)
	}
	return nil
}

// GetRaw issues an HTTP GET and returns the raw response body without
// decoding, for connectors that need to post-process HTML or text.
func (c *Client) GetRaw(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	body, _, err := c.getWithContentType(ctx, url, headers)
	return body, err
}

// GetRawWithContentType is GetRaw plus the response's Content-Type header,
// for callers that dispatch post-processing by media type (the web
// connector's fetch tool, routing to internal/extract's PDF strategy).
func (c *Client) GetRawWithContentType(ctx context.Context, url string, headers map[string]string) ([]byte, string, error) {
	return c.getWithContentType(ctx, url, headers)
}

func (c *Client) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	body, _, err := c.getWithContentType(ctx, url, headers)
	return body, err
}

func (c *Client) getWithContentType(ctx context.Context, url string, headers map[string]string) ([]byte, string, error) {
	var body []byte
	var contentType string
	err := transport.ExecuteWithRetry(ctx, c.Logger, c.Policy, func(attempt int) (transport.Attempt, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return transport.Attempt{Err: err}, connector.HTTPRequest(err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return transport.Attempt{Err: err}, connector.HTTPRequest(err)
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return transport.Attempt{StatusCode: resp.StatusCode}, connector.IO(readErr)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return transport.Attempt{StatusCode: resp.StatusCode}, connector.Authentication("upstream returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return transport.Attempt{StatusCode: resp.StatusCode, RetryAfter: resp.Header.Get("Retry-After")}, connector.Other(resp.StatusCode, string(data))
		}

		body = data
		contentType = resp.Header.Get("Content-Type")
		return transport.Attempt{StatusCode: resp.StatusCode}, nil
	})
	if err != nil {
		return nil, "", err
	}
	return body, contentType, nil
}
