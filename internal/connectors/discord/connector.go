// Package discord wraps bwmarrin/discordgo as a connector: channel message
// history and a single message lookup, authenticated with a bot token.
package discord

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/discordgo"

	"github.com/arivu/arivu/internal/connector"
)

const Name = "discord"

type Connector struct {
	connector.Base
	session *discordgo.Session
	auth    connector.AuthDetails
}

func New() *Connector {
	return &Connector{auth: connector.AuthDetails{}}
}

func (c *Connector) Name() string               { return Name }
func (c *Connector) Description() string        { return "Discord channel message history and lookup via a bot token." }
func (c *Connector) CredentialProvider() string { return Name }

func (c *Connector) ConfigSchema() connector.ConfigSchema {
	return connector.ConfigSchema{Fields: []connector.ConfigField{
		{Name: "bot_token", Label: "Bot token", Type: connector.FieldSecret, Required: true},
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
	session, err := discordgo.New("Bot " + c.auth.Get("bot_token"))
	if err != nil {
		return connector.Wrap(connector.KindAuthentication, "building discord session", err)
	}
	c.session = session
	return nil
}

func (c *Connector) TestAuth(ctx context.Context) error {
	if c.session == nil {
		return connector.Authentication("no discord bot token configured")
	}
	if _, err := c.session.User("@me"); err != nil {
		return connector.Wrap(connector.KindAuthentication, "discord bot token rejected", err)
	}
	return nil
}

func (c *Connector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: []connector.Tool{
		{
			Name:        "search",
			Description: "Fetch the most recent messages in a channel.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"channel_id":{"type":"string"},"limit":{"type":"integer"}},"required":["channel_id"]}`),
		},
		{
			Name:        "get_message",
			Description: "Fetch a single message by channel and message ID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"channel_id":{"type":"string"},"message_id":{"type":"string"}},"required":["channel_id","message_id"]}`),
		},
	}}, nil
}

func (c *Connector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	if c.session == nil {
		return connector.CallResult{}, connector.Authentication("no discord bot token configured")
	}
	switch req.Name {
	case "search":
		return c.searchMessages(req)
	case "get_message":
		return c.getMessage(req)
	default:
		return connector.CallResult{}, connector.ToolNotFound(req.Name)
	}
}

func (c *Connector) searchMessages(req connector.CallRequest) (connector.CallResult, error) {
	var channelID string
	if err := req.Arg("channel_id", &channelID); err != nil {
		return connector.CallResult{}, err
	}
	limit := 20
	_ = req.Arg("limit", &limit)

	messages, err := c.session.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return connector.CallResult{}, classifyError(err)
	}
	return marshalResult(map[string]any{"messages": messages})
}

func (c *Connector) getMessage(req connector.CallRequest) (connector.CallResult, error) {
	var channelID, messageID string
	if err := req.Arg("channel_id", &channelID); err != nil {
		return connector.CallResult{}, err
	}
	if err := req.Arg("message_id", &messageID); err != nil {
		return connector.CallResult{}, err
	}

	message, err := c.session.ChannelMessage(channelID, messageID)
	if err != nil {
		return connector.CallResult{}, classifyError(err)
	}
	return marshalResult(message)
}

func classifyError(err error) *connector.Error {
	if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil {
		if restErr.Response.StatusCode == 401 || restErr.Response.StatusCode == 403 {
			return connector.Authentication("discord rejected the request: %v", err)
		}
		if restErr.Response.StatusCode == 404 {
			return connector.ResourceNotFound("discord resource not found: %v", err)
		}
		return connector.Other(restErr.Response.StatusCode, err.Error())
	}
	return connector.HTTPRequest(err)
}

func marshalResult(v any) (connector.CallResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return connector.CallResult{}, connector.SerdeJSON(err)
	}
	return connector.CallResult{StructuredContent: data}, nil
}
