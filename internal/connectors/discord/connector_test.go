package discord

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arivu/arivu/internal/connector"
)

func TestConfigSchemaRequiresBotToken(t *testing.T) {
	c := New()
	err := c.ConfigSchema().Validate(connector.AuthDetails{})
	require.Error(t, err)
}

func TestSetAuthDetailsBuildsSession(t *testing.T) {
	c := New()
	err := c.SetAuthDetails(context.Background(), connector.AuthDetails{"bot_token": "fake-token"})
	require.NoError(t, err)

	details, err := c.GetAuthDetails(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fake-token", details.Get("bot_token"))
}

func TestTestAuthFailsWithoutSession(t *testing.T) {
	c := New()
	require.Error(t, c.TestAuth(context.Background()))
}

func TestCallToolFailsWithoutConfiguredToken(t *testing.T) {
	c := New()
	_, err := c.CallTool(context.Background(), connector.CallRequest{
		Name:      "search",
		Arguments: map[string]json.RawMessage{"channel_id": json.RawMessage(`"123"`)},
	})
	require.Error(t, err)
}

func TestCallToolRejectsUnknownTool(t *testing.T) {
	c := New()
	require.NoError(t, c.SetAuthDetails(context.Background(), connector.AuthDetails{"bot_token": "fake-token"}))
	_, err := c.CallTool(context.Background(), connector.CallRequest{Name: "nope"})
	require.Error(t, err)
}

func TestListToolsDescribesSearchAndGetMessage(t *testing.T) {
	c := New()
	result, err := c.ListTools(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)
	require.Equal(t, "search", result.Tools[0].Name)
	require.Equal(t, "get_message", result.Tools[1].Name)
}
