// Package connectors assembles the full connector roster into a registry,
// applying each connector's persisted credentials from the auth store.
package connectors

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/auth"
	"github.com/arivu/arivu/internal/common"
	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/connectors/arxiv"
	"github.com/arivu/arivu/internal/connectors/discord"
	"github.com/arivu/arivu/internal/connectors/github"
	"github.com/arivu/arivu/internal/connectors/googlecalendar"
	"github.com/arivu/arivu/internal/connectors/hackernews"
	"github.com/arivu/arivu/internal/connectors/openaisearch"
	"github.com/arivu/arivu/internal/connectors/pubmed"
	"github.com/arivu/arivu/internal/connectors/reddit"
	"github.com/arivu/arivu/internal/connectors/semanticscholar"
	"github.com/arivu/arivu/internal/connectors/web"
	"github.com/arivu/arivu/internal/connectors/wikipedia"
	"github.com/arivu/arivu/internal/connectors/x"
	"github.com/arivu/arivu/internal/registry"
)

// Build constructs every connector in the roster, loads each one's stored
// credentials from authStore (keyed by CredentialProvider), and registers
// it. A connector whose config schema rejects its stored credentials (or
// has none yet) is still registered unauthenticated; ListTools/ToolCall
// work, calls requiring auth fail with connector.Authentication until the
// caller sets credentials.
func Build(cfg *common.Config, authStore *auth.Store, logger arbor.ILogger) *registry.Registry {
	reg := registry.New(logger)

	all := []connector.Connector{
		github.New(),
		hackernews.New(logger),
		arxiv.New(logger),
		pubmed.New(logger),
		semanticscholar.New(logger),
		wikipedia.New(logger),
		reddit.New(logger),
		x.New(logger),
		discord.New(),
		web.New(logger),
		openaisearch.New(logger),
		googlecalendar.New(logger, authStore, googleClientID(cfg), googleClientSecret(cfg)),
	}

	for _, c := range all {
		if !enabled(cfg, c.Name()) {
			continue
		}
		seedAuth(c, authStore)
		reg.Register(c)
	}
	return reg
}

// enabled reports whether a connector is enabled; absent config entries
// default to enabled so the roster works out of the box.
func enabled(cfg *common.Config, name string) bool {
	if cfg == nil || cfg.Connectors == nil {
		return true
	}
	settings, ok := cfg.Connectors[name]
	if !ok {
		return true
	}
	return settings.Enabled
}

func seedAuth(c connector.Connector, authStore *auth.Store) {
	if authStore == nil {
		return
	}
	stored := authStore.Get(c.CredentialProvider())
	if len(stored) == 0 {
		return
	}
	// Best-effort: a connector with an incomplete credential set simply
	// stays unauthenticated until the caller supplies one.
	_ = c.SetAuthDetails(context.Background(), stored)
}

func googleClientID(cfg *common.Config) string {
	return connectorSetting(cfg, googlecalendar.Name, "client_id")
}

func googleClientSecret(cfg *common.Config) string {
	return connectorSetting(cfg, googlecalendar.Name, "client_secret")
}

func connectorSetting(cfg *common.Config, name, key string) string {
	if cfg == nil || cfg.Connectors == nil {
		return ""
	}
	settings, ok := cfg.Connectors[name]
	if !ok {
		return ""
	}
	return settings.Settings[key]
}
