// Package facade exposes every registered connector's tools under one
// namespaced catalog, so a caller can list and call any tool from any
// connector through a single entry point.
package facade

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/arivu/arivu/internal/auth"
	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/pricing"
	"github.com/arivu/arivu/internal/registry"
)

// NamespacedTool is a connector tool renamed to "<connector>.<tool>".
type NamespacedTool struct {
	Name        string
	Description string
	InputSchema []byte
}

// Facade dispatches namespaced tool calls over a registry, optionally
// persisting credential updates to an auth store and metering calls through
// a pricing manager.
type Facade struct {
	registry  *registry.Registry
	authStore *auth.Store
	pricing   *pricing.Manager
}

func New(reg *registry.Registry, authStore *auth.Store) *Facade {
	return &Facade{registry: reg, authStore: authStore}
}

// WithPricing attaches a pricing manager so every Call is metered and
// recorded to the usage log. Returns f for chaining at construction time.
func (f *Facade) WithPricing(manager *pricing.Manager) *Facade {
	f.pricing = manager
	return f
}

// List returns every registered connector's tools renamed to
// "<connector>.<tool>".
func (f *Facade) List(ctx context.Context) ([]NamespacedTool, error) {
	var out []NamespacedTool
	for _, name := range f.registry.Names() {
		c, ok := f.registry.Get(name)
		if !ok {
			continue
		}
		result, err := c.ListTools(ctx, "")
		if err != nil {
			return nil, err
		}
		for _, t := range result.Tools {
			out = append(out, NamespacedTool{
				Name:        name + "." + t.Name,
				Description: t.Description,
				InputSchema: t.InputSchema,
			})
		}
	}
	return out, nil
}

// Call dispatches "c.t" by splitting on the first '.'. When a pricing
// manager is attached, every call is priced and recorded regardless of
// outcome, so failed and auth-only calls still appear in the usage log.
func (f *Facade) Call(ctx context.Context, namespacedName string, args map[string]json.RawMessage) (connector.CallResult, error) {
	connectorName, toolName, ok := splitNamespaced(namespacedName)
	if !ok {
		return connector.CallResult{}, connector.InvalidParams("tool name %q is not namespaced as connector.tool", namespacedName)
	}

	start := time.Now()
	result, err := f.registry.Call(ctx, connectorName, func(ctx context.Context, c connector.Connector) (connector.CallResult, error) {
		return c.CallTool(ctx, connector.CallRequest{Name: toolName, Arguments: args})
	})

	if f.pricing != nil {
		f.recordUsage(connectorName, toolName, result, err, time.Since(start))
	}
	return result, err
}

func (f *Facade) recordUsage(connectorName, toolName string, result connector.CallResult, callErr error, elapsed time.Duration) {
	status := "ok"
	switch {
	case callErr != nil:
		status = "error"
	case result.IsError:
		status = "error"
	}

	provider := connectorName
	if c, ok := f.registry.Get(connectorName); ok {
		provider = c.CredentialProvider()
	}

	_, _ = f.pricing.EstimateAndRecord(pricing.EstimateParams{
		Connector:  connectorName,
		Tool:       toolName,
		Provider:   provider,
		Status:     status,
		DurationMS: uint64(elapsed.Milliseconds()),
		Structured: result.StructuredContent,
		Now:        time.Now(),
	})
}

func splitNamespaced(name string) (connectorName, toolName string, ok bool) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// SetAuth forwards credentials to the target connector and, if an auth store
// is configured, persists them under the connector's credential provider.
func (f *Facade) SetAuth(ctx context.Context, connectorName string, details connector.AuthDetails) error {
	c, ok := f.registry.Get(connectorName)
	if !ok {
		return connector.ResourceNotFound("connector %q is not registered", connectorName)
	}
	if err := c.SetAuthDetails(ctx, details); err != nil {
		return err
	}
	if f.authStore != nil {
		return f.authStore.Save(c.CredentialProvider(), details)
	}
	return nil
}

// ListProviders returns the sorted connector names compiled in.
func (f *Facade) ListProviders() []registry.ProviderInfo {
	return f.registry.ListProviders()
}
