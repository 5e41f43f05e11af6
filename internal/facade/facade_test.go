package facade

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/auth"
	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/pricing"
	"github.com/arivu/arivu/internal/registry"
)

type fakeConnector struct {
	connector.Base
	name  string
	tools []connector.Tool
	call  func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error)
	auth  connector.AuthDetails
}

func (f *fakeConnector) Name() string                         { return f.name }
func (f *fakeConnector) Description() string                  { return f.name + " connector" }
func (f *fakeConnector) CredentialProvider() string            { return f.name }
func (f *fakeConnector) ConfigSchema() connector.ConfigSchema { return connector.ConfigSchema{} }

func (f *fakeConnector) Initialize(ctx context.Context, req connector.InitializeRequest) (connector.InitializeResult, error) {
	return connector.InitializeResult{}, nil
}

func (f *fakeConnector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeConnector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	return f.call(ctx, req)
}

func (f *fakeConnector) GetAuthDetails(ctx context.Context) (connector.AuthDetails, error) {
	return f.auth, nil
}
func (f *fakeConnector) SetAuthDetails(ctx context.Context, details connector.AuthDetails) error {
	f.auth = details
	return nil
}
func (f *fakeConnector) TestAuth(ctx context.Context) error { return nil }

func newTestRegistry(connectors ...*fakeConnector) *registry.Registry {
	reg := registry.New(arbor.NewLogger())
	for _, c := range connectors {
		reg.Register(c)
	}
	return reg
}

func TestListNamespacesEveryConnectorsTools(t *testing.T) {
	reg := newTestRegistry(
		&fakeConnector{name: "github", tools: []connector.Tool{{Name: "search_repositories"}}},
		&fakeConnector{name: "reddit", tools: []connector.Tool{{Name: "search"}}},
	)
	f := New(reg, nil)

	tools, err := f.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)

	names := []string{tools[0].Name, tools[1].Name}
	require.Contains(t, names, "github.search_repositories")
	require.Contains(t, names, "reddit.search")
}

func TestCallSplitsNamespaceAndDispatches(t *testing.T) {
	called := false
	c := &fakeConnector{
		name: "github",
		call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
			called = true
			require.Equal(t, "search_repositories", req.Name)
			return connector.CallResult{StructuredContent: json.RawMessage(`{"ok":true}`)}, nil
		},
	}
	f := New(newTestRegistry(c), nil)

	result, err := f.Call(context.Background(), "github.search_repositories", nil)
	require.NoError(t, err)
	require.True(t, called)
	require.JSONEq(t, `{"ok":true}`, string(result.StructuredContent))
}

func TestCallRejectsUnnamespacedTool(t *testing.T) {
	f := New(newTestRegistry(), nil)
	_, err := f.Call(context.Background(), "search", nil)
	require.Error(t, err)
}

func TestSetAuthPersistsToAuthStore(t *testing.T) {
	c := &fakeConnector{name: "reddit"}
	store, err := auth.Open(t.TempDir())
	require.NoError(t, err)

	f := New(newTestRegistry(c), store)
	err = f.SetAuth(context.Background(), "reddit", connector.AuthDetails{"client_id": "abc"})
	require.NoError(t, err)

	require.Equal(t, "abc", store.Get("reddit").Get("client_id"))
	require.Equal(t, "abc", c.auth.Get("client_id"))
}

func newTestPricingManager(t *testing.T) *pricing.Manager {
	t.Helper()
	store, err := pricing.OpenStore(filepath.Join(t.TempDir(), "usage.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	catalog, err := pricing.LoadDefaultCatalog()
	require.NoError(t, err)

	return pricing.NewManager(store, catalog)
}

func TestCallRecordsUsageWhenPricingAttached(t *testing.T) {
	c := &fakeConnector{
		name: "github",
		call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
			return connector.CallResult{StructuredContent: json.RawMessage(`{"repositories":[]}`)}, nil
		},
	}
	manager := newTestPricingManager(t)
	f := New(newTestRegistry(c), nil).WithPricing(manager)

	_, err := f.Call(context.Background(), "github.search_repositories", nil)
	require.NoError(t, err)

	summary, err := manager.SummarizeAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, summary.TotalRequests, uint64(1))
}

func TestCallRecordsUsageEvenOnConnectorError(t *testing.T) {
	c := &fakeConnector{
		name: "github",
		call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
			return connector.CallResult{}, connector.Authentication("no credentials")
		},
	}
	manager := newTestPricingManager(t)
	f := New(newTestRegistry(c), nil).WithPricing(manager)

	_, err := f.Call(context.Background(), "github.search_repositories", nil)
	require.Error(t, err)

	summary, err := manager.SummarizeAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, summary.TotalRequests, uint64(1))
}
