// Package registry owns the live set of connectors a process has built,
// keyed by stable connector name, with a per-connector mutex handle so
// calls to distinct connectors proceed concurrently.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
)

// handle serializes calls to a single connector while letting calls to
// distinct connectors proceed in parallel.
type handle struct {
	mu   sync.Mutex
	conn connector.Connector
}

// Registry is a plain associative lookup from connector name to handle. It
// is immutable after construction in typical usage; only the handle's guard
// is acquired per call.
type Registry struct {
	mu         sync.RWMutex
	handles    map[string]*handle
	logger     arbor.ILogger
}

func New(logger arbor.ILogger) *Registry {
	return &Registry{
		handles: make(map[string]*handle),
		logger:  logger,
	}
}

// Register adds a connector to the registry, keyed by its own Name(). It is
// typically called once per connector during the enabled-only construction
// factory.
func (r *Registry) Register(c connector.Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[c.Name()] = &handle{conn: c}
}

// Get returns the connector registered under name, or false if none exists.
func (r *Registry) Get(name string) (connector.Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[name]
	if !ok {
		return nil, false
	}
	return h.conn, true
}

// ProviderInfo is a lightweight summary used by list_providers.
type ProviderInfo struct {
	Name        string
	Description string
}

// ListProviders returns every registered connector's name and description,
// sorted by name. A connector currently mid-call (its handle locked) still
// reports its static description; description access does not require the
// handle's lock since Name/Description never mutate after construction.
func (r *Registry) ListProviders() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ProviderInfo, 0, len(r.handles))
	for name, h := range r.handles {
		infos = append(infos, ProviderInfo{Name: name, Description: h.conn.Description()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Names returns every registered connector name, sorted.
func (r *Registry) Names() []string {
	infos := r.ListProviders()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// Call invokes fn with exclusive access to the named connector, serializing
// concurrent callers of the same connector while letting calls to different
// connectors run in true parallel.
func (r *Registry) Call(ctx context.Context, name string, fn func(ctx context.Context, c connector.Connector) (connector.CallResult, error)) (connector.CallResult, error) {
	r.mu.RLock()
	h, ok := r.handles[name]
	r.mu.RUnlock()
	if !ok {
		return connector.CallResult{}, connector.ResourceNotFound("connector %q is not registered", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(ctx, h.conn)
}

// Len returns the number of registered connectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
