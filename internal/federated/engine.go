package federated

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/registry"
)

// Engine executes federated searches against a provider registry, fanning
// a query out across connectors concurrently and merging their results.
type Engine struct {
	registry *registry.Registry
}

func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{registry: reg}
}

// SearchWithProfile resolves the profile's effective connector list against
// the live registry and runs a federated search over it.
func (e *Engine) SearchWithProfile(ctx context.Context, query string, profile SearchProfile, parent *SearchProfile, mergeMode *MergeMode) FederatedSearchResult {
	start := time.Now()

	names := profile.EffectiveConnectors(parent)
	targets := e.resolveConnectors(names)

	result := e.executeSearch(ctx, query, targets, &profile)
	result.Profile = profile.Name

	mode := profile.Defaults.MergeMode
	if mergeMode != nil {
		mode = *mergeMode
	}
	if mode == MergeInterleaved {
		result.finalizeInterleaved()
	}

	elapsed := time.Since(start).Milliseconds()
	result.DurationMS = &elapsed
	return result
}

// SearchAdhoc runs a federated search over an explicit connector list with
// no profile.
func (e *Engine) SearchAdhoc(ctx context.Context, query string, connectorNames []string, mergeMode MergeMode) FederatedSearchResult {
	start := time.Now()

	targets := e.resolveConnectors(connectorNames)
	result := e.executeSearch(ctx, query, targets, nil)

	if mergeMode == MergeInterleaved {
		result.finalizeInterleaved()
	}

	elapsed := time.Since(start).Milliseconds()
	result.DurationMS = &elapsed
	return result
}

type target struct {
	name string
	conn connector.Connector
}

func (e *Engine) resolveConnectors(names []string) []target {
	var targets []target
	for _, name := range names {
		if c, ok := e.registry.Get(name); ok {
			targets = append(targets, target{name: name, conn: c})
		}
	}
	return targets
}

type sourceOutcome struct {
	results   SourceResults
	err       string
	isTimeout bool
	failed    bool
	source    string
}

// executeSearch fans out one goroutine per target connector, each bounded by
// the profile's timeout, and waits for all of them before returning. A slow
// source never extends the deadline for the others.
func (e *Engine) executeSearch(ctx context.Context, query string, targets []target, profile *SearchProfile) FederatedSearchResult {
	result := newGroupedResult(query)
	if len(targets) == 0 {
		return *result
	}

	timeoutMS := DefaultTimeoutMS
	if profile != nil {
		timeoutMS = profile.TimeoutMS
	}

	outcomes := make(chan sourceOutcome, len(targets))
	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			outcomes <- e.searchOneConnector(ctx, t, query, profile, timeoutMS)
		}(t)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		if outcome.failed {
			result.addError(outcome.source, outcome.err, outcome.isTimeout)
			continue
		}
		result.addSource(outcome.results)
	}
	return *result
}

func (e *Engine) searchOneConnector(parent context.Context, t target, query string, profile *SearchProfile, timeoutMS int) sourceOutcome {
	ctx, cancel := context.WithTimeout(parent, time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	start := time.Now()
	done := make(chan sourceOutcome, 1)

	go func() {
		results, err := e.callSearchTool(ctx, t, query, profile)
		if err != nil {
			done <- sourceOutcome{failed: true, source: t.name, err: err.Error()}
			return
		}
		elapsed := time.Since(start).Milliseconds()
		results.DurationMS = &elapsed
		done <- sourceOutcome{results: results, source: t.name}
	}()

	select {
	case outcome := <-done:
		return outcome
	case <-ctx.Done():
		return sourceOutcome{
			failed:    true,
			isTimeout: true,
			source:    t.name,
			err:       fmt.Sprintf("timeout after %dms", timeoutMS),
		}
	}
}

func (e *Engine) callSearchTool(ctx context.Context, t target, query string, profile *SearchProfile) (SourceResults, error) {
	weight := float32(1.0)
	var extraArgs map[string]any
	limit := uint32(0)
	hasLimit := false
	responseFormat := ResponseFormat("")
	if profile != nil {
		weight = profile.WeightFor(t.name)
		limit = profile.LimitFor(t.name)
		hasLimit = limit > 0
		responseFormat = profile.ResponseFormatFor(t.name)
		extraArgs = profile.ExtraArgsFor(t.name)
	}

	result, err := e.registry.Call(ctx, t.name, func(ctx context.Context, c connector.Connector) (connector.CallResult, error) {
		tools, err := c.ListTools(ctx, "")
		if err != nil {
			return connector.CallResult{}, err
		}
		toolName, ok := findSearchTool(tools.Tools)
		if !ok {
			return connector.CallResult{}, connector.NewError(connector.KindOther, "No search tool found")
		}

		args := map[string]json.RawMessage{"query": mustMarshal(query)}
		if hasLimit {
			args["limit"] = mustMarshal(limit)
		}
		if responseFormat != "" {
			args["response_format"] = mustMarshal(string(responseFormat))
		}
		for k, v := range extraArgs {
			args[k] = mustMarshal(v)
		}

		return c.CallTool(ctx, connector.CallRequest{Name: toolName, Arguments: args})
	})
	if err != nil {
		return SourceResults{}, err
	}
	if result.IsError {
		return SourceResults{}, connector.NewError(connector.KindOther, "connector returned an error result")
	}

	raw := result.StructuredContent
	if raw == nil {
		raw = json.RawMessage("{}")
	}
	normalized := normalizeResults(t.name, raw, weight)
	return SourceResults{
		Source:         t.name,
		Results:        normalized,
		Count:          len(normalized),
		TotalAvailable: extractTotalCount(raw),
	}, nil
}

// findSearchTool picks the first tool whose name contains "search" or
// "query" (case-sensitive).
func findSearchTool(tools []connector.Tool) (string, bool) {
	for _, t := range tools {
		if strings.Contains(t.Name, "search") || strings.Contains(t.Name, "query") {
			return t.Name, true
		}
	}
	return "", false
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
