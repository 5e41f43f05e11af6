package federated

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/registry"
)

type fakeConnector struct {
	connector.Base
	name    string
	tools   []connector.Tool
	call    func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error)
	sleepMS int
}

func (f *fakeConnector) Name() string                  { return f.name }
func (f *fakeConnector) Description() string           { return f.name + " connector" }
func (f *fakeConnector) CredentialProvider() string     { return f.name }
func (f *fakeConnector) ConfigSchema() connector.ConfigSchema { return connector.ConfigSchema{} }

func (f *fakeConnector) Initialize(ctx context.Context, req connector.InitializeRequest) (connector.InitializeResult, error) {
	return connector.InitializeResult{}, nil
}

func (f *fakeConnector) ListTools(ctx context.Context, cursor string) (connector.ListToolsResult, error) {
	return connector.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeConnector) CallTool(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
	if f.sleepMS > 0 {
		select {
		case <-time.After(time.Duration(f.sleepMS) * time.Millisecond):
		case <-ctx.Done():
			return connector.CallResult{}, ctx.Err()
		}
	}
	return f.call(ctx, req)
}

func (f *fakeConnector) GetAuthDetails(ctx context.Context) (connector.AuthDetails, error) {
	return connector.AuthDetails{}, nil
}
func (f *fakeConnector) SetAuthDetails(ctx context.Context, details connector.AuthDetails) error {
	return nil
}
func (f *fakeConnector) TestAuth(ctx context.Context) error { return nil }

func structuredArticles(titles ...string) json.RawMessage {
	type article struct {
		Title string `json:"title"`
		PMID  string `json:"pmid"`
	}
	articles := make([]article, len(titles))
	for i, title := range titles {
		articles[i] = article{Title: title, PMID: title}
	}
	b, _ := json.Marshal(map[string]any{"articles": articles})
	return b
}

func newRegistryWith(connectors ...*fakeConnector) *registry.Registry {
	reg := registry.New(arbor.NewLogger())
	for _, c := range connectors {
		reg.Register(c)
	}
	return reg
}

func TestSearchAdhocEmptyConnectorsYieldsEmptyGroupedResult(t *testing.T) {
	reg := newRegistryWith()
	engine := NewEngine(reg)
	result := engine.SearchAdhoc(context.Background(), "golang", nil, MergeGrouped)

	require.Empty(t, result.Completed)
	require.Empty(t, result.Errors)
	require.False(t, result.Partial)
	require.Equal(t, 0, result.TotalCount)
}

func TestSearchAdhocGroupedMergesTwoSources(t *testing.T) {
	pubmed := &fakeConnector{
		name:  "pubmed",
		tools: []connector.Tool{{Name: "search_articles"}},
		call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
			return connector.CallResult{StructuredContent: structuredArticles("A", "B")}, nil
		},
	}
	arxiv := &fakeConnector{
		name:  "arxiv",
		tools: []connector.Tool{{Name: "search_papers"}},
		call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
			b, _ := json.Marshal(map[string]any{"papers": []map[string]string{{"id": "2301.00001", "title": "Paper"}}})
			return connector.CallResult{StructuredContent: b}, nil
		},
	}

	reg := newRegistryWith(pubmed, arxiv)
	engine := NewEngine(reg)
	result := engine.SearchAdhoc(context.Background(), "test", []string{"pubmed", "arxiv"}, MergeGrouped)

	require.Len(t, result.Completed, 2)
	require.Empty(t, result.Errors)
	require.False(t, result.Partial)
	require.Equal(t, 3, result.TotalCount)
	require.Equal(t, MergeGrouped, result.Results.Type)
	require.Len(t, result.Results.Sources, 2)
}

func TestSearchWithProfileInterleavedAppliesWeightedRanking(t *testing.T) {
	makeConnector := func(name string, titles ...string) *fakeConnector {
		return &fakeConnector{
			name:  name,
			tools: []connector.Tool{{Name: "search"}},
			call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
				return connector.CallResult{StructuredContent: structuredArticles(titles...)}, nil
			},
		}
	}
	a := makeConnector("a", "A1", "A2")
	b := makeConnector("b", "B1", "B2")

	reg := newRegistryWith(a, b)
	engine := NewEngine(reg)

	profile := SearchProfile{
		Name:       "weighted",
		Connectors: []string{"a", "b"},
		Weights:    map[string]float32{"a": 1.5, "b": 1.0},
		Defaults:   ProfileDefaults{MergeMode: MergeInterleaved},
		TimeoutMS:  DefaultTimeoutMS,
	}
	mode := MergeInterleaved
	result := engine.SearchWithProfile(context.Background(), "test", profile, nil, &mode)

	require.Equal(t, MergeInterleaved, result.Results.Type)
	require.Len(t, result.Results.Results, 4)

	scores := make([]float32, 4)
	for i, r := range result.Results.Results {
		require.NotNil(t, r.Federation.Score)
		scores[i] = *r.Federation.Score
	}
	require.InDelta(t, 1.5, scores[0], 0.001)
	require.InDelta(t, 1.0, scores[1], 0.001)
	require.InDelta(t, 0.75, scores[2], 0.001)
	require.InDelta(t, 0.5, scores[3], 0.001)
}

func TestSearchWithProfileOneSourceTimesOutYieldsPartialResult(t *testing.T) {
	slow := &fakeConnector{
		name:    "slow",
		tools:   []connector.Tool{{Name: "search"}},
		sleepMS: 200,
		call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
			return connector.CallResult{StructuredContent: structuredArticles("late")}, nil
		},
	}
	fast := &fakeConnector{
		name:  "fast",
		tools: []connector.Tool{{Name: "search"}},
		call: func(ctx context.Context, req connector.CallRequest) (connector.CallResult, error) {
			return connector.CallResult{StructuredContent: structuredArticles("x", "y", "z")}, nil
		},
	}

	reg := newRegistryWith(slow, fast)
	engine := NewEngine(reg)

	profile := SearchProfile{
		Name:       "timeout-test",
		Connectors: []string{"slow", "fast"},
		Defaults:   ProfileDefaults{MergeMode: MergeGrouped},
		TimeoutMS:  50,
	}
	mode := MergeGrouped
	result := engine.SearchWithProfile(context.Background(), "test", profile, nil, &mode)

	require.Equal(t, []string{"fast"}, result.Completed)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "slow", result.Errors[0].Source)
	require.True(t, result.Errors[0].IsTimeout)
	require.True(t, result.Partial)
	require.Equal(t, 3, result.TotalCount)
}

func TestFindSearchToolPrefersFirstMatchContainingSearchOrQuery(t *testing.T) {
	tools := []connector.Tool{{Name: "get_article"}, {Name: "search_articles"}, {Name: "query_related"}}
	name, ok := findSearchTool(tools)
	require.True(t, ok)
	require.Equal(t, "search_articles", name)
}

func TestFindSearchToolMissingReturnsFalse(t *testing.T) {
	tools := []connector.Tool{{Name: "get_article"}}
	_, ok := findSearchTool(tools)
	require.False(t, ok)
}
