package pricing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usage.jsonl")
	store, err := OpenStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDefaultCatalogParses(t *testing.T) {
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, catalog.Entries)
	require.Equal(t, "USD", catalog.DefaultCurrency)
}

func TestMatchEntryFallsBackToUnknownForUnmatchedConnector(t *testing.T) {
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	entry := catalog.MatchEntry("some-unlisted-connector", "do_thing", "")
	require.Equal(t, ModelUnknown, entry.Model.Kind)
}

func TestMatchEntryPerTokenPlusRequestForOpenAISearch(t *testing.T) {
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	entry := catalog.MatchEntry("openai-search", "search", "")
	require.Equal(t, ModelPerTokenPlusRequest, entry.Model.Kind)
	require.Equal(t, CategoryMetered, entry.Category)
}

func TestEstimatePerTokenPlusRequestComputesCost(t *testing.T) {
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	store := newTestStore(t)
	mgr := NewManager(store, catalog)

	structured := []byte(`{"usage": {"input_tokens": 1000, "output_tokens": 500}}`)
	event := mgr.Estimate(EstimateParams{
		Connector: "openai-search", Tool: "search", Provider: "openai",
		RunID: "run1", RequestID: "req1", Status: "ok", DurationMS: 120,
		Structured: structured, Now: time.Unix(1700000000, 0),
	})

	require.NotNil(t, event.CostUSD)
	expected := 0.000005*1000 + 0.000015*500 + 0.001
	require.InDelta(t, expected, *event.CostUSD, 0.0000001)
	require.True(t, event.Estimated)
}

func TestEstimateProviderReportedCostOverridesModel(t *testing.T) {
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	store := newTestStore(t)
	mgr := NewManager(store, catalog)

	structured := []byte(`{"cost": 0.042, "usage": {"input_tokens": 10}}`)
	event := mgr.Estimate(EstimateParams{
		Connector: "openai-search", Tool: "search", Provider: "openai",
		RunID: "run1", RequestID: "req2", Status: "ok", Structured: structured,
		Now: time.Unix(1700000000, 0),
	})

	require.NotNil(t, event.CostUSD)
	require.InDelta(t, 0.042, *event.CostUSD, 0.0000001)
	require.False(t, event.Estimated)
}

func TestEstimateAndRecordAppendsToLogAndSummarizes(t *testing.T) {
	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)
	store := newTestStore(t)
	mgr := NewManager(store, catalog)

	_, err = mgr.EstimateAndRecord(EstimateParams{
		Connector: "github", Tool: "get_repository", Provider: "github",
		RunID: "run1", RequestID: "req1", Status: "ok", Now: time.Unix(1700000000, 0),
	})
	require.NoError(t, err)
	_, err = mgr.EstimateAndRecord(EstimateParams{
		Connector: "github", Tool: "get_issue", Provider: "github",
		RunID: "run1", RequestID: "req2", Status: "ok", Now: time.Unix(1700000000, 0),
	})
	require.NoError(t, err)

	summary, err := mgr.SummarizeAll()
	require.NoError(t, err)
	require.Equal(t, uint64(2), summary.TotalRequests)
	require.Contains(t, summary.Runs, "run1")
	require.Equal(t, uint64(2), summary.Runs["run1"].TotalRequests)
}

func TestFindResultCountDetectsArrayLength(t *testing.T) {
	structured := []byte(`{"articles": [{"id": 1}, {"id": 2}, {"id": 3}]}`)
	units, _ := extractUnits(structured)
	require.NotNil(t, units.Results)
	require.Equal(t, uint64(3), *units.Results)
}
