package pricing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "usage.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	catalog, err := LoadDefaultCatalog()
	require.NoError(t, err)

	return NewManager(store, catalog)
}

func TestRollupSchedulerRunOnceProducesSummary(t *testing.T) {
	manager := newTestManager(t)
	_, err := manager.EstimateAndRecord(EstimateParams{
		Connector: "github",
		Tool:      "search_repositories",
		RunID:     "run-1",
		Now:       time.Now(),
	})
	require.NoError(t, err)

	scheduler := NewRollupScheduler(manager, arbor.NewLogger())
	scheduler.runOnce()

	summary, err := scheduler.Latest()
	require.NoError(t, err)
	require.Equal(t, uint64(1), summary.TotalRequests)
}

func TestRollupSchedulerStartRunsImmediatelyAndStops(t *testing.T) {
	manager := newTestManager(t)
	scheduler := NewRollupScheduler(manager, arbor.NewLogger())

	require.NoError(t, scheduler.Start("@every 1h"))
	defer scheduler.Stop()

	summary, err := scheduler.Latest()
	require.NoError(t, err)
	require.Equal(t, uint64(0), summary.TotalRequests)
}
