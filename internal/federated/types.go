// Package federated fans a query out to many connectors in parallel and
// reconciles the results into one ranked or grouped response.
package federated

import (
	"encoding/json"
	"sort"
	"time"
)

// MergeMode selects how per-source results are combined.
type MergeMode string

const (
	MergeGrouped     MergeMode = "grouped"
	MergeInterleaved MergeMode = "interleaved"
)

const DefaultTimeoutMS = 30_000

// FederationMeta is the ranking metadata attached to every unified result.
type FederationMeta struct {
	SourceRank int      `json:"source_rank"`
	Weight     float32  `json:"weight"`
	Score      *float32 `json:"score,omitempty"`
}

func newFederationMeta(rank int, weight float32) FederationMeta {
	return FederationMeta{SourceRank: rank, Weight: weight}
}

// computeScore implements the source-weighted reciprocal-rank fusion
// formula: score = (1 / source_rank) * weight.
func (m *FederationMeta) computeScore() {
	score := (1.0 / float32(m.SourceRank)) * m.Weight
	m.Score = &score
}

// UnifiedSearchResult is one normalized result from any connector. The
// leading underscore on the federation field keeps it visually distinct
// from connector-supplied metadata in JSON output.
type UnifiedSearchResult struct {
	Source     string          `json:"source"`
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Snippet    string          `json:"snippet,omitempty"`
	URL        string          `json:"url,omitempty"`
	Timestamp  *time.Time      `json:"timestamp,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	Federation FederationMeta  `json:"_federation"`
}

// SourceResults holds the normalized results from one connector.
type SourceResults struct {
	Source        string                `json:"source"`
	Results       []UnifiedSearchResult `json:"results"`
	Count         int                   `json:"count"`
	TotalAvailable *int                 `json:"total_available,omitempty"`
	DurationMS    *int64                `json:"duration_ms,omitempty"`
}

// SourceError records a failed or timed-out per-source call.
type SourceError struct {
	Source    string `json:"source"`
	Error     string `json:"error"`
	IsTimeout bool   `json:"is_timeout"`
}

// FederatedResults is the tagged grouped/interleaved result container.
// Exactly one of Sources/Results is populated, selected by Type.
type FederatedResults struct {
	Type    MergeMode             `json:"type"`
	Sources []SourceResults       `json:"sources,omitempty"`
	Results []UnifiedSearchResult `json:"results,omitempty"`
}

// FederatedSearchResult is the complete outcome of one federated search call.
type FederatedSearchResult struct {
	Query      string            `json:"query"`
	Profile    string            `json:"profile,omitempty"`
	MergeMode  MergeMode         `json:"merge_mode"`
	Results    FederatedResults  `json:"results"`
	TotalCount int               `json:"total_count"`
	Completed  []string          `json:"completed"`
	Errors     []SourceError     `json:"errors,omitempty"`
	Partial    bool              `json:"partial"`
	DurationMS *int64            `json:"duration_ms,omitempty"`
}

func newGroupedResult(query string) *FederatedSearchResult {
	return &FederatedSearchResult{
		Query:     query,
		MergeMode: MergeGrouped,
		Results:   FederatedResults{Type: MergeGrouped, Sources: []SourceResults{}},
		Completed: []string{},
	}
}

func (r *FederatedSearchResult) addSource(s SourceResults) {
	r.TotalCount += s.Count
	r.Completed = append(r.Completed, s.Source)
	r.Results.Sources = append(r.Results.Sources, s)
}

func (r *FederatedSearchResult) addError(source, message string, isTimeout bool) {
	r.Errors = append(r.Errors, SourceError{Source: source, Error: message, IsTimeout: isTimeout})
	r.Partial = true
}

// AllFailed reports whether every targeted source errored.
func (r *FederatedSearchResult) AllFailed() bool {
	return len(r.Completed) == 0 && len(r.Errors) > 0
}

// finalizeInterleaved flattens the grouped sources into one score-sorted
// list. Sort is stable so ties keep insertion (task-completion) order.
func (r *FederatedSearchResult) finalizeInterleaved() {
	if r.Results.Type != MergeGrouped {
		return
	}
	var all []UnifiedSearchResult
	for _, s := range r.Results.Sources {
		all = append(all, s.Results...)
	}
	for i := range all {
		all[i].Federation.computeScore()
	}
	stableSortByScoreDescending(all)

	r.Results = FederatedResults{Type: MergeInterleaved, Results: all}
	r.MergeMode = MergeInterleaved
}

func stableSortByScoreDescending(results []UnifiedSearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		var si, sj float32
		if results[i].Federation.Score != nil {
			si = *results[i].Federation.Score
		}
		if results[j].Federation.Score != nil {
			sj = *results[j].Federation.Score
		}
		return si > sj
	})
}
