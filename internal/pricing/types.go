// Package pricing matches connector/tool calls to a pricing rule, estimates
// billable units, and records usage events.
package pricing

// BillingCategory classifies whether a call is metered or credential-only.
type BillingCategory string

const (
	CategoryAuthOnly BillingCategory = "auth_only"
	CategoryMetered  BillingCategory = "metered"
)

// ModelKind is the closed set of pricing strategies.
type ModelKind string

const (
	ModelPerRequest             ModelKind = "per_request"
	ModelPerToken               ModelKind = "per_token"
	ModelPerTokenPlusRequest    ModelKind = "per_token_plus_request"
	ModelPerResult              ModelKind = "per_result"
	ModelPerRequestPlusResults  ModelKind = "per_request_plus_results"
	ModelProviderReported       ModelKind = "provider_reported"
	ModelUnknown                ModelKind = "unknown"
)

// PricingModel carries the parameters for whichever ModelKind it names; only
// the fields relevant to Kind are populated.
type PricingModel struct {
	Kind             ModelKind
	UnitCostUSD      float64
	InputCostUSD     float64
	OutputCostUSD    float64
	RequestCostUSD   float64
	BaseCostUSD      float64
	IncludedResults  uint64
	PerResultUSD     float64
}

// UsageUnits is the measured or estimated consumption for one call.
type UsageUnits struct {
	Requests     *uint64 `json:"requests,omitempty"`
	InputTokens  *uint64 `json:"input_tokens,omitempty"`
	OutputTokens *uint64 `json:"output_tokens,omitempty"`
	Results      *uint64 `json:"results,omitempty"`
}

// UsageEvent is one billable or auth-only call record, appended as one JSON line to the usage log.
type UsageEvent struct {
	EventID        string          `json:"event_id"`
	RunID          string          `json:"run_id"`
	RequestID      string          `json:"request_id"`
	Connector      string          `json:"connector"`
	Tool           string          `json:"tool"`
	Provider       string          `json:"provider"`
	KeyID          string          `json:"key_id,omitempty"`
	Category       BillingCategory `json:"category"`
	Units          UsageUnits      `json:"units"`
	CostUSD        *float64        `json:"cost_usd,omitempty"`
	Currency       string          `json:"currency"`
	Estimated      bool            `json:"estimated"`
	PricingVersion string          `json:"pricing_version"`
	Status         string          `json:"status"`
	DurationMS     uint64          `json:"duration_ms"`
	Timestamp      string          `json:"timestamp"`
}

// RunSummary aggregates usage across every event sharing a run_id.
type RunSummary struct {
	RunID             string  `json:"run_id"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
	TotalRequests     uint64  `json:"total_requests"`
	TotalInputTokens  uint64  `json:"total_input_tokens"`
	TotalOutputTokens uint64  `json:"total_output_tokens"`
	TotalResults      uint64  `json:"total_results"`
}

// UsageSummary aggregates usage across the entire log, broken out by run.
type UsageSummary struct {
	TotalCostUSD      float64               `json:"total_cost_usd"`
	TotalRequests     uint64                `json:"total_requests"`
	TotalInputTokens  uint64                `json:"total_input_tokens"`
	TotalOutputTokens uint64                `json:"total_output_tokens"`
	TotalResults      uint64                `json:"total_results"`
	Runs              map[string]RunSummary `json:"runs"`
}

func (s *UsageSummary) apply(e UsageEvent) {
	cost := 0.0
	if e.CostUSD != nil {
		cost = *e.CostUSD
	}
	s.TotalCostUSD += cost
	s.TotalRequests += uintOr(e.Units.Requests, 0)
	s.TotalInputTokens += uintOr(e.Units.InputTokens, 0)
	s.TotalOutputTokens += uintOr(e.Units.OutputTokens, 0)
	s.TotalResults += uintOr(e.Units.Results, 0)

	if s.Runs == nil {
		s.Runs = make(map[string]RunSummary)
	}
	run := s.Runs[e.RunID]
	run.RunID = e.RunID
	run.TotalCostUSD += cost
	run.TotalRequests += uintOr(e.Units.Requests, 0)
	run.TotalInputTokens += uintOr(e.Units.InputTokens, 0)
	run.TotalOutputTokens += uintOr(e.Units.OutputTokens, 0)
	run.TotalResults += uintOr(e.Units.Results, 0)
	s.Runs[e.RunID] = run
}

func uintOr(v *uint64, def uint64) uint64 {
	if v == nil {
		return def
	}
	return *v
}

func uint64p(v uint64) *uint64 { return &v }
