package pricing

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arivu/arivu/internal/common"
)

// resultCountKeys is the closed probe list for estimating a "results"
// billing unit from a structured payload.
var resultCountKeys = []string{
	"results", "articles", "items", "entries", "documents", "records",
	"posts", "stories", "videos", "papers", "messages", "mailboxes",
	"conversations", "threads", "hits", "search_results", "content", "data",
}

// Manager matches calls to pricing rules, estimates cost, and records usage
// events.
type Manager struct {
	Store   *Store
	Catalog *Catalog
}

func NewManager(store *Store, catalog *Catalog) *Manager {
	return &Manager{Store: store, Catalog: catalog}
}

// EstimateParams bundles the context needed to price and record one call.
type EstimateParams struct {
	Connector  string
	Tool       string
	Provider   string
	RunID      string
	RequestID  string
	KeyID      string
	Status     string
	DurationMS uint64
	Structured json.RawMessage
	Model      string
	Now        time.Time
}

// Estimate prices one call against the catalog and returns the resulting
// usage event without recording it; callers record via Record or call
// EstimateAndRecord.
func (m *Manager) Estimate(p EstimateParams) UsageEvent {
	entry := m.Catalog.MatchEntry(p.Connector, p.Tool, p.Model)
	units, estimated := extractUnits(p.Structured)

	var costUSD *float64
	switch entry.Model.Kind {
	case ModelProviderReported:
		if cost := extractCostUSD(p.Structured); cost != nil {
			costUSD = cost
			estimated = false
		}
	case ModelPerRequest:
		count := uintOr(units.Requests, 1)
		cost := decimalUSD(entry.Model.UnitCostUSD).Mul(decimal.NewFromInt(int64(count)))
		costUSD = floatp(cost)
		estimated = true
	case ModelPerResult:
		count := uintOr(units.Results, 0)
		if count > 0 {
			cost := decimalUSD(entry.Model.UnitCostUSD).Mul(decimal.NewFromInt(int64(count)))
			costUSD = floatp(cost)
		}
		estimated = true
	case ModelPerToken:
		input := decimal.NewFromInt(int64(uintOr(units.InputTokens, 0)))
		output := decimal.NewFromInt(int64(uintOr(units.OutputTokens, 0)))
		cost := decimalUSD(entry.Model.InputCostUSD).Mul(input).Add(decimalUSD(entry.Model.OutputCostUSD).Mul(output))
		costUSD = floatp(cost)
		estimated = true
	case ModelPerTokenPlusRequest:
		input := decimal.NewFromInt(int64(uintOr(units.InputTokens, 0)))
		output := decimal.NewFromInt(int64(uintOr(units.OutputTokens, 0)))
		requests := decimal.NewFromInt(int64(uintOr(units.Requests, 1)))
		cost := decimalUSD(entry.Model.InputCostUSD).Mul(input).
			Add(decimalUSD(entry.Model.OutputCostUSD).Mul(output)).
			Add(decimalUSD(entry.Model.RequestCostUSD).Mul(requests))
		costUSD = floatp(cost)
		estimated = true
	case ModelPerRequestPlusResults:
		count := uintOr(units.Results, entry.Model.IncludedResults)
		extra := uint64(0)
		if count > entry.Model.IncludedResults {
			extra = count - entry.Model.IncludedResults
		}
		cost := decimalUSD(entry.Model.BaseCostUSD).
			Add(decimalUSD(entry.Model.PerResultUSD).Mul(decimal.NewFromInt(int64(extra))))
		costUSD = floatp(cost)
		estimated = true
	default:
		estimated = true
	}

	// Provider-reported cost always wins, even under a non-provider_reported
	// model.
	if cost := extractCostUSD(p.Structured); cost != nil {
		costUSD = cost
		estimated = false
	}

	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	return UsageEvent{
		EventID:        common.NewEventID(),
		RunID:          p.RunID,
		RequestID:      p.RequestID,
		Connector:      p.Connector,
		Tool:           p.Tool,
		Provider:       p.Provider,
		KeyID:          p.KeyID,
		Category:       entry.Category,
		Units:          units,
		CostUSD:        costUSD,
		Currency:       entry.Currency,
		Estimated:      estimated,
		PricingVersion: m.Catalog.Version,
		Status:         p.Status,
		DurationMS:     p.DurationMS,
		Timestamp:      now.UTC().Format(time.RFC3339),
	}
}

// EstimateAndRecord estimates the event and appends it to the usage log.
func (m *Manager) EstimateAndRecord(p EstimateParams) (UsageEvent, error) {
	event := m.Estimate(p)
	if err := m.Store.Record(event); err != nil {
		return event, err
	}
	return event, nil
}

func (m *Manager) SummarizeAll() (UsageSummary, error) {
	events, err := m.Store.LoadAll()
	if err != nil {
		return UsageSummary{}, err
	}
	var summary UsageSummary
	for _, e := range events {
		summary.apply(e)
	}
	return summary, nil
}

func (m *Manager) SummarizeRun(runID string) (RunSummary, error) {
	events, err := m.Store.LoadAll()
	if err != nil {
		return RunSummary{}, err
	}
	summary := RunSummary{RunID: runID}
	total := decimal.Zero
	for _, e := range events {
		if e.RunID != runID {
			continue
		}
		if e.CostUSD != nil {
			total = total.Add(decimalUSD(*e.CostUSD))
		}
		summary.TotalRequests += uintOr(e.Units.Requests, 0)
		summary.TotalInputTokens += uintOr(e.Units.InputTokens, 0)
		summary.TotalOutputTokens += uintOr(e.Units.OutputTokens, 0)
		summary.TotalResults += uintOr(e.Units.Results, 0)
	}
	summary.TotalCostUSD, _ = total.Round(6).Float64()
	return summary, nil
}

// decimalUSD converts a float64 dollar amount to decimal.Decimal via its
// string form, avoiding the binary-float rounding that Decimal.NewFromFloat
// would otherwise bake in.
func decimalUSD(v float64) decimal.Decimal {
	d, err := decimal.NewFromString(formatUSD(v))
	if err != nil {
		return decimal.NewFromFloat(v)
	}
	return d
}

func formatUSD(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// floatp rounds a decimal cost to six decimal places and returns it as a
// *float64 for UsageEvent's wire representation.
func floatp(d decimal.Decimal) *float64 {
	f, _ := d.Round(6).Float64()
	return &f
}

func extractUnits(structured json.RawMessage) (UsageUnits, bool) {
	units := UsageUnits{Requests: uint64p(1)}
	estimated := true
	if len(structured) == 0 {
		return units, estimated
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(structured, &obj) != nil {
		return units, estimated
	}

	if usage := findUsageObject(obj); usage != nil {
		input := firstUint(usage, "input_tokens", "prompt_tokens", "input", "prompt")
		output := firstUint(usage, "output_tokens", "completion_tokens", "output", "completion")
		total := firstUint(usage, "total_tokens", "tokens")

		if input != nil || output != nil {
			units.InputTokens = input
			units.OutputTokens = output
			estimated = false
		} else if total != nil {
			units.InputTokens = total
			units.OutputTokens = uint64p(0)
			estimated = true
		}
	}

	if results := findResultCount(obj); results != nil {
		units.Results = results
	}

	return units, estimated
}

func findUsageObject(obj map[string]json.RawMessage) map[string]json.RawMessage {
	if raw, ok := obj["usage"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil {
			return nested
		}
	}
	if raw, ok := obj["token_usage"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil {
			return nested
		}
	}
	if raw, ok := obj["raw"]; ok {
		var rawObj map[string]json.RawMessage
		if json.Unmarshal(raw, &rawObj) == nil {
			if usageRaw, ok := rawObj["usage"]; ok {
				var nested map[string]json.RawMessage
				if json.Unmarshal(usageRaw, &nested) == nil {
					return nested
				}
			}
		}
	}
	return nil
}

func firstUint(obj map[string]json.RawMessage, keys ...string) *uint64 {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var n uint64
		if json.Unmarshal(raw, &n) == nil {
			return &n
		}
	}
	return nil
}

func findResultCount(obj map[string]json.RawMessage) *uint64 {
	for _, key := range resultCountKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var arr []json.RawMessage
		if json.Unmarshal(raw, &arr) == nil {
			n := uint64(len(arr))
			return &n
		}
	}
	return nil
}

func extractCostUSD(structured json.RawMessage) *float64 {
	if len(structured) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(structured, &obj) != nil {
		return nil
	}

	if usage, ok := obj["usage"]; ok {
		var usageObj map[string]json.RawMessage
		if json.Unmarshal(usage, &usageObj) == nil {
			if cost := costValueToFloat(usageObj["cost"]); cost != nil {
				return cost
			}
		}
	}
	if cost := costValueToFloat(obj["cost"]); cost != nil {
		return cost
	}
	if raw, ok := obj["raw"]; ok {
		var rawObj map[string]json.RawMessage
		if json.Unmarshal(raw, &rawObj) == nil {
			if cost := costValueToFloat(rawObj["cost"]); cost != nil {
				return cost
			}
			if usage, ok := rawObj["usage"]; ok {
				var usageObj map[string]json.RawMessage
				if json.Unmarshal(usage, &usageObj) == nil {
					if cost := costValueToFloat(usageObj["cost"]); cost != nil {
						return cost
					}
				}
			}
		}
	}
	return nil
}

func costValueToFloat(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return &n
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) == nil {
		for _, key := range []string{"total", "amount", "usd", "total_cost", "cost"} {
			if v, ok := obj[key]; ok {
				var f float64
				if json.Unmarshal(v, &f) == nil {
					return &f
				}
			}
		}
	}
	return nil
}
