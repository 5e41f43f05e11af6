package pricing

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ryanuber/go-glob"
)

// PricingEntry is one matched rule from the catalog.
type PricingEntry struct {
	Pattern      string
	ModelPattern string
	Category     BillingCategory
	Model        PricingModel
	Currency     string
}

// Catalog matches (connector, tool, model) triples to a pricing rule by glob
// pattern on "<connector>.<tool>" with an optional model sub-pattern.
type Catalog struct {
	Version         string
	Entries         []PricingEntry
	DefaultCurrency string
	DefaultCategory BillingCategory
}

type tomlDefaults struct {
	Currency string `toml:"currency"`
	Category string `toml:"category"`
}

type tomlEntry struct {
	Pattern         string   `toml:"pattern"`
	Category        string   `toml:"category"`
	PricingModel    string   `toml:"pricing_model"`
	Model           string   `toml:"model"`
	UnitCostUSD     *float64 `toml:"unit_cost_usd"`
	InputCostUSD    *float64 `toml:"input_cost_usd"`
	OutputCostUSD   *float64 `toml:"output_cost_usd"`
	RequestCostUSD  *float64 `toml:"request_cost_usd"`
	BaseCostUSD     *float64 `toml:"base_cost_usd"`
	IncludedResults *uint64  `toml:"included_results"`
	PerResultUSD    *float64 `toml:"per_result_usd"`
	Currency        string   `toml:"currency"`
}

type tomlConfig struct {
	Version  string        `toml:"version"`
	Defaults tomlDefaults  `toml:"defaults"`
	Entries  []tomlEntry   `toml:"entries"`
}

// LoadCatalogFromPath reads and parses a TOML pricing catalog from disk.
func LoadCatalogFromPath(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pricing catalog: %w", err)
	}
	return parseCatalogTOML(content)
}

// LoadDefaultCatalog parses the embedded default catalog.
func LoadDefaultCatalog() (*Catalog, error) {
	return parseCatalogTOML([]byte(defaultCatalogTOML))
}

func parseCatalogTOML(content []byte) (*Catalog, error) {
	var cfg tomlConfig
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing pricing catalog: %w", err)
	}

	defaultCurrency := cfg.Defaults.Currency
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	defaultCategory := parseCategory(cfg.Defaults.Category, CategoryAuthOnly)

	entries := make([]PricingEntry, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		currency := e.Currency
		if currency == "" {
			currency = defaultCurrency
		}
		entries = append(entries, PricingEntry{
			Pattern:      e.Pattern,
			ModelPattern: e.Model,
			Category:     parseCategory(e.Category, CategoryAuthOnly),
			Model:        parsePricingModel(e),
			Currency:     currency,
		})
	}

	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	return &Catalog{
		Version:         version,
		Entries:         entries,
		DefaultCurrency: defaultCurrency,
		DefaultCategory: defaultCategory,
	}, nil
}

func parseCategory(s string, def BillingCategory) BillingCategory {
	switch strings.ToLower(s) {
	case "auth", "auth_only", "auth-only":
		return CategoryAuthOnly
	case "metered", "billable":
		return CategoryMetered
	default:
		return def
	}
}

func parsePricingModel(e tomlEntry) PricingModel {
	f := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	u := func(p *uint64) uint64 {
		if p == nil {
			return 0
		}
		return *p
	}

	switch strings.ToLower(strings.ReplaceAll(e.PricingModel, "-", "_")) {
	case "per_request":
		return PricingModel{Kind: ModelPerRequest, UnitCostUSD: f(e.UnitCostUSD)}
	case "per_result":
		return PricingModel{Kind: ModelPerResult, UnitCostUSD: f(e.UnitCostUSD)}
	case "per_token":
		return PricingModel{Kind: ModelPerToken, InputCostUSD: f(e.InputCostUSD), OutputCostUSD: f(e.OutputCostUSD)}
	case "per_token_plus_request":
		return PricingModel{
			Kind: ModelPerTokenPlusRequest, InputCostUSD: f(e.InputCostUSD),
			OutputCostUSD: f(e.OutputCostUSD), RequestCostUSD: f(e.RequestCostUSD),
		}
	case "per_request_plus_results":
		return PricingModel{
			Kind: ModelPerRequestPlusResults, BaseCostUSD: f(e.BaseCostUSD),
			IncludedResults: u(e.IncludedResults), PerResultUSD: f(e.PerResultUSD),
		}
	case "provider_reported":
		return PricingModel{Kind: ModelProviderReported}
	default:
		return PricingModel{Kind: ModelUnknown}
	}
}

// MatchEntry finds the pricing rule for a connector.tool pair, preferring an
// entry whose model sub-pattern also matches when a model name is given.
// Falls back to an unknown-model entry using the catalog defaults.
func (c *Catalog) MatchEntry(connector, tool string, model string) PricingEntry {
	name := connector + "." + tool

	if model != "" {
		for _, e := range c.Entries {
			if glob.Glob(e.Pattern, name) && e.ModelPattern != "" && glob.Glob(e.ModelPattern, model) {
				return e
			}
		}
	}
	for _, e := range c.Entries {
		if glob.Glob(e.Pattern, name) && e.ModelPattern == "" {
			return e
		}
	}
	return PricingEntry{
		Pattern:  "*",
		Category: c.DefaultCategory,
		Model:    PricingModel{Kind: ModelUnknown},
		Currency: c.DefaultCurrency,
	}
}
