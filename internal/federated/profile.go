package federated

// ResponseFormat is the detail level requested from a connector's search tool.
type ResponseFormat string

const (
	ResponseConcise  ResponseFormat = "concise"
	ResponseDetailed ResponseFormat = "detailed"
)

// ConnectorOverride customizes the arguments sent to one connector within a
// profile.
type ConnectorOverride struct {
	Limit          *uint32
	ResponseFormat ResponseFormat
	ExtraArgs      map[string]any
}

// ProfileDefaults are the fallback argument values applied to every
// connector in a profile unless overridden.
type ProfileDefaults struct {
	Limit          uint32
	ResponseFormat ResponseFormat
	MergeMode      MergeMode
}

// SearchProfile names a reusable set of connectors and per-connector tuning
// for federated search.
type SearchProfile struct {
	Name        string
	Description string
	Connectors  []string
	Overrides   map[string]ConnectorOverride
	Weights     map[string]float32
	Defaults    ProfileDefaults
	TimeoutMS   int
	Inherits    string
}

// EffectiveConnectors resolves `inherits` one level deep, unioning the
// parent's connector list under the child's own entries last.
func (p SearchProfile) EffectiveConnectors(parent *SearchProfile) []string {
	if parent == nil {
		return p.Connectors
	}
	seen := make(map[string]bool, len(parent.Connectors)+len(p.Connectors))
	var merged []string
	for _, c := range parent.Connectors {
		if !seen[c] {
			seen[c] = true
			merged = append(merged, c)
		}
	}
	for _, c := range p.Connectors {
		if !seen[c] {
			seen[c] = true
			merged = append(merged, c)
		}
	}
	return merged
}

// WeightFor returns the configured weight for a connector, defaulting to 1.0.
func (p SearchProfile) WeightFor(connector string) float32 {
	if w, ok := p.Weights[connector]; ok {
		return w
	}
	return 1.0
}

// LimitFor returns the effective result limit for a connector: its override
// if set, else the profile default.
func (p SearchProfile) LimitFor(connector string) uint32 {
	if o, ok := p.Overrides[connector]; ok && o.Limit != nil {
		return *o.Limit
	}
	return p.Defaults.Limit
}

// ResponseFormatFor returns the effective response format for a connector.
func (p SearchProfile) ResponseFormatFor(connector string) ResponseFormat {
	if o, ok := p.Overrides[connector]; ok && o.ResponseFormat != "" {
		return o.ResponseFormat
	}
	return p.Defaults.ResponseFormat
}

// ExtraArgsFor returns the extra_args merged last for a connector, or nil.
func (p SearchProfile) ExtraArgsFor(connector string) map[string]any {
	if o, ok := p.Overrides[connector]; ok {
		return o.ExtraArgs
	}
	return nil
}

func uint32p(v uint32) *uint32 { return &v }

// BuiltinProfiles returns the fixed built-in profile set: research,
// enterprise, social, code, web.
func BuiltinProfiles() map[string]SearchProfile {
	defaults := ProfileDefaults{Limit: 10, ResponseFormat: ResponseConcise, MergeMode: MergeGrouped}

	return map[string]SearchProfile{
		"research": {
			Name:        "research",
			Description: "Academic papers and technical research across preprint servers and indices",
			Connectors:  []string{"arxiv", "pubmed", "semantic-scholar"},
			Weights:     map[string]float32{"semantic-scholar": 1.2},
			Defaults:    defaults,
			TimeoutMS:   DefaultTimeoutMS,
		},
		"enterprise": {
			Name:        "enterprise",
			Description: "Internal knowledge sources",
			Connectors:  []string{"github", "google-calendar"},
			Defaults:    defaults,
			TimeoutMS:   DefaultTimeoutMS,
		},
		"social": {
			Name:        "social",
			Description: "Forums and social discussion",
			Connectors:  []string{"hackernews", "reddit", "x"},
			Weights:     map[string]float32{"hackernews": 1.1},
			Defaults:    defaults,
			TimeoutMS:   DefaultTimeoutMS,
		},
		"code": {
			Name:        "code",
			Description: "Source code and issue tracking",
			Connectors:  []string{"github"},
			Overrides: map[string]ConnectorOverride{
				"github": {Limit: uint32p(20)},
			},
			Defaults:  defaults,
			TimeoutMS: DefaultTimeoutMS,
		},
		"web": {
			Name:        "web",
			Description: "General-purpose AI-backed web search",
			Connectors:  []string{"web", "openai-search", "wikipedia"},
			Defaults:    defaults,
			TimeoutMS:   DefaultTimeoutMS,
		},
	}
}

// DefaultProfileName is used when no profile or connector list is given.
const DefaultProfileName = "research"
