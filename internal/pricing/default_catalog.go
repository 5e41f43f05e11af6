package pricing

// defaultCatalogTOML is the built-in pricing catalog shipped with the
// binary; callers can override it with their own TOML file.
const defaultCatalogTOML = `
version = "0.1.0"

[defaults]
currency = "USD"
category = "auth_only"

[[entries]]
pattern = "openai-search.*"
category = "metered"
pricing_model = "per_token_plus_request"
input_cost_usd = 0.000005
output_cost_usd = 0.000015
request_cost_usd = 0.001

[[entries]]
pattern = "anthropic-search.*"
category = "metered"
pricing_model = "per_token_plus_request"
input_cost_usd = 0.000003
output_cost_usd = 0.000015
request_cost_usd = 0.001

[[entries]]
pattern = "xai-search.*"
category = "metered"
pricing_model = "provider_reported"

[[entries]]
pattern = "gemini-search.*"
category = "metered"
pricing_model = "provider_reported"

[[entries]]
pattern = "parallel-search.*"
category = "metered"
pricing_model = "per_request_plus_results"
base_cost_usd = 0.005
included_results = 5
per_result_usd = 0.001

[[entries]]
pattern = "github.*"
category = "auth_only"
pricing_model = "unknown"

[[entries]]
pattern = "pubmed.*"
category = "auth_only"
pricing_model = "unknown"

[[entries]]
pattern = "arxiv.*"
category = "auth_only"
pricing_model = "unknown"

[[entries]]
pattern = "semantic-scholar.*"
category = "auth_only"
pricing_model = "per_request"
unit_cost_usd = 0.0

[[entries]]
pattern = "*"
category = "auth_only"
pricing_model = "unknown"
`
