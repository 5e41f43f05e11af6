package connector

import "encoding/json"

// resultListKeys are the known result-array keys probed when deciding
// whether a structured payload represents an empty result set.
var resultListKeys = []string{
	"results", "articles", "papers", "items", "stories", "posts", "videos",
}

// Canonicalize inspects a connector's raw structured payload and, if every
// known result-list key maps to an empty array (or the payload itself is an
// empty array), attaches `no_results: true` and a human-readable `message`.
// Otherwise it returns raw unchanged, without re-marshaling.
func Canonicalize(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if isEmptyObjectPayload(obj) {
			return withNoResults(obj)
		}
		return raw
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) == 0 {
		return mustMarshal(map[string]any{
			"no_results": true,
			"message":    "no results found",
			"results":    []any{},
		})
	}

	return raw
}

func isEmptyObjectPayload(obj map[string]json.RawMessage) bool {
	foundKnownKey := false
	for _, key := range resultListKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		foundKnownKey = true
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil || len(arr) != 0 {
			return false
		}
	}
	return foundKnownKey
}

func withNoResults(obj map[string]json.RawMessage) json.RawMessage {
	out := make(map[string]json.RawMessage, len(obj)+2)
	for k, v := range obj {
		out[k] = v
	}
	out["no_results"] = json.RawMessage("true")
	out["message"] = mustMarshal("no results found")
	return mustMarshal(out)
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
