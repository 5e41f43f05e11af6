package federated

import (
	"encoding/json"
	"fmt"
	"strings"
)

var resultListKeys = []string{"results", "articles", "papers", "items", "stories", "posts", "videos"}

// findResultsArray locates the list of result items within a raw tool
// response by probing known keys, falling back to the payload itself if it
// is already an array.
func findResultsArray(raw json.RawMessage) []json.RawMessage {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) == nil {
		for _, key := range resultListKeys {
			if v, ok := obj[key]; ok {
				var arr []json.RawMessage
				if json.Unmarshal(v, &arr) == nil {
					return arr
				}
			}
		}
		return nil
	}
	var arr []json.RawMessage
	if json.Unmarshal(raw, &arr) == nil {
		return arr
	}
	return nil
}

// extractTotalCount probes total_results/total_count/totalCount on the raw
// payload.
func extractTotalCount(raw json.RawMessage) *int {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	for _, key := range []string{"total_results", "total_count", "totalCount"} {
		if v, ok := obj[key]; ok {
			var n int
			if json.Unmarshal(v, &n) == nil {
				return &n
			}
		}
	}
	return nil
}

func normalizeResults(source string, raw json.RawMessage, weight float32) []UnifiedSearchResult {
	items := findResultsArray(raw)
	results := make([]UnifiedSearchResult, 0, len(items))
	for idx, item := range items {
		if r, ok := normalizeSingleResult(source, item, idx+1, weight); ok {
			results = append(results, r)
		}
	}
	return results
}

func normalizeSingleResult(source string, item json.RawMessage, rank int, weight float32) (UnifiedSearchResult, bool) {
	var obj map[string]json.RawMessage
	if json.Unmarshal(item, &obj) != nil {
		return UnifiedSearchResult{}, false
	}

	id, ok := extractID(source, obj)
	if !ok {
		return UnifiedSearchResult{}, false
	}
	title, ok := stringField(obj, "title", "name")
	if !ok {
		return UnifiedSearchResult{}, false
	}

	result := UnifiedSearchResult{
		Source:     source,
		ID:         id,
		Title:      title,
		Federation: newFederationMeta(rank, weight),
	}
	if snippet, ok := extractSnippet(obj); ok {
		result.Snippet = snippet
	}
	if url, ok := stringField(obj,
		"url", "html_url", "link", "pdf_url", "web_url", "permalink"); ok {
		result.URL = url
	}
	result.Metadata = extractMetadata(source, obj)
	return result, true
}

func stringField(obj map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s, true
		}
	}
	return "", false
}

func numericOrStringField(obj map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s, true
		}
		var n int64
		if json.Unmarshal(raw, &n) == nil {
			return fmt.Sprintf("%d", n), true
		}
	}
	return "", false
}

// extractID applies the closed per-source identifier format table, falling
// back to a generic probe for unknown sources.
func extractID(source string, obj map[string]json.RawMessage) (string, bool) {
	switch source {
	case "pubmed":
		if s, ok := stringField(obj, "pmid"); ok {
			return "PMID:" + s, true
		}
	case "arxiv":
		if s, ok := stringField(obj, "id"); ok {
			return "arXiv:" + s, true
		}
	case "biorxiv":
		if s, ok := stringField(obj, "doi"); ok {
			return s, true
		}
	case "hackernews":
		if s, ok := numericOrStringField(obj, "id"); ok {
			return "hn:" + s, true
		}
	case "github":
		if s, ok := numericOrStringField(obj, "number"); ok {
			return "#" + s, true
		}
		if s, ok := stringField(obj, "path"); ok {
			return s, true
		}
	case "reddit":
		if s, ok := stringField(obj, "id"); ok {
			return "reddit:" + s, true
		}
	case "wikipedia":
		if s, ok := stringField(obj, "title"); ok {
			return "wiki:" + strings.ReplaceAll(s, " ", "_"), true
		}
	case "google-scholar":
		if s, ok := stringField(obj, "link"); ok {
			return s, true
		}
	case "semantic-scholar", "semantic_scholar":
		if s, ok := stringField(obj, "paperId", "paper_id", "id"); ok {
			return "S2:" + s, true
		}
	default:
		return numericOrStringField(obj, "id", "pmid", "doi", "link", "url")
	}
	return "", false
}

// extractSnippet picks the first populated preview field, truncated to 300
// characters with an ellipsis.
func extractSnippet(obj map[string]json.RawMessage) (string, bool) {
	s, ok := stringField(obj,
		"snippet", "abstract", "abstract_text", "summary", "description", "text", "body", "selftext")
	if !ok {
		return "", false
	}
	if len(s) > 300 {
		return s[:300] + "...", true
	}
	return s, true
}

// extractMetadata returns a small per-source projection so consumers don't
// need the raw payload. Unknown sources get an empty object.
func extractMetadata(source string, obj map[string]json.RawMessage) json.RawMessage {
	pick := func(keys ...string) map[string]json.RawMessage {
		m := make(map[string]json.RawMessage, len(keys))
		for _, k := range keys {
			if v, ok := obj[k]; ok {
				m[k] = v
			}
		}
		return m
	}

	var projection map[string]json.RawMessage
	switch source {
	case "pubmed":
		projection = pick("authors", "journal", "citation")
	case "arxiv":
		projection = pick("authors", "categories", "published")
	case "biorxiv":
		projection = pick("authors", "category", "date")
	case "hackernews":
		projection = pick("score", "by", "descendants")
	case "github":
		projection = pick("repository", "state", "labels")
	case "reddit":
		projection = pick("subreddit", "score", "author")
	case "wikipedia":
		projection = pick("pageid")
	case "google-scholar":
		projection = pick("authors_venue_year", "year")
	case "semantic-scholar", "semantic_scholar":
		projection = pick("authors", "year", "citationCount", "venue")
	default:
		projection = map[string]json.RawMessage{}
	}

	b, err := json.Marshal(projection)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}
