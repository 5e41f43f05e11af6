package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arivu/arivu/internal/connector"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCallResult renders a tool call's structured content as pretty JSON,
// or surfaces the error flag/content blocks when the connector signaled a
// failure without returning a Go error.
func printCallResult(result connector.CallResult) error {
	if result.IsError {
		for _, block := range result.Content {
			if block.Text != "" {
				return fmt.Errorf("%s", block.Text)
			}
		}
		return fmt.Errorf("tool call returned an error result")
	}
	if len(result.StructuredContent) == 0 {
		fmt.Println("{}")
		return nil
	}
	var v any
	if err := json.Unmarshal(result.StructuredContent, &v); err != nil {
		fmt.Println(string(result.StructuredContent))
		return nil
	}
	return printJSON(v)
}

// parseArgFlags converts repeated "key=value" strings (from --arg) into a
// JSON arguments map, coercing numeric and boolean-looking values.
func parseArgFlags(pairs []string) (map[string]json.RawMessage, error) {
	args := make(map[string]json.RawMessage, len(pairs))
	for _, pair := range pairs {
		key, value, ok := splitKV(pair)
		if !ok {
			return nil, fmt.Errorf("invalid --arg %q, expected key=value", pair)
		}
		args[key] = encodeArgValue(value)
	}
	return args, nil
}

func splitKV(s string) (key, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func encodeArgValue(value string) json.RawMessage {
	switch value {
	case "true":
		return json.RawMessage("true")
	case "false":
		return json.RawMessage("false")
	}
	var n json.Number
	if err := json.Unmarshal([]byte(value), &n); err == nil {
		return json.RawMessage(value)
	}
	b, _ := json.Marshal(value)
	return b
}
