package main

import (
	"context"
	"strings"
)

// runTools prints every namespaced tool, optionally filtered to one
// connector's prefix: arivu tools [connector]
func runTools(a *app, args []string) error {
	all, err := a.facade.List(context.Background())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return printJSON(all)
	}

	prefix := args[0] + "."
	var filtered []any
	for _, t := range all {
		if strings.HasPrefix(t.Name, prefix) {
			filtered = append(filtered, t)
		}
	}
	return printJSON(filtered)
}
