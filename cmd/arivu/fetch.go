package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/arivu/arivu/internal/resolver"
)

// runFetch resolves free-text input (a URL, an identifier, or a phrase) to
// a connector tool call via the resolver's pattern table and invokes it.
func runFetch(a *app, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	showAll := fs.Bool("all", false, "show every match within 20 priority points of the best one instead of just the best one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := strings.Join(fs.Args(), " ")
	if input == "" {
		return fmt.Errorf("usage: arivu fetch <url-or-identifier>")
	}

	if *showAll {
		matches := resolver.FilterAmbiguous(a.resolver.ResolveAll(input))
		if len(matches) == 0 {
			return fmt.Errorf("no pattern resolves %q", input)
		}
		return printJSON(matches)
	}

	action, ok := a.resolver.Resolve(input)
	if !ok {
		return fmt.Errorf("no pattern resolves %q", input)
	}

	namespaced := action.Connector + "." + action.Tool
	result, err := a.facade.Call(context.Background(), namespaced, action.Arguments)
	if err != nil {
		return err
	}
	return printCallResult(result)
}
