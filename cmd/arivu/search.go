package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/arivu/arivu/internal/federated"
)

// runSearch runs a federated search, either over a named profile or an
// explicit comma-separated connector list.
func runSearch(a *app, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	profileName := fs.String("profile", "", "built-in search profile name (default: configured default profile)")
	connectorList := fs.String("connectors", "", "comma-separated connector names, overrides -profile")
	mergeFlag := fs.String("merge", "", "merge mode override: grouped or interleaved")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := strings.Join(fs.Args(), " ")
	if query == "" {
		return fmt.Errorf("usage: arivu search <query> [-profile name | -connectors a,b,c] [-merge grouped|interleaved]")
	}

	var mergeMode *federated.MergeMode
	if *mergeFlag != "" {
		m := federated.MergeMode(*mergeFlag)
		mergeMode = &m
	}

	ctx := context.Background()

	if *connectorList != "" {
		names := strings.Split(*connectorList, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		mode := federated.MergeGrouped
		if mergeMode != nil {
			mode = *mergeMode
		}
		result := a.engine.SearchAdhoc(ctx, query, names, mode)
		return printJSON(result)
	}

	profiles := federated.BuiltinProfiles()
	name := *profileName
	if name == "" {
		name = a.config.Federated.DefaultProfile
	}
	if name == "" {
		name = federated.DefaultProfileName
	}
	profile, ok := profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}

	var parent *federated.SearchProfile
	if profile.Inherits != "" {
		if p, ok := profiles[profile.Inherits]; ok {
			parent = &p
		}
	}

	result := a.engine.SearchWithProfile(ctx, query, profile, parent, mergeMode)
	return printJSON(result)
}
