package main

import "flag"

// globalFlagSet registers the flags shared by every subcommand: repeatable
// -config/-c, following cmd/quaero's main.go pattern.
func globalFlagSet(configFiles *configPaths) *flag.FlagSet {
	fs := flag.NewFlagSet("arivu", flag.ContinueOnError)
	fs.Var(configFiles, "config", "path to a TOML config file (repeatable)")
	fs.Var(configFiles, "c", "shorthand for -config")
	return fs
}
