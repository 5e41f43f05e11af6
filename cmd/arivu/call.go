package main

import (
	"context"
	"flag"
	"fmt"
)

// runCall invokes a connector tool directly: arivu call <connector> <tool>
// [--arg key=value]...
func runCall(a *app, args []string) error {
	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	var argPairs stringList
	fs.Var(&argPairs, "arg", "tool argument as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	positional := fs.Args()
	if len(positional) < 2 {
		return fmt.Errorf("usage: arivu call <connector> <tool> [--arg key=value]...")
	}
	connectorName, toolName := positional[0], positional[1]

	toolArgs, err := parseArgFlags(argPairs)
	if err != nil {
		return err
	}

	result, err := a.facade.Call(context.Background(), connectorName+"."+toolName, toolArgs)
	if err != nil {
		return err
	}
	return printCallResult(result)
}

// stringList is a repeatable flag.Value collecting raw string values.
type stringList []string

func (s *stringList) String() string { return fmt.Sprintf("%v", *s) }
func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
