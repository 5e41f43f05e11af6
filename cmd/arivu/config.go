package main

import (
	"context"
	"fmt"
)

// runConfig handles `arivu config set <connector> key=value [key=value...]`,
// merging the given fields into the connector's stored credentials.
func runConfig(a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: arivu config set <connector> key=value...")
	}

	switch args[0] {
	case "set":
		return runConfigSet(a, args[1:])
	default:
		return fmt.Errorf("unknown config subcommand %q, expected \"set\"", args[0])
	}
}

func runConfigSet(a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: arivu config set <connector> key=value...")
	}
	name := args[0]

	c, ok := a.registry.Get(name)
	if !ok {
		return fmt.Errorf("connector %q is not registered", name)
	}

	ctx := context.Background()
	current, err := c.GetAuthDetails(ctx)
	if err != nil {
		return fmt.Errorf("reading current credentials: %w", err)
	}
	merged := current.Clone()

	for _, pair := range args[1:] {
		key, value, ok := splitKV(pair)
		if !ok {
			return fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		merged[key] = value
	}

	if err := a.facade.SetAuth(ctx, name, merged); err != nil {
		return err
	}
	fmt.Printf("updated config for %s\n", name)
	return nil
}
