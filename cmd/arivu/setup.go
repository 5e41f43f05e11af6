package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/arivu/arivu/internal/connector"
	"github.com/arivu/arivu/internal/oauth"
)

// deviceAuthorizer is implemented by connectors (currently google-calendar)
// that authenticate via the OAuth device-code flow instead of a static
// credential the operator types in directly.
type deviceAuthorizer interface {
	Authorize(ctx context.Context) (oauth.DeviceAuthorization, error)
	AwaitAuthorization(ctx context.Context, deviceCode string) error
}

// runSetup configures credentials for a connector: arivu setup <connector>
// For device-auth-capable connectors it walks the OAuth device-code flow;
// for everything else it prompts for each required config field and saves
// them via the facade.
func runSetup(a *app, args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional := fs.Args()
	if len(positional) < 1 {
		return fmt.Errorf("usage: arivu setup <connector>")
	}
	name := positional[0]

	c, ok := a.registry.Get(name)
	if !ok {
		return fmt.Errorf("connector %q is not registered", name)
	}
	ctx := context.Background()

	if authorizer, ok := c.(deviceAuthorizer); ok {
		return runDeviceSetup(ctx, a, name, authorizer)
	}

	schema := c.ConfigSchema()
	if len(schema.Fields) == 0 {
		fmt.Printf("%s requires no configuration.\n", name)
		return nil
	}

	reader := bufio.NewReader(os.Stdin)
	details := connector.AuthDetails{}
	for _, field := range schema.Fields {
		value, err := promptField(reader, field)
		if err != nil {
			return err
		}
		if value != "" {
			details[field.Name] = value
		}
	}

	if err := a.facade.SetAuth(ctx, name, details); err != nil {
		return err
	}
	fmt.Printf("saved credentials for %s\n", name)
	return nil
}

func promptField(reader *bufio.Reader, field connector.ConfigField) (string, error) {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	suffix := ""
	if field.Required {
		suffix = " (required)"
	}
	fmt.Printf("%s%s: ", label, suffix)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runDeviceSetup(ctx context.Context, a *app, name string, authorizer deviceAuthorizer) error {
	authz, err := authorizer.Authorize(ctx)
	if err != nil {
		return fmt.Errorf("starting device authorization: %w", err)
	}

	fmt.Printf("To authorize %s, visit %s and enter code %s\n", name, authz.VerificationURI, authz.UserCode)
	fmt.Println("Waiting for authorization...")

	if err := authorizer.AwaitAuthorization(ctx, authz.DeviceCode); err != nil {
		return fmt.Errorf("completing device authorization: %w", err)
	}

	conn, ok := a.registry.Get(name)
	if !ok {
		return fmt.Errorf("connector %q is not registered", name)
	}
	auth, err := conn.GetAuthDetails(ctx)
	if err != nil {
		return fmt.Errorf("reading authorized credentials: %w", err)
	}
	if a.authStore != nil {
		if err := a.authStore.Save(conn.CredentialProvider(), auth); err != nil {
			return fmt.Errorf("persisting credentials: %w", err)
		}
	}

	fmt.Printf("%s authorized.\n", name)
	return nil
}
