package main

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/auth"
	"github.com/arivu/arivu/internal/common"
	"github.com/arivu/arivu/internal/connectors"
	"github.com/arivu/arivu/internal/facade"
	"github.com/arivu/arivu/internal/federated"
	"github.com/arivu/arivu/internal/pricing"
	"github.com/arivu/arivu/internal/registry"
	"github.com/arivu/arivu/internal/resolver"
)

// configPaths is a custom flag type allowing multiple -config flags,
// following cmd/quaero/main.go's repeatable-flag pattern.
type configPaths []string

func (c *configPaths) String() string { return fmt.Sprintf("%v", *c) }
func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// app bundles every subcommand's dependencies, built once in main after
// config/logging/registry setup.
type app struct {
	config    *common.Config
	logger    arbor.ILogger
	authStore *auth.Store
	registry  *registry.Registry
	facade    *facade.Facade
	resolver  *resolver.Resolver
	engine    *federated.Engine
	pricing   *pricing.Manager
}

var subcommands = map[string]func(a *app, args []string) error{
	"fetch":   runFetch,
	"call":    runCall,
	"search":  runSearch,
	"list":    runList,
	"tools":   runTools,
	"formats": runFormats,
	"setup":   runSetup,
	"config":  runConfig,
	"usage":   runUsage,
}

func main() {
	if len(os.Args) < 2 {
		printStartupBanner()
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "-version" || name == "--version" || name == "version" {
		fmt.Println(common.GetVersion())
		return
	}

	handler, ok := subcommands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", name)
		printUsage()
		os.Exit(1)
	}

	a, err := buildApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if name == "setup" || name == "config" {
		common.PrintBanner(a.config, a.logger)
		defer common.PrintShutdownBanner(a.logger)
	}

	if err := handler(a, os.Args[2:]); err != nil {
		a.logger.Error().Err(err).Str("command", name).Msg("command failed")
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

// printStartupBanner shows the banner for the bare, no-subcommand invocation
// using a default config, since no -config flags are available to parse yet.
func printStartupBanner() {
	config, err := common.LoadFromFiles()
	if err != nil {
		return
	}
	common.PrintBanner(config, common.SetupLogger(config))
}

func buildApp() (*app, error) {
	var configFiles configPaths
	flagSet := globalFlagSet(&configFiles)
	_ = flagSet.Parse(commonFlagArgs(os.Args[2:]))

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := common.SetupLogger(config)

	authStore, err := auth.Open(config.Auth.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening auth store: %w", err)
	}

	reg := connectors.Build(config, authStore, logger)
	res := resolver.Default()
	engine := federated.NewEngine(reg)

	catalogPath := config.Pricing.CatalogPath
	var catalog *pricing.Catalog
	if catalogPath != "" {
		catalog, err = pricing.LoadCatalogFromPath(catalogPath)
	} else {
		catalog, err = pricing.LoadDefaultCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("loading pricing catalog: %w", err)
	}
	usageStore, err := pricing.OpenStore(config.Pricing.UsageLogPath)
	if err != nil {
		return nil, fmt.Errorf("opening usage log: %w", err)
	}
	manager := pricing.NewManager(usageStore, catalog)

	f := facade.New(reg, authStore).WithPricing(manager)

	return &app{
		config:    config,
		logger:    logger,
		authStore: authStore,
		registry:  reg,
		facade:    f,
		resolver:  res,
		engine:    engine,
		pricing:   manager,
	}, nil
}

// commonFlagArgs extracts only the -config/-c flag occurrences (and their
// values) from a subcommand's argument list, so the shared config flag
// parses correctly regardless of what other flags a subcommand defines.
func commonFlagArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-config" || a == "--config" || a == "-c" || a == "--c":
			if i+1 < len(args) {
				out = append(out, a, args[i+1])
				i++
			}
		case len(a) > 8 && a[:8] == "-config=":
			out = append(out, a)
		}
	}
	return out
}

func printUsage() {
	fmt.Println("usage: arivu <command> [arguments]")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  fetch   <url-or-identifier>      resolve free-text input to a connector tool call")
	fmt.Println("  call    <connector> <tool>        invoke a tool directly, --arg key=value for each argument")
	fmt.Println("  search  <query>                   federated search across a profile or explicit connector list")
	fmt.Println("  list                              list registered connectors")
	fmt.Println("  tools   [connector]                list namespaced tools, optionally filtered")
	fmt.Println("  formats                           list resolver patterns")
	fmt.Println("  setup   <connector>                configure credentials for a connector")
	fmt.Println("  config  set <connector> key=value  set a connector config/credential field")
	fmt.Println("  usage   [-run id]                  print accumulated cost/usage totals")
	fmt.Println("  version                            print the version")
}
