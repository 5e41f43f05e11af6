package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/arivu/arivu/internal/auth"
	"github.com/arivu/arivu/internal/common"
	"github.com/arivu/arivu/internal/connectors"
	"github.com/arivu/arivu/internal/facade"
	"github.com/arivu/arivu/internal/mcpserver"
	"github.com/arivu/arivu/internal/pricing"
)

func main() {
	configPath := os.Getenv("ARIVU_CONFIG")
	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal console-only logging at warn level: anything chattier pollutes
	// MCP stdio.
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	authStore, err := auth.Open(config.Auth.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open auth store")
	}

	reg := connectors.Build(config, authStore, logger)
	f := facade.New(reg, authStore)

	catalog, err := loadPricingCatalog(config)
	if err != nil {
		logger.Warn().Err(err).Msg("pricing catalog unavailable, usage will not be metered")
	} else if usageStore, err := pricing.OpenStore(config.Pricing.UsageLogPath); err != nil {
		logger.Warn().Err(err).Msg("usage log unavailable, usage will not be metered")
	} else {
		f = f.WithPricing(pricing.NewManager(usageStore, catalog))

		if config.Pricing.RollupCron != "" {
			scheduler := pricing.NewRollupScheduler(pricing.NewManager(usageStore, catalog), logger)
			if err := scheduler.Start(config.Pricing.RollupCron); err != nil {
				logger.Warn().Err(err).Msg("failed to start usage rollup scheduler")
			} else {
				defer scheduler.Stop()
			}
		}
	}

	mcpServer, err := mcpserver.New(context.Background(), f, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build MCP server")
	}

	if err := mcpserver.Serve(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}

func loadPricingCatalog(config *common.Config) (*pricing.Catalog, error) {
	if config.Pricing.CatalogPath != "" {
		return pricing.LoadCatalogFromPath(config.Pricing.CatalogPath)
	}
	return pricing.LoadDefaultCatalog()
}
