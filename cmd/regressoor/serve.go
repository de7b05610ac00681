package main

import (
	"fmt"

	"github.com/ethpandaops/regressoor/pkg/api"
	"github.com/ethpandaops/regressoor/pkg/config"
	"github.com/ethpandaops/regressoor/pkg/history"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis history API",
	Long: `Start the read-only HTTP API over the recorded analysis history. Requires
a config file with history enabled.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("config file is required (use --config)")
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	if cfg.History == nil || !cfg.History.Enabled {
		return fmt.Errorf("serve requires history to be enabled in the config")
	}

	apiCfg := cfg.API
	if apiCfg == nil {
		apiCfg = &config.APIConfig{Listen: config.DefaultAPIListen}
	}

	ctx, cancel := signalContext()
	defer cancel()

	store := history.NewStore(log, &cfg.History.Database)
	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("starting history store: %w", err)
	}

	defer func() {
		if err := store.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop history store")
		}
	}()

	server := api.NewServer(log, apiCfg, store)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	<-ctx.Done()

	return server.Stop()
}
