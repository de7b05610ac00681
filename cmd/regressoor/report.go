package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ethpandaops/regressoor/pkg/config"
	"github.com/ethpandaops/regressoor/pkg/corpus"
	"github.com/ethpandaops/regressoor/pkg/history"
	"github.com/ethpandaops/regressoor/pkg/ingest"
	"github.com/ethpandaops/regressoor/pkg/upload"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentArchives bounds parallel archive ingestion.
const maxConcurrentArchives = 2

// report is any result that can be rendered in the supported output formats.
type report interface {
	RenderJSON() ([]byte, error)
	RenderCSV() ([]byte, error)
}

// loadAppConfig loads the config file if one was given, otherwise defaults.
func loadAppConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}()

	return ctx, cancel
}

// buildCorpus ingests every archive and aggregates them into one corpus.
// Archives are ingested in parallel but added in argument order so variant
// enumeration stays deterministic.
func buildCorpus(ctx context.Context, archives []string) (*corpus.Corpus, error) {
	sources := make([]*ingest.Source, len(archives))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentArchives)

	var mu sync.Mutex

	for i, archive := range archives {
		i, archive := i, archive

		g.Go(func() error {
			src, err := ingest.Ingest(gCtx, log, archive)
			if err != nil {
				return fmt.Errorf("ingesting %s: %w", archive, err)
			}

			mu.Lock()
			sources[i] = src
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Release whatever was ingested before the failure.
		for _, src := range sources {
			if src != nil {
				_ = src.Close()
			}
		}

		return nil, err
	}

	c := corpus.New(log)
	for _, src := range sources {
		c.Add(src)
	}

	return c, nil
}

// validateOutputType checks the report format flag.
func validateOutputType(outputType string) error {
	switch outputType {
	case "json", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported output type %q (use \"json\" or \"csv\")", outputType)
	}
}

// writeReport renders the report, writes it to outputPath, and uploads it if
// S3 upload is configured. The file is only written after a fully successful
// analysis so a failed run never leaves a partial report behind.
func writeReport(
	ctx context.Context,
	cfg *config.Config,
	r report,
	outputPath, outputType string,
) error {
	var (
		data []byte
		err  error
	)

	switch outputType {
	case "csv":
		data, err = r.RenderCSV()
	default:
		data, err = r.RenderJSON()
	}

	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	log.WithField("path", outputPath).Info("Report written")

	if cfg.Upload != nil && cfg.Upload.S3 != nil && cfg.Upload.S3.Enabled {
		uploader, err := upload.NewS3Uploader(log, cfg.Upload.S3)
		if err != nil {
			return fmt.Errorf("creating S3 uploader: %w", err)
		}

		if err := uploader.UploadReport(ctx, outputPath); err != nil {
			return fmt.Errorf("uploading report: %w", err)
		}
	}

	return nil
}

// recordRun opens the history store, records one run, and closes the store.
func recordRun(ctx context.Context, cfg *config.Config, run *history.Run) error {
	store := history.NewStore(log, &cfg.History.Database)

	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("starting history store: %w", err)
	}

	defer func() {
		if err := store.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop history store")
		}
	}()

	if err := store.RecordRun(ctx, run); err != nil {
		return err
	}

	log.WithField("baseline", run.Baseline).Info("Run recorded in history")

	return nil
}
