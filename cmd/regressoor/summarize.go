package main

import (
	"github.com/ethpandaops/regressoor/pkg/analysis"
	"github.com/ethpandaops/regressoor/pkg/metric"
	"github.com/ethpandaops/regressoor/pkg/sysinfo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	summarizeOutputFile string
	summarizeOutputType string
	summarizeVerbose    bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [flags] ARCHIVE...",
	Short: "Summarize a single variant",
	Long: `Ingest one or more result archives containing a single variant and write
its per-benchmark metric summaries. No comparison is performed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVarP(&summarizeOutputFile, "output-file", "o", "",
		"report output path (required)")
	summarizeCmd.Flags().StringVarP(&summarizeOutputType, "output-type", "t", "json",
		"report format (json, csv)")
	summarizeCmd.Flags().BoolVarP(&summarizeVerbose, "verbose", "v", false,
		"enable debug logging")

	_ = summarizeCmd.MarkFlagRequired("output-file")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if summarizeVerbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := validateOutputType(summarizeOutputType); err != nil {
		return err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	c, err := buildCorpus(ctx, args)
	if err != nil {
		return err
	}

	defer func() {
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("Failed to close corpus")
		}
	}()

	result, err := analysis.Summarize(log, c, metric.DefaultRegistry())
	if err != nil {
		return err
	}

	result.Host = sysinfo.Collect(log)

	return writeReport(ctx, cfg, result, summarizeOutputFile, summarizeOutputType)
}
