package main

import (
	"fmt"
	"strings"

	"github.com/ethpandaops/regressoor/pkg/analysis"
	"github.com/ethpandaops/regressoor/pkg/history"
	"github.com/ethpandaops/regressoor/pkg/metric"
	"github.com/ethpandaops/regressoor/pkg/sysinfo"
	"github.com/ethpandaops/regressoor/pkg/ttest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	analyzeBaseline   string
	analyzePValue     float64
	analyzeOutputFile string
	analyzeOutputType string
	analyzeVerbose    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] ARCHIVE...",
	Short: "Compare variants against a baseline",
	Long: `Ingest one or more result archives, pick a baseline variant, and compare
every other variant against it. Each metric of each benchmark is classified
as regression, improvement, or indeterminate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeBaseline, "baseline", "b", "",
		"baseline variant name (default: first variant in the corpus)")
	analyzeCmd.Flags().Float64VarP(&analyzePValue, "pvalue", "p", 0.05,
		"significance level ("+allowedPValuesHelp()+")")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "output-file", "o", "",
		"report output path (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputType, "output-type", "t", "json",
		"report format (json, csv)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false,
		"enable debug logging")

	_ = analyzeCmd.MarkFlagRequired("output-file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeVerbose {
		log.SetLevel(logrus.DebugLevel)
	}

	// Reject bad parameters before any extraction work.
	if err := ttest.ValidatePValue(analyzePValue); err != nil {
		return err
	}

	if err := validateOutputType(analyzeOutputType); err != nil {
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

	baseline := analyzeBaseline
	if baseline == "" {
		names := c.VariantNames()
		if len(names) == 0 {
			return fmt.Errorf("corpus contains no variants")
		}

		baseline = names[0]

		log.WithField("baseline", baseline).Info("No baseline given, using first variant")
	}

	result, err := analysis.Compare(log, c, metric.DefaultRegistry(), baseline, analyzePValue)
	if err != nil {
		return err
	}

	result.Host = sysinfo.Collect(log)

	if err := writeReport(ctx, cfg, result, analyzeOutputFile, analyzeOutputType); err != nil {
		return err
	}

	if cfg.History != nil && cfg.History.Enabled {
		run := history.NewRunFromResult(
			result, strings.Join(args, ","), analyzeOutputFile, analyzeOutputType,
		)
		if err := recordRun(ctx, cfg, run); err != nil {
			log.WithError(err).Warn("Failed to record run in history")
		}
	}

	return nil
}

func allowedPValuesHelp() string {
	parts := make([]string, 0, len(ttest.AllowedPValues))
	for _, p := range ttest.AllowedPValues {
		parts = append(parts, fmt.Sprintf("%g", p))
	}

	return strings.Join(parts, ", ")
}
