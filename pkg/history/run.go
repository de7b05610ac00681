package history

import (
	"time"

	"github.com/ethpandaops/regressoor/pkg/analysis"
	"github.com/ethpandaops/regressoor/pkg/ttest"
)

// Run is one recorded analysis run.
type Run struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Archives   string  `gorm:"not null" json:"archives"`
	Baseline   string  `gorm:"index;not null" json:"baseline"`
	PValue     float64 `gorm:"not null" json:"pvalue"`
	OutputPath string  `json:"output_path"`
	OutputType string  `json:"output_type"`

	Variants       int `json:"variants"`
	Regressions    int `json:"regressions"`
	Improvements   int `json:"improvements"`
	Indeterminates int `json:"indeterminates"`
}

// NewRunFromResult builds a Run record from a comparison result, tallying
// decisions across all variants and benchmarks.
func NewRunFromResult(result *analysis.ComparisonResult, archives, outputPath, outputType string) *Run {
	run := &Run{
		Archives:   archives,
		Baseline:   result.Baseline.Name,
		PValue:     result.PValue,
		OutputPath: outputPath,
		OutputType: outputType,
		Variants:   len(result.Variants),
	}

	for _, variant := range result.Variants {
		for _, benchmark := range variant.Benchmarks {
			for _, m := range benchmark.Metrics {
				switch m.Decision {
				case ttest.Regression:
					run.Regressions++
				case ttest.Improvement:
					run.Improvements++
				case ttest.Indeterminate:
					run.Indeterminates++
				}
			}
		}
	}

	return run
}
