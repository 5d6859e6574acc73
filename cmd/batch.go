package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tremorlab/tremor-analyzer/configs"
	"github.com/tremorlab/tremor-analyzer/internal/analysis"
	"github.com/tremorlab/tremor-analyzer/internal/report"
	"github.com/tremorlab/tremor-analyzer/pkg/logging"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
)

var (
	// Batch command flags
	batchConcurrency int
	batchOutputFile  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [flags] directory",
	Short: "Analyze every recording in a directory",
	Long: `Run the tremor analysis pipeline on every CSV file in a directory.

Recordings are processed concurrently and individual failures do not
abort the batch; the summary lists per-file errors alongside the
aggregated classification counts.

Examples:
  # Analyze a study directory with default settings
  tremor-analyzer batch ./recordings

  # Higher concurrency with a JSON summary written to file
  tremor-analyzer batch --concurrency 8 -o json --output-file summary.json ./recordings`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0,
		"max recordings analyzed in parallel (0 uses the configured default)")
	batchCmd.Flags().StringVar(&batchOutputFile, "output-file", "",
		"write the summary to file instead of stdout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return err
	}

	cfg, err := appConfig.PipelineConfig()
	if err != nil {
		return err
	}

	analyzer, err := tremor.NewAnalyzer(cfg)
	if err != nil {
		return err
	}

	concurrency := appConfig.Batch.MaxConcurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	orchestrator := analysis.NewOrchestrator(analyzer, concurrency, logging.Default())

	summary, err := orchestrator.RunDirectory(cmd.Context(), args[0])
	if err != nil && summary == nil {
		return err
	}

	for i, m := range summary.Results {
		summary.Results[i] = report.Sanitize(m)
	}

	data, ferr := formatSummary(summary)
	if ferr != nil {
		return fmt.Errorf("failed to format batch summary: %w", ferr)
	}
	if werr := writeOutput(data, batchOutputFile); werr != nil {
		return werr
	}

	// err carries the all-failed case; surface it after the summary
	return err
}

func formatSummary(summary *analysis.Summary) ([]byte, error) {
	switch outputFormat {
	case "yaml":
		return yaml.Marshal(summary)
	case "json":
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		// Table and CSV render the per-recording metrics; the error map is
		// appended as plain text.
		formatter := report.NewFormatter(outputFormat)
		data, err := formatter.Format(summary.Results)
		if err != nil {
			return nil, err
		}
		if len(summary.Errors) > 0 {
			errs := make(map[string]error, len(summary.Errors))
			for f, msg := range summary.Errors {
				errs[f] = fmt.Errorf("%s", msg)
			}
			data = append(data, []byte(fmt.Sprintf("\nFailed recordings: %s\n", report.JoinErrors(errs)))...)
		}
		return data, nil
	}
}
