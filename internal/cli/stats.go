package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumescore/internal/common"
	"resumescore/internal/fleet"
	"resumescore/internal/scoring"
	"resumescore/internal/utils"
)

var statsCmd = &cobra.Command{
	Use:   "stats [files or directories...]",
	Short: "Score many resumes and summarize the results",
	Long: `Score every resume found in the given files and directories in parallel
and print fleet statistics: total count, rounded average score, the number
of resumes scoring above 80 and the count per display band.

Directories are walked recursively for .json, .yaml and .yml files. Files
that cannot be read or parsed are listed as failures and left out of the
statistics.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &statsConfig)
	},
	RunE: runStats,
}

var (
	statsConfig  common.CommandConfig
	statsWorkers int
)

func init() {
	statsCmd.Flags().StringVarP(&statsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	statsCmd.Flags().StringVar(&statsConfig.OutputFormat, "format", "", "Output format: json, text, markdown or yaml")
	statsCmd.Flags().IntVarP(&statsWorkers, "workers", "w", 0, "Parallel scorers (default from config, 0 = one per CPU)")
	_ = statsCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

// fileSource loads one resume file on demand for the aggregator
type fileSource struct {
	path      string
	processor *common.FileProcessor
}

func (s fileSource) ID() string { return s.path }

func (s fileSource) Load(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.processor.LoadDocument(s.path)
	if err != nil {
		return nil, err
	}
	return doc.Raw, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	files, err := utils.ExpandResumePaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no resume files found in %v", args)
	}

	workers := cfg.Scoring.Workers
	if cmd.Flags().Changed("workers") {
		workers = statsWorkers
	}

	processor := common.NewFileProcessor(logger, statsConfig.MaxFileSize)
	sources := make([]fleet.Source, len(files))
	for i, file := range files {
		sources[i] = fileSource{path: file, processor: processor}
	}

	logger.Info("Scoring resumes", "files", len(files), "workers", workers)

	report, err := fleet.NewAggregator(scoring.NewEngine(), workers, nil).Run(cmd.Context(), sources)
	if err != nil {
		return fmt.Errorf("fleet scoring interrupted: %w", err)
	}

	for _, failed := range report.Failed {
		logger.Warn("Resume skipped", "file", failed.ID, "error", failed.Error)
	}

	return common.NewOutputHandler(logger, cmd.OutOrStdout()).HandleOutput(report, statsConfig)
}
