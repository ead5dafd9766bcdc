package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumescore/internal/common"
	"resumescore/internal/scoring"
	"resumescore/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file]",
	Short: "Score a resume against the ATS rubric",
	Long: `Score a structured resume (JSON or YAML) and print the aggregate score,
its display band, the per-category breakdown and the feedback list.

Categories and weights:
- contact (20), summary (15), experience (30)
- education (10), skills (15), formatting (10)

Use --fail-under to make the command exit non-zero when the score is
below a threshold, e.g. in a CI check over a resume repository.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &scoreConfig)
	},
	RunE: runScore,
}

var (
	scoreConfig    common.CommandConfig
	scoreFailUnder int
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, markdown or yaml")
	scoreCmd.Flags().IntVar(&scoreFailUnder, "fail-under", 0, "Exit with an error when the score is below this value")
	_ = scoreCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runScore(cmd *cobra.Command, args []string) error {
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	engine := scoring.NewEngine()
	var report types.ScoreReport

	operation := func(_ context.Context, docs []common.LoadedDocument) (types.ScoreReport, error) {
		report = engine.ScoreRaw(docs[0].Raw)
		logger.Debug("Resume scored",
			"file", docs[0].Path,
			"score", report.Score,
			"band", string(report.Band),
			"feedback_items", len(report.Feedback))
		return report, nil
	}

	logDetails := func(docs []common.LoadedDocument, cfg common.CommandConfig) {
		logger.Info("Scoring resume",
			"file", docs[0].Path,
			"bytes", len(docs[0].Content),
			"format", cfg.OutputFormat)
	}

	if err := common.RunDocumentCommand(cmd.Context(), logger, scoreConfig, cmd.OutOrStdout(), args, operation, logDetails); err != nil {
		return err
	}

	if scoreFailUnder > 0 && report.Score < scoreFailUnder {
		return fmt.Errorf("score %d is below the required %d", report.Score, scoreFailUnder)
	}
	return nil
}
