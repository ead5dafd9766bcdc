package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumescore/internal/common"
	"resumescore/internal/schemas"
	"resumescore/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [resume-file]",
	Short: "Check a resume's structure against the resume schema",
	Long: `Check that a JSON or YAML resume has the expected shape: field names,
arrays where arrays are expected, strings where strings are expected.

Scoring never rejects a document, so this command is the place to find
fields that are silently ignored because they have the wrong type.
Use --strict to exit non-zero when issues are found.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &validateConfig)
	},
	RunE: runValidate,
}

var (
	validateConfig common.CommandConfig
	validateStrict bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	validateCmd.Flags().StringVar(&validateConfig.OutputFormat, "format", "", "Output format: json, text, markdown or yaml")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit with an error when the document has issues")
	_ = validateCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	var report types.ValidationReport
	operation := func(_ context.Context, docs []common.LoadedDocument) (types.ValidationReport, error) {
		report, err = schemas.ValidateResume(docs[0].Raw)
		return report, err
	}

	if err := common.RunDocumentCommand(cmd.Context(), logger, validateConfig, cmd.OutOrStdout(), args, operation, nil); err != nil {
		return err
	}

	if validateStrict && !report.Valid {
		return fmt.Errorf("%s has %d schema issue(s)", args[0], len(report.Issues))
	}
	return nil
}
