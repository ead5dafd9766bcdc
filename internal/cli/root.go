package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumescore/internal/common"
	"resumescore/internal/config"
	"resumescore/internal/errors"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var (
	configFile       string
	logLevelOverride string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resumescore",
		Short: "Score resumes for ATS readiness",
		Long: `resumescore evaluates structured resumes (JSON or YAML) against a fixed
ATS rubric and returns a 0-100 score, a display band, a per-category
breakdown and actionable feedback. It can score single files, summarize
whole directories, re-score on save and serve the same engine over HTTP.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadRuntime,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./config.yaml, $HOME/.resumescore/config.yaml, /etc/resumescore/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(scoreCmd, statsCmd, validateCmd, watchCmd, serveCmd, versionCmd)
	return cmd
}

// Execute runs the root command with ctx as the base context for every subcommand
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadRuntime loads configuration and builds the logger, then attaches both to the command context
func loadRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if logLevelOverride != "" {
		cfg.App.LogLevel = logLevelOverride
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("Starting resumescore",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel)

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("configuration not loaded")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not initialized")
}

// prepareOutput fills the command's output format from config and checks it is supported
func prepareOutput(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	cmdConfig.MaxFileSize = cfg.App.MaxFileSize
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

// completeFormats offers the configured output formats for --format
func completeFormats(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return common.DefaultOutputFormats, cobra.ShellCompDirectiveNoFileComp
	}
	return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
}
