package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"resumescore/internal/common"
	"resumescore/internal/errors"
	"resumescore/internal/scoring"
	"resumescore/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [resume-files...]",
	Short: "Re-score resumes every time they are saved",
	Long: `Score the given resumes once, then keep watching them and print a fresh
report after each save. Bursts of writes from an editor are collapsed into
a single re-score (see scoring.watchDebounce). Stop with Ctrl+C.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &watchConfig)
	},
	RunE: runWatch,
}

var (
	watchConfig   common.CommandConfig
	watchDebounce time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchConfig.OutputFile, "output", "o", "", "Rewrite this file after every re-score (default: stdout)")
	watchCmd.Flags().StringVar(&watchConfig.OutputFormat, "format", "", "Output format: json, text, markdown or yaml")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before re-scoring (default from config)")
	_ = watchCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

// rescorer scores files on demand and remembers the last score per file.
// It is called from the watcher goroutine and the initial pass.
type rescorer struct {
	engine    *scoring.Engine
	processor *common.FileProcessor
	output    *common.OutputHandler
	out       io.Writer
	config    common.CommandConfig
	logger    *errors.Logger

	mu   sync.Mutex
	last map[string]int
}

func newRescorer(logger *errors.Logger, cmdConfig common.CommandConfig, out io.Writer) *rescorer {
	return &rescorer{
		engine:    scoring.NewEngine(),
		processor: common.NewFileProcessor(logger, cmdConfig.MaxFileSize),
		output:    common.NewOutputHandler(logger, out),
		out:       out,
		config:    cmdConfig,
		logger:    logger.With("component", "watch"),
		last:      make(map[string]int),
	}
}

func (r *rescorer) score(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.processor.LoadDocument(path)
	if err != nil {
		return err
	}
	report := r.engine.ScoreRaw(doc.Raw)

	if previous, ok := r.last[path]; ok {
		r.logger.Info("Resume re-scored",
			"file", path,
			"score", report.Score,
			"delta", report.Score-previous)
	}
	r.last[path] = report.Score

	if r.config.OutputFile == "" {
		if _, err := fmt.Fprintf(r.out, "\n--- %s (%s) ---\n", path, time.Now().Format(time.TimeOnly)); err != nil {
			return errors.NewIOError("OUTPUT_WRITE_FAILED", "Cannot write output", err)
		}
	}
	return r.output.HandleOutput(report, r.config)
}

// startThenScore begins watching before the initial pass, so a save that
// lands during the pass is still reported by the watcher
func startThenScore(w *watcher.ResumeWatcher, r *rescorer) error {
	if err := w.Start(); err != nil {
		return err
	}
	for _, path := range w.Files() {
		if err := r.score(path); err != nil {
			r.logger.LogError(err, "Failed to score resume", "file", path)
		}
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	r := newRescorer(logger, watchConfig, cmd.OutOrStdout())

	debounce := cfg.Scoring.WatchDebounce
	if cmd.Flags().Changed("debounce") {
		debounce = watchDebounce
	}

	w, err := watcher.NewResumeWatcher(args, debounce, func(path string) {
		if err := r.score(path); err != nil {
			// keep watching; the next save may fix the document
			logger.LogError(err, "Failed to re-score resume", "file", path)
		}
	}, logger)
	if err != nil {
		return err
	}

	if err := startThenScore(w, r); err != nil {
		return err
	}
	<-cmd.Context().Done()
	return w.Stop()
}
