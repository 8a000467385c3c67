package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ccollicutt/conversa/internal/logging"
	"github.com/ccollicutt/conversa/pkg/analyzer"
	"github.com/ccollicutt/conversa/pkg/config"
	"github.com/ccollicutt/conversa/pkg/output"
	"github.com/ccollicutt/conversa/pkg/parser"
	"github.com/ccollicutt/conversa/pkg/store"
	"github.com/ccollicutt/conversa/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	ConfigPath string
	Output     string
	Timezone   string
	StopWords  []string
	Workers    int
	Verbose    bool
	Quiet      bool
	Save       bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <export>...",
		Short: "Analyze one or more chat exports",
		Long: `Parse chat export files and report conversation statistics.

Reports:
  - Messages, average length and reply times per participant
  - Busiest hours, weekdays and dates
  - Laughter, questions, positive and negative keywords
  - Emojis, favorite word and recurring expressions

Arguments may be file paths or glob patterns. Each export gets its own report.

Exit codes:
  0 - Every export had countable messages
  1 - At least one export had no countable messages
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (YAML or TOML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|pretty), default pretty on a terminal")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA timezone the export was written in")
	cmd.Flags().StringSliceVar(&opts.StopWords, "stop-word", nil, "Extra stop word (can be repeated)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Exports analyzed in parallel")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show parser counters and debug logs")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save each analysis to the history store")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerNonEmpty), "When to fire webhook (non_empty|always|never)")

	return cmd
}

// analysis is the outcome of one export.
type analysis struct {
	path   string
	report *output.Report
	err    error
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ExitCode = 0
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, opts.ConfigPath, opts.Timezone)
	if err != nil {
		return err
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	cfg.StopWords = append(cfg.StopWords, opts.StopWords...)

	webhooks, err := collectWebhooks(cfg, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	formatter, err := createFormatter(opts, cfg, out)
	if err != nil {
		return err
	}

	files, err := parser.ExpandExports(args)
	if err != nil {
		return fmt.Errorf("expanding exports: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), opts.Verbose)
	defer func() { _ = logger.Sync() }()

	results := analyzeAll(ctx, files, cfg, logger)
	for _, res := range results {
		if res.err != nil {
			return fmt.Errorf("analyzing %s: %w", res.path, res.err)
		}
	}

	if opts.Save {
		if err := saveReports(ctx, cfg.Store.Path, results, logger); err != nil {
			return err
		}
	}

	dispatcher := webhook.NewDispatcher(
		webhook.NewClient(webhook.WithUserAgent("conversa/"+resolvedVersion())),
		webhooks, logger)

	for i, res := range results {
		if i > 0 && formatter.Name() != "json" {
			_, _ = fmt.Fprintln(out)
		}
		if err := formatter.Format(ctx, res.report, out); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
		// Delivery errors are logged but don't fail the analysis.
		dispatcher.Dispatch(ctx, res.report)

		if res.report.Empty() {
			ExitCode = 1
		}
	}

	return nil
}

// analyzeAll parses and analyzes files on a bounded pool. Results keep the
// order of files.
func analyzeAll(ctx context.Context, files []string, cfg *config.Config, logger *zap.Logger) []analysis {
	results := make([]analysis, len(files))
	p := pool.New().WithMaxGoroutines(max(1, cfg.Workers))

	for i, path := range files {
		p.Go(func() {
			results[i] = analyzeFile(ctx, path, cfg, logger)
		})
	}
	p.Wait()

	return results
}

func analyzeFile(ctx context.Context, path string, cfg *config.Config, logger *zap.Logger) analysis {
	started := time.Now()
	loc := cfg.Location()

	msgs, stats, err := parser.ParseFile(ctx, path,
		parser.WithLocation(loc),
		parser.WithLogger(logger.With(zap.String("export", path))))
	if err != nil {
		return analysis{path: path, err: err}
	}

	result := analyzer.New(
		analyzer.WithLocation(loc),
		analyzer.WithStopWords(cfg.StopWords),
	).Analyze(msgs)

	logger.Debug("export analyzed",
		zap.String("export", path),
		zap.Int("lines", stats.LinesRead),
		zap.Int("messages", result.TotalMessages),
		zap.Duration("took", time.Since(started)))

	return analysis{path: path, report: output.NewReport(result, stats, path, started)}
}

func saveReports(ctx context.Context, path string, results []analysis, logger *zap.Logger) error {
	db, err := store.OpenMigrated(path)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer db.Close()

	for _, res := range results {
		rec := store.NewRecord(res.report.Result, res.path)
		if err := db.Save(ctx, rec); err != nil {
			return fmt.Errorf("saving %s: %w", res.path, err)
		}
		res.report.Metadata.ID = rec.ID
		logger.Info("analysis saved", zap.String("id", rec.ID), zap.String("export", res.path))
	}
	return nil
}

// createFormatter picks the -o format, then the config default. Without
// either, terminals get the pretty format and pipes get plain text.
func createFormatter(opts *AnalyzeOptions, cfg *config.Config, w io.Writer) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	name := opts.Output
	if name == "" && cfg.Output != "" && cfg.Output != config.DefaultOutput {
		name = cfg.Output
	}
	if name == "" {
		name = "text"
		if isTerminal(w) {
			name = "pretty"
		}
	}
	return output.New(name, formatOpts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerNonEmpty
		}
		if err := config.ValidateTrigger(trigger); err != nil {
			return nil, fmt.Errorf("invalid --webhook-trigger: %w", err)
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks, nil
}
