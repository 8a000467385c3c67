package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/conversa/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <export>",
		Short: "Detect the line format of a chat export",
		Long: `Sample a chat export to find which message-head format it uses.

Reports the matching format with a confidence score, how many senders were
seen, and whether dates look like DD/MM or MM/DD. Day and month cannot be
told apart when both are <= 12, so the date-order verdict is only as good
as the sample.

Optionally generates a starter config file with --write-config.

Supported heads:
  [15/01/2024, 10:30:00] Ana: oi
  15/01/2024 10:30 da manhã - Ana: oi
  15/01/2024, 10:30 - Ana: oi
  1/15/24, 10:30 PM - Ana: hi

Example:
  conversa detect chat.txt
  conversa detect --sample 1000 chat.txt
  conversa detect -w conversa.yaml chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 200, "Number of non-blank lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	export := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	if _, err := os.Stat(export); os.IsNotExist(err) {
		return fmt.Errorf("export not found: %s", export)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, export)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, export, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, export, opts)
	case "text":
		return outputDetectText(out, result, export, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, export string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Export Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", export)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with a message head: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No known message format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: make sure the file is a plain-text chat export, not a zip archive.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintf(w, "Senders seen: %d\n", result.Senders)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	if !best.ParsedTime.IsZero() {
		fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Date order: %s (DD/MM evidence %d, MM/DD evidence %d)\n",
		result.DateOrder, result.DayMonthEvidence, result.MonthDayEvidence)
	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "WARNING: %s\n", result.AmbiguityNote)
	}
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   template: %s\n", m.Format.Template)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Template   string  `json:"template"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File             string      `json:"file"`
	Matches          []JSONMatch `json:"matches"`
	SampledLines     int         `json:"sampled_lines"`
	ParsedLines      int         `json:"parsed_lines"`
	Senders          int         `json:"senders"`
	DateOrder        string      `json:"date_order"`
	DayMonthEvidence int         `json:"day_month_evidence"`
	MonthDayEvidence int         `json:"month_day_evidence"`
	AmbiguityNote    string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, export string, opts *DetectOptions) error {
	doc := JSONOutput{
		File:             export,
		SampledLines:     result.SampledLines,
		ParsedLines:      result.ParsedLines,
		Senders:          result.Senders,
		DateOrder:        string(result.DateOrder),
		DayMonthEvidence: result.DayMonthEvidence,
		MonthDayEvidence: result.MonthDayEvidence,
		AmbiguityNote:    result.AmbiguityNote,
		Matches:          make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		doc.Matches = append(doc.Matches, JSONMatch{
			Name:       m.Format.Name,
			Kind:       string(m.Format.Kind),
			Template:   m.Format.Template,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(doc)
}

// writeStarterConfig generates a starter config file for the detected export.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, export, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no message format detected")
	}

	content := generateStarterConfig(export, result)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(export string, result *detector.DetectionResult) string {
	absExport := export
	if abs, err := filepath.Abs(export); err == nil {
		absExport = abs
	}
	best := result.BestMatch()

	note := "# Date order: " + string(result.DateOrder)
	if result.AmbiguityNote != "" {
		note += "\n# " + result.AmbiguityNote
	}

	return fmt.Sprintf(`# Conversa Configuration
# Generated by: conversa detect %s
# Detected format: %s (%.0f%% confidence)
%s

# IANA timezone the export was written in. Empty uses the local zone.
timezone: ""

# Default report format: text, json or pretty.
output: text

# Exports analyzed in parallel.
workers: 4

# Extra words to leave out of the favorite word and expressions.
stop_words: []
  # - bom
  # - dia

# History database used by analyze --save and the history command.
# Defaults to $HOME/.conversa/history.db.
# store:
#   path: /var/lib/conversa/history.db

anonymize:
  label: Pessoa

webhooks: []
  # - name: team-dashboard
  #   url: https://example.com/hooks/conversa
  #   token: ${CONVERSA_WEBHOOK_TOKEN}
  #   trigger: non_empty
  #   timeout: 10s
`, absExport, best.Format.Name, best.Confidence*100, note)
}
