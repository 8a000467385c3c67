package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/conversa/pkg/anonymize"
	"github.com/ccollicutt/conversa/pkg/parser"
)

// ExcerptOptions holds command-line options for the excerpt command.
type ExcerptOptions struct {
	ConfigPath string
	Timezone   string
	Output     string
	Label      string
	From       int
	Limit      int
	MaxChars   int
}

// NewExcerptCommand creates the excerpt command.
func NewExcerptCommand() *cobra.Command {
	opts := &ExcerptOptions{}

	cmd := &cobra.Command{
		Use:   "excerpt <export>",
		Short: "Print an anonymized slice of a chat export",
		Long: `Print a bounded, anonymized range of messages from a chat export.

Participants are renamed in order of first appearance ("Pessoa 1",
"Pessoa 2", ...) both as senders and wherever their names appear in
message text. System notices are skipped.

Use --from to skip messages, --limit to cap the count and --max-chars to
cap the total text length, e.g. to fit a prompt budget.

Example:
  conversa excerpt chat.txt --limit 50
  conversa excerpt chat.txt --from 100 --max-chars 4000 --label Participant`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExcerpt(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (YAML or TOML)")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA timezone the export was written in")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "Alias prefix (default from config, then \"Pessoa\")")
	cmd.Flags().IntVar(&opts.From, "from", 0, "Skip this many non-system messages")
	cmd.Flags().IntVar(&opts.Limit, "limit", 100, "Maximum messages to print (0 for no limit)")
	cmd.Flags().IntVar(&opts.MaxChars, "max-chars", 0, "Maximum total characters of message text (0 for no limit)")

	return cmd
}

func runExcerpt(cmd *cobra.Command, args []string, opts *ExcerptOptions) error {
	export := args[0]
	ctx := commandContext(cmd)

	if opts.From < 0 || opts.Limit < 0 || opts.MaxChars < 0 {
		return fmt.Errorf("--from, --limit and --max-chars must not be negative")
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath, opts.Timezone)
	if err != nil {
		return err
	}
	label := opts.Label
	if label == "" {
		label = cfg.Anonymize.Label
	}

	msgs, _, err := parser.ParseFile(ctx, export, parser.WithLocation(cfg.Location()))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", export, err)
	}

	anon := anonymize.New(label)
	excerpt := anonymize.Slice(anon.Messages(msgs), opts.From, opts.Limit, opts.MaxChars)

	out := cmd.OutOrStdout()
	switch opts.Output {
	case "text":
		_, err = io.WriteString(out, anonymize.Render(excerpt))
		return err
	case "json":
		return outputExcerptJSON(out, excerpt, len(anon.Names()))
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// ExcerptJSON is the JSON document printed by excerpt -o json.
type ExcerptJSON struct {
	Participants int              `json:"participants"`
	Messages     []parser.Message `json:"messages"`
}

func outputExcerptJSON(w io.Writer, msgs []parser.Message, participants int) error {
	if msgs == nil {
		msgs = []parser.Message{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(ExcerptJSON{Participants: participants, Messages: msgs})
}
