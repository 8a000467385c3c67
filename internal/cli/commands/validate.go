package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/conversa/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a Conversa configuration file without analyzing anything.

Checks:
  - YAML or TOML syntax
  - Timezone name
  - Output format and worker count
  - Stop words
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = "local (" + cfg.Location().String() + ")"
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Timezone:   %s\n", tz)
	fmt.Fprintf(out, "  Output:     %s\n", cfg.Output)
	fmt.Fprintf(out, "  Workers:    %d\n", cfg.Workers)
	fmt.Fprintf(out, "  Stop words: %d extra\n", len(cfg.StopWords))
	fmt.Fprintf(out, "  Store:      %s\n", cfg.Store.Path)
	fmt.Fprintf(out, "  Label:      %s\n", cfg.Anonymize.Label)
	fmt.Fprintf(out, "  Webhooks:   %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(out, "    %d. %s [%s, %s]\n", i+1, name, wh.Trigger, wh.Timeout)
	}

	return nil
}
