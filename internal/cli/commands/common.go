package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/conversa/pkg/config"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig loads path (or the defaults) and applies a --timezone override.
func loadConfig(ctx context.Context, path, timezone string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if timezone != "" {
		cfg.Timezone = timezone
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid --timezone: %w", err)
		}
	}
	return cfg, nil
}
