package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long: `Check server health. With --wait, poll until the server reports ok
or the wait runs out. A degraded server has no dictionary loaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := waitHealthy(cmd.Context(), wait)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			if result.Status != "ok" {
				return fmt.Errorf("server is %s", result.Status)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep polling until healthy for up to this long")

	return cmd
}

func waitHealthy(ctx context.Context, wait time.Duration) (HealthResult, error) {
	deadline := time.Now().Add(wait)

	for {
		var result HealthResult
		err := client.Get(ctx, "/health", &result)
		if err == nil && result.Status == "ok" {
			return result, nil
		}
		if time.Now().After(deadline) {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}
