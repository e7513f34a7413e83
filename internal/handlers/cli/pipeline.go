package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"

	"github.com/urfave/cli/v3"
)

// startPipelineCommand returns a CLI command that starts the transfer
// monitoring pipeline, including stream ingestion, transfer extraction, and
// alert dispatch.
//
// Usage example:
//
//	monitor start
//
// The process runs indefinitely until it receives an interrupt (SIGINT or SIGTERM).
func startPipelineCommand(tw transferwatch.Service) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Starts the transfer monitoring pipeline including stream ingestion and alert dispatch.",
		Usage:       "Initializes and runs the full pipeline. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			if err := tw.Start(ctx); err != nil {
				return err
			}
			defer tw.Close()

			<-quit
			return nil
		},
	}
}
