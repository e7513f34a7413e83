package cli

import (
	"context"
	"os"

	"github.com/Abduttayyeb07/Monitor/internal/destregistry"
	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the monitor CLI application.
//
// It registers all available commands, including:
//
//   - `start`: Starts the transfer monitoring pipeline.
//   - `destination`: Manages the destination alerts are delivered to.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - dr: The destregistry service implementation used by destination commands.
//   - tw: The transferwatch service implementation used by the pipeline command.
//
// This function sets up shell completion and invokes the CLI framework to parse and run commands.
func Run(ctx context.Context, dr destregistry.Service, tw transferwatch.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "monitor",
		Description:           "Command-line interface for managing and running the transfer monitor.",
		Usage:                 "monitor [command] [flags]",
		Commands: []*cli.Command{
			startPipelineCommand(tw),
			destinationCommand(dr),
		},
	}

	return app.Run(ctx, os.Args)
}
