package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abduttayyeb07/Monitor/internal/destregistry"

	"github.com/urfave/cli/v3"
)

// destinationCommand groups the subcommands that manage where alerts are
// delivered.
//
// Usage examples:
//
//	monitor destination set --chat-id 123456789
//	monitor destination show
//	monitor destination clear
func destinationCommand(dr destregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "destination",
		Description: "Manage the chat alerts are delivered to.",
		Usage:       "monitor destination [set|clear|show]",
		Commands: []*cli.Command{
			setDestinationCommand(dr),
			clearDestinationCommand(dr),
			showDestinationCommand(dr),
		},
	}
}

// setDestinationCommand returns a CLI command that stores the chat id alerts
// are sent to. The destination is scoped to the current working directory.
//
// Usage example:
//
//	monitor destination set --chat-id 123456789
func setDestinationCommand(dr destregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "set",
		Description: "Store the chat id alerts are sent to for this working directory.",
		Usage:       "Sets the alert destination. Must provide a chat id.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "chat-id",
				Usage:    "Telegram chat id that receives alerts",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return dr.SetDestination(ctx, c.String("chat-id"))
		},
	}
}

// clearDestinationCommand returns a CLI command that removes the stored alert
// destination. Alerts are silently skipped until a new destination is set.
//
// Usage example:
//
//	monitor destination clear
func clearDestinationCommand(dr destregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "clear",
		Description: "Remove the stored alert destination.",
		Usage:       "Clears the alert destination. Alerts are skipped until a new one is set.",
		Action: func(ctx context.Context, c *cli.Command) error {
			return dr.ClearDestination(ctx)
		},
	}
}

// showDestinationCommand returns a CLI command that prints the stored alert
// destination, or a short notice when none is configured.
//
// Usage example:
//
//	monitor destination show
func showDestinationCommand(dr destregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "show",
		Description: "Print the currently stored alert destination.",
		Usage:       "Shows the alert destination.",
		Action: func(ctx context.Context, c *cli.Command) error {
			destination, err := dr.CurrentDestination(ctx)
			if err != nil {
				if errors.Is(err, destregistry.ErrNoDestinationConfigured) {
					fmt.Fprintln(c.Root().Writer, "no destination configured")
					return nil
				}

				return err
			}

			fmt.Fprintln(c.Root().Writer, destination)
			return nil
		},
	}
}
