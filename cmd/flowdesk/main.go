// Package main provides the flowdesk command line tool.
package main

import (
	"context"
	"os"

	"github.com/dukex/flowdesk/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := NewApp().Run(context.Background(), os.Args); err != nil {
		log.WithModule("cli").Error("flowdesk failed", "error", err)
		os.Exit(1)
	}
}

func NewApp() *cli.Command {
	return &cli.Command{
		Name:                  "flowdesk",
		Usage:                 "Inspect event automation flows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"), log.FormatPretty)

			return ctx, nil
		},
		Commands: []*cli.Command{
			NewDescribeCommand(),
			NewCatalogCommand(),
			NewFlowsCommand(),
			NewSummaryCommand(),
			NewEventsCommand(),
		},
	}
}
