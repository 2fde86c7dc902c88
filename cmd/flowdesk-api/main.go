package main

import (
	"context"
	"os"

	"github.com/dukex/flowdesk/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "flowdesk-api",
		Usage:                 "Create and manage event automation flows",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			RunAPICommand(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		logger.Error("flowdesk-api failed", "error", err)
		os.Exit(1)
	}
}
