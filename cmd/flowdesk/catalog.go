package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/registry"
	"github.com/urfave/cli/v3"
)

func NewCatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "List the available trigger and action types",
		Action: func(_ context.Context, command *cli.Command) error {
			reg := cmd.NewRegistry(slog.Default())
			w := command.Root().Writer

			if err := printDescriptors(command, "Triggers", reg.Triggers()); err != nil {
				return err
			}

			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}

			return printDescriptors(command, "Actions", reg.Actions())
		},
	}
}

func printDescriptors(command *cli.Command, heading string, descriptors []*registry.Descriptor) error {
	w := command.Root().Writer

	if _, err := fmt.Fprintf(w, "%s:\n", heading); err != nil {
		return err
	}

	for _, d := range descriptors {
		if _, err := fmt.Fprintf(w, "  %-20s %-20s %s\n", d.Type, d.Title, d.Icon); err != nil {
			return err
		}
	}

	return nil
}
