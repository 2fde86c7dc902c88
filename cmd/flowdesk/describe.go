package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukex/flowdesk/pkg/describe"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/urfave/cli/v3"
)

func describeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "type",
			Aliases:  []string{"t"},
			Usage:    "Trigger or action type, legacy camelCase tags included",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "details",
			Aliases: []string{"d"},
			Usage:   "Details payload as a JSON object",
			Value:   "{}",
		},
	}
}

func NewDescribeCommand() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "Render the title, icon and description of a trigger or action",
		Commands: []*cli.Command{
			{
				Name:  "trigger",
				Usage: "Describe a trigger",
				Flags: describeFlags(),
				Action: func(_ context.Context, command *cli.Command) error {
					details, err := parseDetails(command.String("details"))
					if err != nil {
						return err
					}

					tag := command.String("type")
					t, _ := models.ParseTriggerType(tag)

					return printDescription(command,
						string(t),
						describe.TriggerTitle(t),
						describe.TriggerIcon(t),
						describe.DescribeTriggerPayload(tag, details),
						describe.TriggerSummaryPayload(tag, details),
					)
				},
			},
			{
				Name:  "action",
				Usage: "Describe an action",
				Flags: describeFlags(),
				Action: func(_ context.Context, command *cli.Command) error {
					details, err := parseDetails(command.String("details"))
					if err != nil {
						return err
					}

					tag := command.String("type")
					a, _ := models.ParseActionType(tag)

					return printDescription(command,
						string(a),
						describe.ActionTitle(a),
						describe.ActionIcon(a),
						describe.DescribeActionPayload(tag, details),
						describe.ActionSummaryPayload(tag, details),
					)
				},
			},
		},
	}
}

func parseDetails(raw string) (map[string]any, error) {
	details := map[string]any{}

	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("details must be a JSON object: %w", err)
	}

	return details, nil
}

func printDescription(command *cli.Command, typ, title string, icon describe.Icon, description, summary string) error {
	w := command.Root().Writer

	_, err := fmt.Fprintf(w, "Type:        %s\nTitle:       %s\nIcon:        %s\nDescription: %s\nSummary:     %s\n",
		typ, title, icon, description, summary)

	return err
}
