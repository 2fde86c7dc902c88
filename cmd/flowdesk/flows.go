package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/config"
	"github.com/dukex/flowdesk/pkg/describe"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/urfave/cli/v3"
)

var errMissingFile = errors.New("a flow file is required")

func databaseURLFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "database-url",
		Usage:    "Database connection URL for persistence",
		Required: true,
		Sources:  cli.EnvVars("DATABASE_URL"),
	}
}

// withServices opens persistence for the duration of fn.
func withServices(ctx context.Context, command *cli.Command, fn func(*services.Flow, *services.Dashboard) error) error {
	logger := slog.Default()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	tracer := otelhelper.NoopTracer()
	flowService := services.NewFlow(persistence, cmd.NewRegistry(logger), nil, tracer, logger)

	return fn(flowService, services.NewDashboard(persistence, tracer))
}

func NewFlowsCommand() *cli.Command {
	return &cli.Command{
		Name:  "flows",
		Usage: "Inspect stored flows",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Create the flows defined in a YAML file",
				ArgsUsage: "<flows.yaml>",
				Flags: []cli.Flag{
					databaseURLFlag(),
					&cli.StringFlag{Name: "actor", Usage: "User recorded as creator", Value: "flowdesk-cli"},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					path := command.Args().First()
					if path == "" {
						return errMissingFile
					}

					definitions, err := config.LoadFlows(path)
					if err != nil {
						return err
					}

					return withServices(ctx, command, func(flows *services.Flow, _ *services.Dashboard) error {
						w := command.Root().Writer

						for _, definition := range definitions {
							created, err := flows.Create(ctx, definition, command.String("actor"))
							if err != nil {
								return fmt.Errorf("failed to import %q: %w", definition.Name, err)
							}

							fmt.Fprintf(w, "Imported %s (%s)\n", created.Name, created.ID)
						}

						return nil
					})
				},
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List flows with their rendered triggers and actions",
				Flags: []cli.Flag{
					databaseURLFlag(),
					&cli.StringFlag{Name: "organization-id", Usage: "Only flows of this organization"},
					&cli.StringFlag{Name: "event-id", Usage: "Only flows bound to this event"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of flows", Value: 20},
					&cli.StringFlag{Name: "sort-by", Usage: "created_at, updated_at or name", Value: "name"},
					&cli.StringFlag{Name: "sort-order", Usage: "asc or desc", Value: "asc"},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					return withServices(ctx, command, func(flows *services.Flow, _ *services.Dashboard) error {
						result, err := flows.ListFlows(ctx, services.ListFlowsRequest{
							OrganizationID: command.String("organization-id"),
							EventID:        command.String("event-id"),
							Limit:          command.Int("limit"),
							SortBy:         command.String("sort-by"),
							SortOrder:      command.String("sort-order"),
						})
						if err != nil {
							return fmt.Errorf("failed to list flows: %w", err)
						}

						w := command.Root().Writer

						fmt.Fprintf(w, "Flows (%d of %d):\n", len(result.Flows), result.TotalCount)

						for _, flow := range result.Flows {
							status := "inactive"
							if flow.Active {
								status = "active"
							}

							if flow.Template {
								status = "template"
							}

							fmt.Fprintf(w, "\n%s (%s) [%s]\n", flow.Name, flow.ID, status)

							view := describe.RenderFlow(flow)
							for _, trigger := range view.Triggers {
								fmt.Fprintf(w, "  when  %-16s %s\n", trigger.Title, trigger.Label)
							}

							for _, action := range view.Actions {
								fmt.Fprintf(w, "  then  %-16s %s\n", action.Title, action.Label)
							}
						}

						return nil
					})
				},
			},
		},
	}
}

func NewSummaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show trigger and action usage across flows",
		Flags: []cli.Flag{
			databaseURLFlag(),
			&cli.StringFlag{Name: "organization-id", Usage: "Only flows of this organization"},
			&cli.StringFlag{Name: "event-id", Usage: "Only flows bound to this event"},
			&cli.BoolFlag{Name: "active-only", Usage: "Only active flows"},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			return withServices(ctx, command, func(_ *services.Flow, dashboard *services.Dashboard) error {
				summary, err := dashboard.Summary(ctx, services.DashboardFilter{
					OrganizationID: command.String("organization-id"),
					EventID:        command.String("event-id"),
					ActiveOnly:     command.Bool("active-only"),
				})
				if err != nil {
					return err
				}

				w := command.Root().Writer

				fmt.Fprintf(w, "Flows: %d total, %d active, %d templates\n",
					summary.TotalFlows, summary.ActiveFlows, summary.TemplateFlows)

				fmt.Fprintln(w, "Top triggers:")

				for _, entry := range summary.TopTriggers {
					fmt.Fprintf(w, "  %-20s %d\n", describe.TitleFor(entry.Type), entry.Count)
				}

				fmt.Fprintln(w, "Top actions:")

				for _, entry := range summary.TopActions {
					fmt.Fprintf(w, "  %-20s %d\n", describe.TitleFor(entry.Type), entry.Count)
				}

				return nil
			})
		},
	}
}
