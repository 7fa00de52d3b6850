// Package main provides the FlowPulse command-line client.
package main

import (
	"context"
	"os"

	"github.com/flowpulse/flowpulse/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "flowpulse",
		Usage:                 "Inspect workflow executions and health from the terminal",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "gateway-url",
				Usage:   "Webhook gateway URL executions are fetched from",
				Sources: cli.EnvVars("GATEWAY_URL"),
			},
			&cli.IntFlag{
				Name:    "timeout",
				Usage:   "Gateway request timeout in seconds",
				Value:   30,
				Sources: cli.EnvVars("GATEWAY_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "workflows",
				Aliases: []string{"w"},
				Usage:   "List active workflows",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runWorkflows(ctx, cmd)
				},
			},
			{
				Name:    "executions",
				Aliases: []string{"e"},
				Usage:   "Summarize recent executions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Number of executions to analyze (1-100)",
						Sources: cli.EnvVars("EXECUTION_LIMIT"),
					},
					&cli.BoolFlag{
						Name:  "include-kpis",
						Usage: "Include health insights in the output",
						Value: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runExecutions(ctx, cmd)
				},
			},
			{
				Name:  "health",
				Usage: "Produce a per-workflow health report",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Number of executions to analyze (1-100)",
						Sources: cli.EnvVars("EXECUTION_LIMIT"),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHealth(ctx, cmd)
				},
			},
			{
				Name:  "errors",
				Usage: "Inspect error executions of a single workflow",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "workflow-id",
						Aliases:  []string{"w"},
						Usage:    "Workflow to inspect",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Number of error executions to return (1-100)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runErrors(ctx, cmd)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		log.WithModule("cli").Error("Command failed", "error", err)
		os.Exit(1)
	}
}
