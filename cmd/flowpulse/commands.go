package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/flowpulse/flowpulse/pkg/analysis"
	"github.com/flowpulse/flowpulse/pkg/cmd"
	"github.com/flowpulse/flowpulse/pkg/log"
	"github.com/flowpulse/flowpulse/pkg/monitor"
	"github.com/flowpulse/flowpulse/pkg/severity"
	cli "github.com/urfave/cli/v3"
)

// newMonitor builds a monitor from the global flags. The CLI stays
// event-bus free; reports go to stdout, not to a broker.
func newMonitor(command *cli.Command) (*monitor.Monitor, error) {
	log.Setup(command.String("log-level"), "text")
	logger := log.WithModule("cli")

	gw := cmd.NewGateway(
		command.String("gateway-url"),
		time.Duration(command.Int("timeout"))*time.Second,
		logger,
		nil,
	)

	classifiers := severity.NewRegistry(logger)

	classifier, err := classifiers.Get(severity.DefaultClassifier)
	if err != nil {
		return nil, err
	}

	return monitor.New(
		gw,
		monitor.WithClassifier(classifier),
		monitor.WithLogger(logger),
	), nil
}

func runWorkflows(ctx context.Context, command *cli.Command) error {
	mon, err := newMonitor(command)
	if err != nil {
		return err
	}

	report, diags, err := mon.ActiveWorkflows(ctx)
	if err != nil {
		return err
	}

	return printJSON(struct {
		analysis.WorkflowsReport
		Diagnostics *analysis.Diagnostics `json:"diagnostics,omitempty"`
	}{report, diags})
}

func runExecutions(ctx context.Context, command *cli.Command) error {
	mon, err := newMonitor(command)
	if err != nil {
		return err
	}

	report, diags, err := mon.WorkflowExecutions(ctx, command.Int("limit"), command.Bool("include-kpis"))
	if err != nil {
		return err
	}

	return printJSON(struct {
		analysis.ExecutionsReport
		Diagnostics *analysis.Diagnostics `json:"diagnostics,omitempty"`
	}{report, diags})
}

func runHealth(ctx context.Context, command *cli.Command) error {
	mon, err := newMonitor(command)
	if err != nil {
		return err
	}

	report, _, err := mon.HealthReport(ctx, command.Int("limit"))
	if err != nil {
		return err
	}

	return printJSON(report)
}

func runErrors(ctx context.Context, command *cli.Command) error {
	mon, err := newMonitor(command)
	if err != nil {
		return err
	}

	report, _, err := mon.ErrorExecutions(ctx, command.String("workflow-id"), command.Int("limit"))
	if err != nil {
		return err
	}

	return printJSON(report)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
