package main

import (
	"context"
	"os"

	"github.com/flowpulse/flowpulse/pkg/cmd"
	"github.com/flowpulse/flowpulse/pkg/config"
	"github.com/flowpulse/flowpulse/pkg/log"
	"github.com/flowpulse/flowpulse/pkg/monitor"
	"github.com/flowpulse/flowpulse/pkg/otelhelper"
	"github.com/flowpulse/flowpulse/pkg/severity"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "flowpulse-api",
		Usage:                 "Serve workflow health reports over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				Sources: cli.EnvVars("FLOWPULSE_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "gateway-url",
				Usage:   "Webhook gateway URL executions are fetched from",
				Sources: cli.EnvVars("GATEWAY_URL"),
			},
			&cli.IntFlag{
				Name:    "gateway-timeout",
				Usage:   "Gateway request timeout in seconds",
				Sources: cli.EnvVars("GATEWAY_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (memory, kafka)",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("TRACING"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := mergeConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel, cfg.LogFormat)

			logger.InfoContext(ctx, "Initializing FlowPulse API")

			var tracer trace.Tracer

			if cfg.Tracing {
				t, shutdown, err := otelhelper.NewTracer(ctx, "flowpulse-api")
				if err != nil {
					return err
				}

				tracer = t

				defer func() {
					if err := shutdown(ctx); err != nil {
						logger.ErrorContext(ctx, "Failed to shut down tracer", "error", err)
					}
				}()
			}

			eventBus, err := cmd.NewEventBus(cfg.EventBus, logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			gw := cmd.NewGateway(cfg.GatewayURL, cfg.GatewayTimeout(), logger, tracer)
			classifiers := severity.NewRegistry(logger)

			classifier, err := classifiers.Get(severity.DefaultClassifier)
			if err != nil {
				return err
			}

			mon := monitor.New(
				gw,
				monitor.WithClassifier(classifier),
				monitor.WithEventBus(eventBus),
				monitor.WithLogger(logger),
				monitor.WithTracer(tracer),
			)

			api := NewAPI(logger, mon)

			if err := api.Start(cfg.Port); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

// mergeConfig layers CLI flags over the optional config file and validates
// the result.
func mergeConfig(command *cli.Command) (config.Config, error) {
	cfg, err := config.Load(command.String("config"))
	if err != nil {
		return cfg, err
	}

	if command.IsSet("port") {
		cfg.Port = command.Int("port")
	}

	if command.IsSet("gateway-url") {
		cfg.GatewayURL = command.String("gateway-url")
	}

	if command.IsSet("gateway-timeout") {
		cfg.GatewayTimeoutSeconds = command.Int("gateway-timeout")
	}

	if command.IsSet("event-bus") {
		cfg.EventBus = command.String("event-bus")
	}

	if command.IsSet("log-level") {
		cfg.LogLevel = command.String("log-level")
	}

	if command.IsSet("log-format") {
		cfg.LogFormat = command.String("log-format")
	}

	if command.IsSet("tracing") {
		cfg.Tracing = command.Bool("tracing")
	}

	return cfg, cfg.Validate()
}
