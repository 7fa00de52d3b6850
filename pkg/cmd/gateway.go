package cmd

import (
	"log/slog"
	"time"

	"github.com/flowpulse/flowpulse/pkg/gateway"
	"go.opentelemetry.io/otel/trace"
)

// NewGateway creates the webhook gateway client shared by the binaries.
func NewGateway(url string, timeout time.Duration, logger *slog.Logger, tracer trace.Tracer) gateway.Client {
	opts := []gateway.Option{
		gateway.WithLogger(logger),
	}

	if timeout > 0 {
		opts = append(opts, gateway.WithTimeout(timeout))
	}

	if tracer != nil {
		opts = append(opts, gateway.WithTracer(tracer))
	}

	return gateway.NewHTTPClient(url, opts...)
}
