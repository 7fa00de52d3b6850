// Package gateway implements the client side of the automation-platform
// gateway contract: a webhook endpoint answering action-discriminated POST
// requests with workflow and execution records. The client performs exactly
// one attempt per fetch; retry policy, if any, belongs to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowpulse/flowpulse/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Action discriminates gateway requests.
type Action string

const (
	ActionActiveWorkflows    Action = "get_active_workflows"
	ActionWorkflowExecutions Action = "get_workflow_executions"
	ActionExecutionDetails   Action = "get_execution_details"
)

// Request is the payload POSTed to the gateway.
type Request struct {
	Action     Action `json:"action"`
	Limit      int    `json:"limit,omitempty"`
	WorkflowID string `json:"workflow_id,omitempty"`
}

// Client is the fetch capability handed to the monitor. Implementations
// return the raw records carried by the response; they never interpret them.
type Client interface {
	Fetch(ctx context.Context, req Request) ([]map[string]any, error)
}

const defaultTimeout = 30 * time.Second

// HTTPClient fetches records from a webhook gateway endpoint.
type HTTPClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.client.Timeout = timeout
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithTracer enables span emission around fetches.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *HTTPClient) {
		c.tracer = tracer
	}
}

// NewHTTPClient creates a gateway client for the given webhook URL.
func NewHTTPClient(url string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch POSTs the request to the gateway and returns the decoded records.
// One attempt, no retries.
func (c *HTTPClient) Fetch(ctx context.Context, req Request) ([]map[string]any, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	if c.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, c.tracer, "gateway.fetch",
			attribute.String(otelhelper.ActionKey, string(req.Action)),
			attribute.Int(otelhelper.LimitKey, req.Limit),
		)
		defer span.End()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &FetchError{Action: req.Action, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &FetchError{Action: req.Action, Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Fetching from gateway", "action", req.Action, "limit", req.Limit)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.recordSpanError(ctx, err)

		return nil, &FetchError{Action: req.Action, Err: err}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close gateway response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("gateway returned status %d", resp.StatusCode)
		c.recordSpanError(ctx, err)

		return nil, &FetchError{Action: req.Action, StatusCode: resp.StatusCode, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Action: req.Action, Err: err}
	}

	records, err := decodeEnvelope(body)
	if err != nil {
		c.recordSpanError(ctx, err)

		return nil, &FetchError{Action: req.Action, Err: err}
	}

	c.logger.Debug("Fetched records from gateway", "action", req.Action, "records", len(records))

	return records, nil
}

func (c *HTTPClient) recordSpanError(ctx context.Context, err error) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		otelhelper.SetError(span, err)
	}
}

// decodeEnvelope tolerates the envelope shapes gateways are known to return:
// a bare list of records or an object wrapping them under "data".
func decodeEnvelope(body []byte) ([]map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedFormat, err)
	}

	switch value := decoded.(type) {
	case []any:
		return recordList(value)
	case map[string]any:
		data, ok := value["data"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: object response without data list", ErrUnexpectedFormat)
		}

		return recordList(data)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedFormat, decoded)
	}
}

func recordList(items []any) ([]map[string]any, error) {
	records := make([]map[string]any, 0, len(items))

	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: list element %T is not a record", ErrUnexpectedFormat, item)
		}

		records = append(records, record)
	}

	return records, nil
}
