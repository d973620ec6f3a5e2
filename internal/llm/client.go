// Package llm sends single-turn chat completion requests to an
// OpenAI-compatible endpoint and classifies the replies.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/diogo/codeassist/internal/config"
	apierrors "github.com/diogo/codeassist/internal/errors"
	"github.com/diogo/codeassist/internal/logging"
	"github.com/diogo/codeassist/internal/telemetry"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// Result attribute values recorded on the completion counter
const (
	ResultOK            = "ok"
	ResultMissingKey    = "missing_key"
	ResultNetwork       = "network"
	ResultAPIError      = "api_error"
	ResultInvalidResult = "invalid_response"
	ResultInternal      = "internal"
)

// Doer is the part of tls_client.HttpClient the client needs
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs completion calls. It holds no conversation state: every
// call carries only the system prompt and the user's message.
type Client struct {
	httpClient  Doer
	endpoint    string
	model       string
	apiKey      string
	temperature float64
	maxTokens   int
	timeout     int

	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	duration metric.Float64Histogram
	results  metric.Int64Counter
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient replaces the TLS client, mainly for tests
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTracer sets the tracer used for completion spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithMeter sets the meter used for completion metrics
func WithMeter(meter metric.Meter) Option {
	return func(c *Client) {
		c.meter = meter
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithModel overrides the configured model
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAPIKey overrides the key resolved from the environment and config
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient creates a client from cfg. A missing API key is not an error
// here; Complete reports it on every call.
func NewClient(cfg config.Config, opts ...Option) (*Client, error) {
	c := &Client{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		apiKey:      cfg.ResolveAPIKey(),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.RequestTimeout,
		logger:      logging.Discard(),
		tracer:      otel.GetTracerProvider().Tracer(telemetry.InstrumentationName),
		meter:       otel.GetMeterProvider().Meter(telemetry.InstrumentationName),
	}
	if c.endpoint == "" {
		c.endpoint = config.DefaultEndpoint
	}
	if c.model == "" {
		c.model = config.DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = config.DefaultMaxTokens
	}
	if c.timeout <= 0 {
		c.timeout = config.DefaultRequestTimeout
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(c.timeout),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}
		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		c.httpClient = httpClient
	}

	var err error
	c.duration, err = c.meter.Float64Histogram("codeassist.completion.duration",
		metric.WithDescription("Duration of completion calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	c.results, err = c.meter.Int64Counter("codeassist.completion.results",
		metric.WithDescription("Completion calls by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create result counter: %w", err)
	}

	return c, nil
}

// Model returns the model name sent with each request
func (c *Client) Model() string {
	return c.model
}

// Endpoint returns the completion URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HasAPIKey reports whether a key was resolved
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// buildBody encodes the request payload for one turn
func (c *Client) buildBody(language, userMessage string) ([]byte, error) {
	return json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: config.SystemPrompt(language)},
			{Role: "user", Content: userMessage},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
}

// Complete sends userMessage with a system prompt for language and returns
// the reply text. Errors are one of ErrMissingAPIKey, *NetworkError,
// *APIError or *ParseError.
func (c *Client) Complete(ctx context.Context, language, userMessage string) (reply string, err error) {
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "chat.completion",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("codeassist.request_id", requestID),
			attribute.String("codeassist.model", c.model),
			attribute.String("codeassist.language", language),
		),
	)
	start := time.Now()
	defer func() {
		result := classify(err)
		attrs := metric.WithAttributes(
			attribute.String("result", result),
			attribute.String("model", c.model),
		)
		c.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		c.results.Add(ctx, 1, attrs)

		span.SetAttributes(attribute.String("codeassist.result", result))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		}
		span.End()
	}()

	if c.apiKey == "" {
		return "", apierrors.ErrMissingAPIKey
	}

	payload, err := c.buildBody(language, userMessage)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("completion request failed",
			"request_id", requestID,
			"endpoint", c.endpoint,
			"error", err,
		)
		return "", apierrors.NewNetworkError("chat completion", c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logger.Error("failed to read completion response",
			"request_id", requestID,
			"status", resp.StatusCode,
			"error", err,
		)
		return "", apierrors.NewNetworkError("read completion response", c.endpoint, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("completion response",
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	reply, err = parseResponse(body, resp.StatusCode, c.endpoint)
	if apierrors.IsNetworkError(err) {
		c.logger.Error("failed to decode completion response",
			"request_id", requestID,
			"status", resp.StatusCode,
			"error", err,
		)
	}
	return reply, err
}

// parseResponse classifies a response body. The status code is carried
// into errors for diagnostics only; the shape of the body decides.
// A body that cannot be decoded at all, such as a proxy error page, counts
// as a transport failure.
func parseResponse(body []byte, statusCode int, endpoint string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewNetworkError("decode completion response", endpoint,
			fmt.Errorf("status %d: body is not valid JSON", statusCode))
	}

	if first := gjson.GetBytes(body, "choices.0"); first.Exists() {
		message := first.Get("message")
		if !message.IsObject() {
			return "", apierrors.NewNetworkError("decode completion response", endpoint,
				fmt.Errorf("status %d: choices[0] has no message object", statusCode))
		}
		content := message.Get("content")
		if content.Type != gjson.String {
			return "", apierrors.NewParseError("choices[0].message.content is not a string", statusCode, string(body))
		}
		return content.String(), nil
	}

	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		msg := apiErr.Get("message")
		if msg.Type != gjson.String {
			return "", apierrors.NewParseError("error.message is not a string", statusCode, string(body))
		}
		return "", apierrors.NewAPIError(statusCode, endpoint, msg.String())
	}

	return "", apierrors.NewParseError("unrecognized response shape", statusCode, string(body))
}

func classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case apierrors.IsMissingAPIKey(err):
		return ResultMissingKey
	case apierrors.IsNetworkError(err):
		return ResultNetwork
	case apierrors.IsAPIError(err):
		return ResultAPIError
	case apierrors.IsParseError(err):
		return ResultInvalidResult
	default:
		return ResultInternal
	}
}
