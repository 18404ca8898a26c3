package speedrun

import (
	"github.com/rs/zerolog"
	otelMetric "go.opentelemetry.io/otel/metric"
	otelTrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/speedrun-go/speedrun-client/pkg/client"
	"github.com/speedrun-go/speedrun-client/pkg/client/trace"
	"github.com/speedrun-go/speedrun-client/pkg/client/trace/otel"
)

type apiConfig struct {
	client           *client.Client
	baseURL          string
	apiKey           string
	userAgent        string
	concurrencyLimit int64
	tracerProvider   otelTrace.TracerProvider
	meterProvider    otelMetric.MeterProvider
	telemetryOpts    []otel.Option
	tracers          []trace.Factory
	limiter          *rate.Limiter
}

type APIOption func(c *apiConfig)

func newAPIConfig(opts []APIOption) apiConfig {
	cfg := apiConfig{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithClient(cl *client.Client) APIOption {
	return func(c *apiConfig) {
		c.client = cl
	}
}

func WithBaseURL(v string) APIOption {
	return func(c *apiConfig) {
		c.baseURL = v
	}
}

// WithAPIKey sets the key sent in the X-API-Key header, it is required only by the mutating requests.
func WithAPIKey(v string) APIOption {
	return func(c *apiConfig) {
		c.apiKey = v
	}
}

func WithUserAgent(v string) APIOption {
	return func(c *apiConfig) {
		c.userAgent = v
	}
}

// WithConcurrencyLimit sets the maximum number of in-flight requests of the AsyncSender.
func WithConcurrencyLimit(v int64) APIOption {
	return func(c *apiConfig) {
		c.concurrencyLimit = v
	}
}

func WithTracerProvider(v otelTrace.TracerProvider) APIOption {
	return func(c *apiConfig) {
		c.tracerProvider = v
	}
}

func WithMeterProvider(v otelMetric.MeterProvider) APIOption {
	return func(c *apiConfig) {
		c.meterProvider = v
	}
}

func WithTelemetryOptions(opts ...otel.Option) APIOption {
	return func(c *apiConfig) {
		c.telemetryOpts = append(c.telemetryOpts, opts...)
	}
}

// WithLogger logs each request by the trace.ZerologTracer.
func WithLogger(logger zerolog.Logger) APIOption {
	return WithTrace(trace.ZerologTracer(logger))
}

// WithTrace registers custom trace hooks, for example the trace.LogTracer.
func WithTrace(factory trace.Factory) APIOption {
	return func(c *apiConfig) {
		c.tracers = append(c.tracers, factory)
	}
}

// WithRateLimit limits the rate of the wire requests, retries included.
// The speedrun.com API allows 100 requests per minute, see the RateLimit constant.
func WithRateLimit(limiter *rate.Limiter) APIOption {
	return func(c *apiConfig) {
		c.limiter = limiter
	}
}
