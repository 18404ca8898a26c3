package otel

import (
	"strings"

	"go.opentelemetry.io/otel/propagation"
)

// defaultRedactedHeaders contain credentials, the speedrun.com API key included.
var defaultRedactedHeaders = []string{
	"Authorization",
	"Cookie",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Set-Cookie",
	"WWW-Authenticate",
	"X-API-Key",
}

type Option func(*config)

type config struct {
	propagators         propagation.TextMapPropagator
	redactedQueryParams set
	redactedHeaders     set
}

// set of lower-case names.
type set map[string]struct{}

func (s set) add(names ...string) {
	for _, name := range names {
		s[strings.ToLower(name)] = struct{}{}
	}
}

func (s set) has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

func newConfig(opts []Option) config {
	cfg := config{redactedQueryParams: make(set), redactedHeaders: make(set)}
	cfg.redactedHeaders.add(defaultRedactedHeaders...)
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPropagators injects the trace context to headers of each HTTP request.
func WithPropagators(v propagation.TextMapPropagator) Option {
	return func(c *config) {
		c.propagators = v
	}
}

// WithRedactedQueryParam masks values of the query parameters, in span attributes and metric dimensions.
func WithRedactedQueryParam(params ...string) Option {
	return func(c *config) {
		c.redactedQueryParams.add(params...)
	}
}

// WithRedactedHeaders masks values of the headers in span attributes.
func WithRedactedHeaders(headers ...string) Option {
	return func(c *config) {
		c.redactedHeaders.add(headers...)
	}
}
