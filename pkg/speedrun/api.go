// Package speedrun contains request definitions for the speedrun.com REST API v1.
// https://github.com/speedruncomorg/api/tree/master/version1
//
// Each request type implements the request.Endpoint interface and is created by its builder,
// for example NewGetGameBuilder().ID("sm64").Build().
// Requests of paged collections also implement the request.Pageable marker, see the request.Paginate function.
//
// Requests can be sent by any request.Sender or request.AsyncSender,
// the API type bundles both with the base URL and the API key set, see the NewAPI function.
package speedrun

import (
	"golang.org/x/time/rate"

	"github.com/speedrun-go/speedrun-client/pkg/client"
	"github.com/speedrun-go/speedrun-client/pkg/request"
)

const (
	DefaultBaseURL = "https://www.speedrun.com/api/v1"
	APIKeyHeader   = "X-API-Key"
)

// RateLimit of the speedrun.com API, 100 requests per minute.
const RateLimit = rate.Limit(100.0 / 60.0)

// NewRateLimiter returns a limiter for the WithRateLimit option, it respects the RateLimit.
func NewRateLimiter() *rate.Limiter {
	return rate.NewLimiter(RateLimit, 1)
}

// API sends requests to the speedrun.com API.
// The blocking and the non-blocking sender share the same configuration.
type API struct {
	sender      client.Client
	asyncSender client.AsyncClient
}

// NewAPI creates the API, the client.Client is created, if it is not set by the WithClient option.
func NewAPI(opts ...APIOption) *API {
	cfg := newAPIConfig(opts)

	var c client.Client
	if cfg.client != nil {
		c = *cfg.client
	} else {
		c = client.New()
	}

	c = c.WithBaseURL(cfg.baseURL)
	if cfg.userAgent != "" {
		c = c.WithUserAgent(cfg.userAgent)
	}
	if cfg.apiKey != "" {
		c = c.WithHeader(APIKeyHeader, cfg.apiKey)
	}
	if cfg.tracerProvider != nil || cfg.meterProvider != nil {
		c = c.WithTelemetry(cfg.tracerProvider, cfg.meterProvider, cfg.telemetryOpts...)
	}
	if cfg.limiter != nil {
		c = c.WithRateLimit(cfg.limiter)
	}
	for _, factory := range cfg.tracers {
		c = c.AndTrace(factory)
	}

	async := client.NewAsync(c)
	if cfg.concurrencyLimit > 0 {
		async = async.WithConcurrencyLimit(cfg.concurrencyLimit)
	}

	return &API{sender: c, asyncSender: async}
}

// Sender returns the blocking sender.
func (a *API) Sender() client.Client {
	return a.sender
}

// AsyncSender returns the non-blocking sender.
func (a *API) AsyncSender() client.AsyncClient {
	return a.asyncSender
}

func newAPIRequest[R request.Result](a *API, endpoint request.Endpoint) request.APIRequest[R] {
	return request.NewAPIRequest[R](a.sender, endpoint)
}

func newPager[T any, E request.PageableEndpoint](a *API, endpoint E, opts []request.PageOption) *request.Pager[T] {
	return request.Paginate[T](endpoint, a.sender, opts...)
}
