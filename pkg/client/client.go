// Package client provides transports for the request package.
//
// Client is a blocking implementation of the request.Sender interface.
// Client is based on the standard net/http package and contains optional retry and tracing/telemetry support.
// AsyncClient wraps the Client and implements the non-blocking request.AsyncSender interface.
//
// The transports don't decode responses, except the Content-Encoding.
// Decoding of the response payload is done by the request package.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	otelMetric "go.opentelemetry.io/otel/metric"
	otelTrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/speedrun-go/speedrun-client/pkg/client/counter"
	"github.com/speedrun-go/speedrun-client/pkg/client/decode"
	"github.com/speedrun-go/speedrun-client/pkg/client/trace"
	"github.com/speedrun-go/speedrun-client/pkg/client/trace/otel"
	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// DefaultUserAgent is the User-Agent header of a new Client.
const DefaultUserAgent = "speedrun-go-client"

// Client is a default and configurable implementation of the request.Sender interface by Go native http.Client.
// It supports retry and tracing/telemetry.
type Client struct {
	transport    http.RoundTripper
	baseURL      *url.URL
	header       http.Header
	retry        RetryConfig
	traceFactory trace.Factory
	tracer       otelTrace.Tracer
	limiter      *rate.Limiter
}

// New creates new HTTP Client.
func New() Client {
	c := Client{transport: DefaultTransport(), header: make(http.Header), retry: NoRetry()}
	c.header.Set("User-Agent", DefaultUserAgent)
	c.header.Set("Accept", request.ContentTypeJSON)
	c.header.Set("Accept-Encoding", "gzip, br")
	return c
}

// WithBaseURL returns a clone of the Client with base url set.
func (c Client) WithBaseURL(baseURLStr string) Client {
	baseURL, err := url.Parse(baseURLStr)
	if err != nil {
		panic(fmt.Errorf(`base url "%s" is not valid: %w`, baseURLStr, err))
	}
	c.baseURL = baseURL
	return c
}

// WithUserAgent returns a clone of the Client with user agent set.
func (c Client) WithUserAgent(v string) Client {
	return c.WithHeader("User-Agent", v)
}

// WithHeader returns a clone of the Client with common header set.
func (c Client) WithHeader(key, value string) Client {
	c.header = c.header.Clone()
	c.header.Set(key, value)
	return c
}

// WithHeaders returns a clone of the Client with common headers set.
func (c Client) WithHeaders(headers map[string]string) Client {
	c.header = c.header.Clone()
	for k, v := range headers {
		c.header.Set(k, v)
	}
	return c
}

// WithTransport returns a clone of the Client with a HTTP transport set.
func (c Client) WithTransport(transport http.RoundTripper) Client {
	if transport == nil {
		panic(fmt.Errorf("transport cannot be nil"))
	}
	c.transport = transport
	return c
}

// WithRetry returns a clone of the Client with retry config set.
func (c Client) WithRetry(retry RetryConfig) Client {
	c.retry = retry
	return c
}

// WithRateLimit returns a clone of the Client, each wire attempt, including retries, waits for the limiter.
// The limiter may be shared by multiple clients. Nil disables the limit.
func (c Client) WithRateLimit(limiter *rate.Limiter) Client {
	c.limiter = limiter
	return c
}

// AndTrace returns a clone of the Client with Trace hooks added.
// Hooks of the previously registered factories are preserved.
func (c Client) AndTrace(fn trace.Factory) Client {
	oldFactory := c.traceFactory
	if oldFactory == nil {
		c.traceFactory = fn
		return c
	}
	c.traceFactory = func(ctx context.Context, reqDef *request.WireRequest) (context.Context, *trace.ClientTrace) {
		ctx, oldTrace := oldFactory(ctx, reqDef)
		ctx, newTrace := fn(ctx, reqDef)
		if newTrace == nil {
			return ctx, oldTrace
		}
		newTrace.Compose(oldTrace)
		return ctx, newTrace
	}
	return c
}

// WithTelemetry returns a clone of the Client with OpenTelemetry tracing and metrics.
// The tracer is also used by the request.APIRequest, see the request.WithTracer interface.
func (c Client) WithTelemetry(tracerProvider otelTrace.TracerProvider, meterProvider otelMetric.MeterProvider, opts ...otel.Option) Client {
	if tracerProvider != nil {
		c.tracer = tracerProvider.Tracer(otel.TraceAppName)
	}
	return c.AndTrace(otel.NewTrace(tracerProvider, meterProvider, opts...))
}

// Tracer returns the tracer set by the WithTelemetry method, or nil.
func (c Client) Tracer() otelTrace.Tracer {
	return c.tracer
}

// BaseURL returns the base URL, it implements the request.Sender interface.
func (c Client) BaseURL() *url.URL {
	return c.baseURL
}

// Send method sends HTTP request and returns HTTP response, it implements the request.Sender interface.
// Only transport failures are returned as an error, they are of the *request.ClientError type.
func (c Client) Send(ctx context.Context, reqDef *request.WireRequest) (res *request.WireResponse, err error) {
	// Method cannot be called on an empty value
	if c.transport == nil {
		panic(fmt.Errorf("client value is not initialized"))
	}

	// Convert to absolute url
	reqURL := reqDef.URL
	if reqURL == nil {
		panic(fmt.Errorf("request url is not set"))
	}
	if !reqURL.IsAbs() && c.baseURL != nil {
		reqURL = c.baseURL.ResolveReference(reqURL)
	}

	// Init trace
	var tc *trace.ClientTrace
	if c.traceFactory != nil {
		ctx, tc = c.traceFactory(ctx, reqDef)
		if tc != nil {
			ctx = httptrace.WithClientTrace(ctx, &tc.ClientTrace)
		}
	}

	// Trace request processed
	if tc != nil && tc.RequestProcessed != nil {
		defer func() {
			tc.RequestProcessed(res, err)
		}()
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, reqDef.Method, reqURL.String(), nil)
	if err != nil {
		return nil, &request.ClientError{Method: reqDef.Method, URL: reqURL.String(), Err: err}
	}

	// Global headers
	for k, values := range c.header {
		for _, v := range values {
			req.Header.Set(k, v)
		}
	}

	// Request headers
	for k, values := range reqDef.Header {
		req.Header.Del(k) // clear global values
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	// Body
	if len(reqDef.Body) > 0 {
		// GetBody factory is used for requests when a redirect/retry requires reading the body more than once.
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(reqDef.Body)), nil
		}
		req.Body, _ = req.GetBody()
		req.ContentLength = int64(len(reqDef.Body))
	}

	// Setup native client
	nativeClient := http.Client{
		Timeout:   c.retry.TotalRequestTimeout,
		Transport: roundTripper{trace: tc, retry: c.retry, limiter: c.limiter, wrapped: c.transport}, // wrapped transport for trace/retry
	}

	// Send request
	startedAt := time.Now()
	rawResponse, err := nativeClient.Do(req)
	if err != nil {
		return nil, handleSendError(startedAt, c.retry.TotalRequestTimeout, req, err)
	}

	// Read body
	body, err := readResponseBody(rawResponse, tc)
	if err != nil {
		return nil, &request.ClientError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	return &request.WireResponse{StatusCode: rawResponse.StatusCode, Header: rawResponse.Header, Body: body}, nil
}

func readResponseBody(r *http.Response, tc *trace.ClientTrace) ([]byte, error) {
	// Count raw bytes
	var onClose counter.OnClose
	if tc != nil && tc.ResponseBodyRead != nil {
		onClose = tc.ResponseBodyRead
	}
	raw := counter.NewReadCloser(r.Body, onClose)
	defer raw.Close()

	// Process content encoding
	body, err := decode.Decode(raw, r.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf(`cannot read response body: %w`, err)
	}

	out, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf(`cannot read response body: %w`, err)
	}
	return out, nil
}

func handleSendError(startedAt time.Time, clientTimeout time.Duration, req *http.Request, err error) error {
	// Timeout
	var netErr net.Error
	if deadline, ok := req.Context().Deadline(); ok && errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("timeout after %s: %w", deadline.Sub(startedAt), context.DeadlineExceeded)
	} else if errors.Is(err, context.Canceled) {
		err = fmt.Errorf("canceled after %s: %w", time.Since(startedAt), context.Canceled)
	} else if errors.As(err, &netErr) && netErr.Timeout() {
		if strings.Contains(err.Error(), "Client.Timeout exceeded") {
			err = fmt.Errorf("timeout after %s: %w", clientTimeout, netErr)
		} else {
			err = fmt.Errorf("timeout after %s: %w", time.Since(startedAt), netErr)
		}
	} else {
		// Url error
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
	}

	return &request.ClientError{Method: req.Method, URL: req.URL.String(), Err: err}
}
