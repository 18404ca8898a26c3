// Package otel reports OpenTelemetry spans and metrics of the client.Client requests.
//
// Telemetry is reported on 2 levels:
//
// 1. Each request.WireRequest sent by the client.
//   - Span "speedrun.go.client.request" covers all redirects and retries of the request.
//   - Span "speedrun.go.client.retry.delay" covers the wait before a retry.
//   - Metrics are prefixed by "speedrun.go.client.".
//
// 2. Each HTTP request on the wire, so also each redirect and retry.
//   - Span "http.request" with "http.dns", "http.connect" and "http.tls" children.
//   - Metrics are prefixed by "speedrun.go.http.".
//
// The request.APIRequest adds a parent span "speedrun.go.api.client.request", if the client has a tracer.
package otel

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelMetric "go.opentelemetry.io/otel/metric"
	metricNoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	otelTrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/speedrun-go/speedrun-client/pkg/client/trace"
	"github.com/speedrun-go/speedrun-client/pkg/request"
)

const TraceAppName = "github.com/speedrun-go/speedrun-client"

const (
	clientRequestSpanName    = "speedrun.go.client.request"
	clientRetryDelaySpanName = "speedrun.go.client.retry.delay"
	httpRequestSpanName      = "http.request"
	httpDNSSpanName          = "http.dns"
	httpConnectSpanName      = "http.connect"
	httpTLSSpanName          = "http.tls"
)

const (
	attrResourceName      = attribute.Key("resource.name")
	attrDNSAddresses      = attribute.Key("http.dns.addrs")
	attrRemoteAddr        = attribute.Key("http.remote")
	attrConnectionNetwork = attribute.Key("http.conn.network")
	attrRedirect          = attribute.Key("http.redirect")
	attrReadBytes         = attribute.Key("http.read_bytes")
	attrRetryAttempt      = attribute.Key("api.request.retry.attempt")
	attrRetryDelayMs      = attribute.Key("api.request.retry.delay_ms")
	attrRetryDelay        = attribute.Key("api.request.retry.delay_string")
)

// DataDog span kind and type.
var clientSpanAttrs = []attribute.KeyValue{
	attribute.String("span.kind", "client"),
	attribute.String("span.type", "http"),
}

// NewTrace returns a trace.Factory reporting spans and metrics of each request.
// A nil provider is replaced by a no-op one.
func NewTrace(tracerProvider otelTrace.TracerProvider, meterProvider otelMetric.MeterProvider, opts ...Option) trace.Factory {
	if tracerProvider == nil {
		tracerProvider = noop.NewTracerProvider()
	}
	if meterProvider == nil {
		meterProvider = metricNoop.NewMeterProvider()
	}
	cfg := newConfig(opts)
	tracer := tracerProvider.Tracer(TraceAppName)
	meters := newMeters(meterProvider.Meter(TraceAppName))

	return func(ctx context.Context, reqDef *request.WireRequest) (context.Context, *trace.ClientTrace) {
		t := &requestTelemetry{cfg: cfg, tracer: tracer, meters: meters, attrs: newAttributes(cfg, reqDef)}
		return t.start(ctx), t.clientTrace()
	}
}

// requestTelemetry holds the state of one request.WireRequest, the hooks are not called concurrently.
type requestTelemetry struct {
	cfg    config
	tracer otelTrace.Tracer
	meters *allMeters
	attrs  *attributes

	ctx       context.Context
	startTime time.Time
	rootSpan  otelTrace.Span
	readBytes int64

	httpCtx   context.Context
	httpStart time.Time
	httpSpan  otelTrace.Span
	delaySpan otelTrace.Span
}

func (t *requestTelemetry) start(ctx context.Context) context.Context {
	t.startTime = time.Now()
	t.meters.client.inFlight.Add(ctx, 1, otelMetric.WithAttributes(t.attrs.definition...))
	t.ctx, t.rootSpan = t.tracer.Start(ctx, clientRequestSpanName,
		otelTrace.WithSpanKind(otelTrace.SpanKindClient),
		otelTrace.WithAttributes(attrResourceName.String(t.attrs.resourceName)),
		otelTrace.WithAttributes(clientSpanAttrs...),
		otelTrace.WithAttributes(t.attrs.definition...),
		otelTrace.WithAttributes(t.attrs.definitionExtra...),
	)
	t.httpCtx = t.ctx
	return t.ctx
}

func (t *requestTelemetry) clientTrace() *trace.ClientTrace {
	tc := &trace.ClientTrace{
		RequestProcessed: t.requestProcessed,
		ResponseBodyRead: t.responseBodyRead,
		HTTPRequestStart: t.httpRequestStart,
		HTTPRequestDone:  t.httpRequestDone,
		HTTPRequestRetry: t.httpRequestRetry,
	}

	// Low-level spans are children of the current "http.request" span.
	// The TLS handshake is not reported if the http2.Transport is used without an upgrade from the http.Transport.
	var dnsSpan, connectSpan, tlsSpan otelTrace.Span
	tc.DNSStart = func(info httptrace.DNSStartInfo) {
		dnsSpan = t.childSpan(httpDNSSpanName, semconv.NetHostNameKey.String(info.Host))
	}
	tc.DNSDone = func(info httptrace.DNSDoneInfo) {
		addrs := make([]string, 0, len(info.Addrs))
		for _, addr := range info.Addrs {
			addrs = append(addrs, addr.String())
		}
		if dnsSpan != nil {
			dnsSpan.SetAttributes(attrDNSAddresses.String(strings.Join(addrs, ";")))
		}
		endSpan(&dnsSpan, info.Err)
	}
	tc.ConnectStart = func(network, addr string) {
		connectSpan = t.childSpan(httpConnectSpanName, attrRemoteAddr.String(addr), attrConnectionNetwork.String(network))
	}
	tc.ConnectDone = func(_, _ string, err error) {
		endSpan(&connectSpan, err)
	}
	tc.TLSHandshakeStart = func() {
		tlsSpan = t.childSpan(httpTLSSpanName)
	}
	tc.TLSHandshakeDone = func(_ tls.ConnectionState, err error) {
		endSpan(&tlsSpan, err)
	}
	return tc
}

func (t *requestTelemetry) requestProcessed(res *request.WireResponse, err error) {
	t.meters.client.inFlight.Add(t.ctx, -1, otelMetric.WithAttributes(t.attrs.definition...))
	t.meters.client.duration.Record(t.ctx, millisecondsSince(t.startTime),
		otelMetric.WithAttributes(t.attrs.definition...),
		otelMetric.WithAttributes(t.attrs.httpResponse...),
	)

	// The delay span is still open, if the context has been cancelled during the wait
	endSpan(&t.delaySpan, nil)

	t.rootSpan.SetAttributes(t.attrs.httpResponse...)
	t.rootSpan.SetAttributes(attrReadBytes.Int64(t.readBytes))
	switch {
	case err != nil:
		t.rootSpan.RecordError(err)
		t.rootSpan.SetStatus(codes.Error, err.Error())
	case res != nil && res.IsError():
		t.rootSpan.SetStatus(codes.Error, statusError(res.StatusCode).Error())
	}
	t.rootSpan.End()
}

func (t *requestTelemetry) responseBodyRead(bytes int64, err error) {
	t.readBytes = bytes
	t.meters.http.responseBodySize.Record(t.ctx, bytes, otelMetric.WithAttributes(t.attrs.httpRequest...), otelMetric.WithAttributes(t.attrs.httpResponse...))
	if err != nil {
		t.rootSpan.RecordError(err)
	}
}

func (t *requestTelemetry) httpRequestStart(req *http.Request) {
	endSpan(&t.delaySpan, nil)

	t.httpStart = time.Now()
	t.attrs.SetFromRequest(req)
	t.httpCtx, t.httpSpan = t.tracer.Start(t.ctx, httpRequestSpanName,
		otelTrace.WithSpanKind(otelTrace.SpanKindClient),
		otelTrace.WithAttributes(attrResourceName.String(req.URL.Path)),
		otelTrace.WithAttributes(clientSpanAttrs...),
		otelTrace.WithAttributes(t.attrs.httpRequest...),
		otelTrace.WithAttributes(t.attrs.httpRequestExtra...),
	)
	if t.cfg.propagators != nil {
		t.cfg.propagators.Inject(t.httpCtx, propagation.HeaderCarrier(req.Header))
	}

	t.meters.http.inFlight.Add(t.ctx, 1, otelMetric.WithAttributes(t.attrs.httpRequest...))
}

func (t *requestTelemetry) httpRequestDone(res *http.Response, err error) {
	// The in-flight counter must be decremented with the same attributes as it was incremented
	t.meters.http.inFlight.Add(t.ctx, -1, otelMetric.WithAttributes(t.attrs.httpRequest...))
	t.attrs.SetFromResponse(res, err)
	t.meters.http.duration.Record(t.ctx, millisecondsSince(t.httpStart),
		otelMetric.WithAttributes(t.attrs.httpRequest...),
		otelMetric.WithAttributes(t.attrs.httpResponse...),
		otelMetric.WithAttributes(t.attrs.httpResponseError...),
	)

	if t.httpSpan == nil {
		return
	}
	t.httpSpan.SetAttributes(t.attrs.httpResponse...)
	t.httpSpan.SetAttributes(attrRedirect.Bool(isRedirection(res)))
	if err == nil && isAPIError(res) {
		err = statusError(res.StatusCode)
	}
	endSpan(&t.httpSpan, err)
}

func (t *requestTelemetry) httpRequestRetry(attempt int, delay time.Duration) {
	t.meters.client.retries.Add(t.ctx, 1, otelMetric.WithAttributes(t.attrs.definition...))

	// Ended by the next HTTPRequestStart or by the RequestProcessed hook
	_, t.delaySpan = t.tracer.Start(t.ctx, clientRetryDelaySpanName,
		otelTrace.WithSpanKind(otelTrace.SpanKindClient),
		otelTrace.WithAttributes(t.attrs.httpRequest...),
		otelTrace.WithAttributes(t.attrs.httpResponse...),
		otelTrace.WithAttributes(
			attrRetryAttempt.Int(attempt),
			attrRetryDelayMs.Int64(delay.Milliseconds()),
			attrRetryDelay.String(delay.String()),
		),
	)
}

func (t *requestTelemetry) childSpan(name string, attrs ...attribute.KeyValue) otelTrace.Span {
	_, span := t.tracer.Start(t.httpCtx, name, otelTrace.WithSpanKind(otelTrace.SpanKindClient), otelTrace.WithAttributes(attrs...))
	return span
}

// endSpan ends the span, if it is open, and clears the reference.
func endSpan(span *otelTrace.Span, err error) {
	if *span == nil {
		return
	}
	if err != nil {
		(*span).RecordError(err)
		(*span).SetStatus(codes.Error, err.Error())
	}
	(*span).End()
	*span = nil
}

func statusError(code int) error {
	return fmt.Errorf("HTTP status code: %d %s", code, http.StatusText(code))
}

func millisecondsSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
