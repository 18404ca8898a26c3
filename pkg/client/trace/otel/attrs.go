package otel

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

const maskedAttrValue = "****"

// propagationHeaders are injected by the propagators, they are not reported as attributes.
var propagationHeaders = set{"traceparent": {}, "tracestate": {}}

type attributes struct {
	config config
	// definition attributes for span and metrics
	definition []attribute.KeyValue
	// definitionExtra attributes for span only
	definitionExtra []attribute.KeyValue
	// httpRequest attributes for span and metrics
	httpRequest []attribute.KeyValue
	// httpRequestExtra attributes for span only
	httpRequestExtra []attribute.KeyValue
	// httpResponse attributes for span and metrics
	httpResponse []attribute.KeyValue
	// httpResponseError attributes for metrics
	httpResponseError []attribute.KeyValue
	// resourceName is the path of the endpoint
	resourceName string
}

func newAttributes(cfg config, reqDef *request.WireRequest) *attributes {
	out := &attributes{config: cfg, resourceName: reqDef.URL.Path}
	reqURL := out.redactURL(reqDef.URL)

	// Definition base
	out.definition = []attribute.KeyValue{
		attribute.String("definition.method", reqDef.Method),
		attribute.String("definition.url.full", mustURLPathUnescape(reqURL.String())),
		attribute.String("definition.url.path", mustURLPathUnescape(reqURL.Path)),
	}
	if reqURL.Host != "" {
		out.definition = append(out.definition, attribute.String("definition.url.host", reqURL.Host))
	}

	// Definition params
	out.definitionExtra = append(out.definitionExtra, out.headerAttrs("definition.header.", reqDef.Header, nil)...)
	var queryAttrs []attribute.KeyValue
	for k, v := range reqURL.Query() {
		queryAttrs = append(queryAttrs, attribute.String("definition.params.query."+k, strings.Join(v, ",")))
	}
	sortAttrs(queryAttrs)
	out.definitionExtra = append(out.definitionExtra, queryAttrs...)
	if len(reqDef.Body) > 0 {
		out.definitionExtra = append(out.definitionExtra, attribute.Int("definition.body.size", len(reqDef.Body)))
	}

	return out
}

func (v *attributes) SetFromRequest(req *http.Request) {
	if req == nil {
		v.httpRequest = nil
		v.httpRequestExtra = nil
		return
	}

	// Base
	v.httpRequest = []attribute.KeyValue{
		semconv.HTTPMethodKey.String(req.Method),
		semconv.HTTPURLKey.String(mustURLPathUnescape(v.redactURL(req.URL).String())),
		semconv.NetPeerNameKey.String(req.URL.Hostname()),
	}

	// Extra
	v.httpRequestExtra = v.headerAttrs("http.header.", req.Header, propagationHeaders)
}

func (v *attributes) SetFromResponse(res *http.Response, err error) {
	// Base
	if res == nil {
		v.httpResponse = nil
	} else {
		v.httpResponse = []attribute.KeyValue{semconv.HTTPStatusCodeKey.Int(res.StatusCode)}
	}

	// Error
	var netErr net.Error
	errors.As(err, &netErr)
	v.httpResponseError = []attribute.KeyValue{
		attribute.Bool("http.response.isSuccess", isSuccess(res, err)),
		attribute.Bool("http.response.error.has", err != nil),
		attribute.Bool("http.response.error.net", netErr != nil),
		attribute.Bool("http.response.error.timeout", netErr != nil && netErr.Timeout()),
		attribute.Bool("http.response.error.cancelled", errors.Is(err, context.Canceled)),
		attribute.Bool("http.response.error.deadline_exceeded", errors.Is(err, context.DeadlineExceeded)),
	}
}

// headerAttrs converts the header to attributes, the redacted values are masked.
func (v *attributes) headerAttrs(prefix string, header http.Header, skip set) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(header))
	for key, values := range header {
		if skip.has(key) {
			continue
		}
		value := strings.Join(values, ";")
		if v.config.redactedHeaders.has(key) {
			value = maskedAttrValue
		}
		attrs = append(attrs, attribute.String(prefix+strings.ToLower(key), value))
	}
	sortAttrs(attrs)
	return attrs
}

// redactURL returns a copy of the URL with the redacted query parameters masked.
func (v *attributes) redactURL(in *url.URL) *url.URL {
	out := *in
	if len(v.config.redactedQueryParams) == 0 || out.RawQuery == "" {
		return &out
	}
	query := out.Query()
	for key := range query {
		if v.config.redactedQueryParams.has(key) {
			query.Set(key, maskedAttrValue)
		}
	}
	out.RawQuery = query.Encode()
	return &out
}

func sortAttrs(attrs []attribute.KeyValue) {
	sort.SliceStable(attrs, func(i, j int) bool {
		return attrs[i].Key < attrs[j].Key
	})
}

func mustURLPathUnescape(in string) string {
	out, err := url.PathUnescape(in)
	if err != nil {
		return in
	}
	return out
}
