package otel

import otelMetric "go.opentelemetry.io/otel/metric"

const (
	clientMeterPrefix = "speedrun.go.client."
	httpMeterPrefix   = "speedrun.go.http."
)

type allMeters struct {
	client clientMeters
	http   httpMeters
}

type clientMeters struct {
	inFlight otelMetric.Int64UpDownCounter
	duration otelMetric.Float64Histogram
	retries  otelMetric.Int64Counter
}

type httpMeters struct {
	inFlight         otelMetric.Int64UpDownCounter
	duration         otelMetric.Float64Histogram
	responseBodySize otelMetric.Int64Histogram
}

func newMeters(meter otelMetric.Meter) *allMeters {
	return &allMeters{
		client: clientMeters{
			inFlight: upDownCounter(meter, clientMeterPrefix+"request.in_flight", "HTTP client: in flight requests."),
			duration: histogram(meter, clientMeterPrefix+"request.duration", "HTTP client: requests duration, including redirects and retries.", "ms"),
			retries:  counter(meter, clientMeterPrefix+"request.retries", "HTTP client: retried requests."),
		},
		http: httpMeters{
			inFlight:         upDownCounter(meter, httpMeterPrefix+"request.in_flight", "HTTP request: in flight requests."),
			duration:         histogram(meter, httpMeterPrefix+"request.duration", "HTTP request: response headers received duration.", "ms"),
			responseBodySize: intHistogram(meter, httpMeterPrefix+"response.body.size", "HTTP request: response body size before decoding.", "By"),
		},
	}
}

func upDownCounter(meter otelMetric.Meter, name, desc string) otelMetric.Int64UpDownCounter {
	return mustInstrument(meter.Int64UpDownCounter(name, otelMetric.WithDescription(desc)))
}

func counter(meter otelMetric.Meter, name, desc string) otelMetric.Int64Counter {
	return mustInstrument(meter.Int64Counter(name, otelMetric.WithDescription(desc)))
}

func histogram(meter otelMetric.Meter, name, desc string, unit string) otelMetric.Float64Histogram {
	return mustInstrument(meter.Float64Histogram(name, otelMetric.WithDescription(desc), otelMetric.WithUnit(unit)))
}

func intHistogram(meter otelMetric.Meter, name, desc string, unit string) otelMetric.Int64Histogram {
	return mustInstrument(meter.Int64Histogram(name, otelMetric.WithDescription(desc), otelMetric.WithUnit(unit)))
}

func mustInstrument[T any](instrument T, err error) T {
	if err != nil {
		panic(err)
	}
	return instrument
}
