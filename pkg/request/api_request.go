package request

import (
	"context"
	"errors"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const APIRequestSpanName = "speedrun.go.api.client.request"

// APIRequest is an Endpoint bound to a Sender, the response is decoded to R.
// Each With* method returns a modified copy, the original request is not changed.
type APIRequest[R Result] interface {
	Endpoint() Endpoint
	// WithBefore registers a hook invoked before the request is sent.
	// An error returned by the hook cancels the request.
	WithBefore(func(ctx context.Context) error) APIRequest[R]
	// WithOnComplete registers a hook invoked after the request, the returned error replaces the original one.
	WithOnComplete(func(ctx context.Context, result R, err error) error) APIRequest[R]
	// WithOnSuccess registers a hook invoked only if the request succeeded.
	WithOnSuccess(func(ctx context.Context, result R) error) APIRequest[R]
	// WithOnError registers a hook invoked only if the request failed, return nil to ignore the error.
	WithOnError(func(ctx context.Context, err error) error) APIRequest[R]
	Send(ctx context.Context) (result R, err error)
	SendOrErr(ctx context.Context) error
}

// WithTracer is implemented by a Sender with telemetry, each APIRequest is then wrapped by a span.
type WithTracer interface {
	Tracer() trace.Tracer
}

type (
	beforeHook          func(ctx context.Context) error
	completeHook[R any] func(ctx context.Context, result R, err error) error
)

type apiRequest[R Result] struct {
	sender   Sender
	endpoint Endpoint
	before   []beforeHook
	complete []completeHook[R]
}

// NewAPIRequest binds the endpoint to the sender. It panics if the sender is nil.
func NewAPIRequest[R Result](sender Sender, endpoint Endpoint) APIRequest[R] {
	if sender == nil {
		panic(errors.New("sender cannot be nil"))
	}
	return apiRequest[R]{sender: sender, endpoint: endpoint}
}

func (r apiRequest[R]) Endpoint() Endpoint {
	return r.endpoint
}

func (r apiRequest[R]) WithBefore(fn func(ctx context.Context) error) APIRequest[R] {
	r.before = append(r.before[:len(r.before):len(r.before)], fn)
	return r
}

func (r apiRequest[R]) WithOnComplete(fn func(ctx context.Context, result R, err error) error) APIRequest[R] {
	r.complete = append(r.complete[:len(r.complete):len(r.complete)], fn)
	return r
}

func (r apiRequest[R]) WithOnSuccess(fn func(ctx context.Context, result R) error) APIRequest[R] {
	return r.WithOnComplete(func(ctx context.Context, result R, err error) error {
		if err != nil {
			return err
		}
		return fn(ctx, result)
	})
}

func (r apiRequest[R]) WithOnError(fn func(ctx context.Context, err error) error) APIRequest[R] {
	return r.WithOnComplete(func(ctx context.Context, _ R, err error) error {
		if err == nil {
			return nil
		}
		return fn(ctx, err)
	})
}

func (r apiRequest[R]) Send(ctx context.Context) (result R, err error) {
	ctx, span := r.startSpan(ctx)
	if span != nil {
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}()
	}

	if err = ctx.Err(); err != nil {
		return result, err
	}
	for _, hook := range r.before {
		if err = hook(ctx); err != nil {
			return result, err
		}
	}

	result, err = Execute[R](ctx, r.endpoint, r.sender)

	// Hooks are chained, each one receives the error returned by the previous one
	for _, hook := range r.complete {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		err = hook(ctx, result, err)
	}
	return result, err
}

func (r apiRequest[R]) SendOrErr(ctx context.Context) error {
	_, err := r.Send(ctx)
	return err
}

// startSpan returns a nil span if the sender has no tracer.
func (r apiRequest[R]) startSpan(ctx context.Context) (context.Context, trace.Span) {
	withTracer, ok := r.sender.(WithTracer)
	if !ok {
		return ctx, nil
	}
	tracer := withTracer.Tracer()
	if tracer == nil {
		return ctx, nil
	}
	return tracer.Start(ctx, APIRequestSpanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			// DataDog
			attribute.String("span.kind", "client"),
			attribute.String("span.type", "http"),
			attribute.String("api.endpoint_type", reflect.TypeOf(r.endpoint).String()),
			attribute.String("api.result_type", reflect.TypeFor[R]().String()),
		),
	)
}
