package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Result - any value.
type Result = any

// NoResult type, the response payload is ignored.
type NoResult struct{}

// sendFunc performs one wire call, it is Sender.Send or awaited AsyncSender.SendAsync.
type sendFunc func(ctx context.Context, request *WireRequest) (*WireResponse, error)

// Execute sends the Endpoint by the blocking Sender and maps the response to the R type.
// Exactly one Sender.Send call is made, there are no retries.
func Execute[R Result](ctx context.Context, endpoint Endpoint, sender Sender) (R, error) {
	var result R
	_, err := execute(ctx, endpoint, sender.BaseURL(), sender.Send, &result)
	return result, err
}

// ExecuteAsync sends the Endpoint by the non-blocking AsyncSender.
// The returned Future resolves to the response mapped to the R type.
// Cancel the context to abort the in-flight request.
func ExecuteAsync[R Result](ctx context.Context, endpoint Endpoint, sender AsyncSender) *Future[R] {
	return NewFuture(ctx, func(ctx context.Context) (R, error) {
		var result R
		_, err := execute(ctx, endpoint, sender.BaseURL(), awaitSend(sender), &result)
		return result, err
	})
}

// Ignore sends the Endpoint and ignores the response payload, errors are returned.
func Ignore(ctx context.Context, endpoint Endpoint, sender Sender) error {
	_, err := Execute[NoResult](ctx, endpoint, sender)
	return err
}

// NewWireRequest assembles the request from the Endpoint.
// Path of the Endpoint is resolved against the baseURL, if it is set.
func NewWireRequest(endpoint Endpoint, baseURL *url.URL) (*WireRequest, error) {
	query, err := endpoint.QueryParams()
	if err != nil {
		return nil, toBodyError(err)
	}
	return newWireRequest(endpoint, baseURL, query)
}

func newWireRequest(endpoint Endpoint, baseURL *url.URL, query string) (*WireRequest, error) {
	method := endpoint.Method()
	if method == "" {
		panic(fmt.Errorf(`endpoint %T: method is not set`, endpoint))
	}

	reqURL, err := resolvePath(baseURL, endpoint.Path())
	if err != nil {
		return nil, &BodyError{Err: err}
	}
	reqURL.RawQuery = query

	body, err := endpoint.Body()
	if err != nil {
		return nil, toBodyError(err)
	}

	req := &WireRequest{Method: method, URL: reqURL, Header: make(http.Header)}
	if body != nil {
		req.Body = body.Data
		if body.ContentType != "" {
			req.Header.Set("Content-Type", body.ContentType)
		}
	}
	return req, nil
}

func execute(ctx context.Context, endpoint Endpoint, baseURL *url.URL, send sendFunc, result any) (*Cursor, error) {
	req, err := NewWireRequest(endpoint, baseURL)
	if err != nil {
		return nil, err
	}
	return executeWire(ctx, endpoint, req, send, result)
}

func executeWire(ctx context.Context, endpoint Endpoint, req *WireRequest, send sendFunc, result any) (*Cursor, error) {
	// Stop if context has been cancelled
	if err := ctx.Err(); err != nil {
		return nil, &ClientError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	// Send request, one wire call
	res, err := send(ctx, req)
	if err != nil {
		return nil, toClientError(req, err)
	}

	// Map error envelope
	if res.IsError() {
		return nil, decodeError(req, res)
	}

	// Map success envelope
	return decodeResult(envelopeKey(endpoint), res, result)
}

func awaitSend(sender AsyncSender) sendFunc {
	return func(ctx context.Context, request *WireRequest) (*WireResponse, error) {
		return sender.SendAsync(ctx, request).Await(ctx)
	}
}

func resolvePath(baseURL *url.URL, path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf(`path "%s" is not valid: %w`, path, err)
	}
	if baseURL == nil || ref.IsAbs() {
		return ref, nil
	}

	// Normalize base URL, so baseURL.ResolveReference(...) will work
	base := *baseURL
	base.Path = strings.TrimRight(base.Path, "/") + "/"
	if base.RawPath != "" {
		base.RawPath = strings.TrimRight(base.RawPath, "/") + "/"
	}
	ref.Path = strings.TrimLeft(ref.Path, "/")
	if ref.RawPath != "" {
		ref.RawPath = strings.TrimLeft(ref.RawPath, "/")
	}
	return base.ResolveReference(ref), nil
}

func toBodyError(err error) error {
	var bodyErr *BodyError
	if errors.As(err, &bodyErr) {
		return err
	}
	return &BodyError{Err: err}
}

func toClientError(req *WireRequest, err error) error {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return err
	}
	return &ClientError{Method: req.Method, URL: req.URL.String(), Err: err}
}
