package request

import (
	"context"
	"net/http"
	"net/url"
)

// WireRequest is a fully assembled HTTP request, see the Execute function.
type WireRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// WireResponse is a raw HTTP response with already read body.
type WireResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess method returns true if HTTP status `code >= 200 and <= 299` otherwise false.
func (r *WireResponse) IsSuccess() bool {
	return r.StatusCode > 199 && r.StatusCode < 300
}

// IsError method returns true if HTTP status `code >= 400` otherwise false.
func (r *WireResponse) IsError() bool {
	return r.StatusCode > 399
}

// Sender represents a blocking HTTP transport, the client.Client is a default implementation using the standard net/http package.
type Sender interface {
	// BaseURL returns the URL to which the Endpoint paths are resolved, it may be nil.
	BaseURL() *url.URL
	// Send performs the request and blocks until the response is received.
	// Only transport failures are returned as an error, the response status is not checked.
	Send(ctx context.Context, request *WireRequest) (*WireResponse, error)
}

// AsyncSender represents a non-blocking HTTP transport, the client.AsyncClient is a default implementation.
type AsyncSender interface {
	// BaseURL returns the URL to which the Endpoint paths are resolved, it may be nil.
	BaseURL() *url.URL
	// SendAsync starts the request and returns immediately.
	SendAsync(ctx context.Context, request *WireRequest) *Future[*WireResponse]
}

// Sendable is APIRequest or ParallelAPIRequests.
type Sendable interface {
	SendOrErr(ctx context.Context) error
}

// ReqDefinitionError can be used as the Sendable interface.
// So the error will be returned when you try to send the request.
// This simplifies usage, the error is checked only once, in one place.
type ReqDefinitionError struct {
	error
}

func NewReqDefinitionError(err error) Sendable {
	return ReqDefinitionError{error: err}
}

func (v ReqDefinitionError) SendOrErr(_ context.Context) error {
	return v
}

func (v ReqDefinitionError) Unwrap() error {
	return v.error
}
