package request

import (
	"fmt"
	"net/http"
)

// ClientError is a transport-level failure: connection, timeout, TLS, DNS or a canceled context.
// The request has not produced any HTTP response.
type ClientError struct {
	Method string
	URL    string
	Err    error
}

func (e *ClientError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf(`request failed: %s`, e.Err)
	}
	return fmt.Sprintf(`request %s "%s" failed: %s`, e.Method, e.URL, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// BodyError is returned if an Endpoint cannot be encoded to a query string or to a request body.
// It indicates a bug in the Endpoint definition, not a runtime condition.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf(`cannot encode request: %s`, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// APIError represents the structure of the API error envelope.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Links   []Link `json:"links,omitempty"`
	request *WireRequest
}

func (e *APIError) Error() string {
	if e.request == nil {
		return fmt.Sprintf(`%s, status: "%d"`, e.Message, e.Status)
	}
	return fmt.Sprintf(`%s, method: "%s", url: "%s", status: "%d"`, e.Message, e.request.Method, e.request.URL, e.Status)
}

// StatusCode returns the status reported by the API.
func (e *APIError) StatusCode() int {
	return e.Status
}

// SetRequest method allows injection of the request to the error.
func (e *APIError) SetRequest(request *WireRequest) {
	e.request = request
}

// IsNotFound returns true if the API reported a missing resource.
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// DecodeError is returned if a response doesn't match the expected shape.
// Body contains the raw response for diagnosis.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(`cannot decode response, status: "%d": %s`, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Link is a reference to a related resource.
type Link struct {
	Rel string `json:"rel,omitempty"`
	URI string `json:"uri"`
}
