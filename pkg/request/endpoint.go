package request

import (
	"net/http"
)

// DefaultEnvelopeKey is the key wrapping the payload of each successful response.
const DefaultEnvelopeKey = "data"

// ContentTypeJSON is the content type of JSON request bodies.
const ContentTypeJSON = "application/json"

// Endpoint describes one API call.
// Implementations must be immutable, the methods are evaluated lazily when the request is sent.
type Endpoint interface {
	// Method returns HTTP method, for example http.MethodGet.
	Method() string
	// Path returns the resource path relative to the base URL of the Sender.
	Path() string
	// QueryParams returns URL encoded query string, or an empty string if no parameters apply.
	// The error should be a *BodyError.
	QueryParams() (string, error)
	// Body returns the request body, or nil if the request has no body.
	// The error should be a *BodyError.
	Body() (*Body, error)
}

// Pageable marks an Endpoint whose result is one page of a larger collection.
// See the Paginate function.
type Pageable interface {
	Paginated()
}

// EnvelopeKeyer can be implemented by an Endpoint to override the DefaultEnvelopeKey.
type EnvelopeKeyer interface {
	EnvelopeKey() string
}

// Body of a request.
type Body struct {
	ContentType string
	Data        []byte
}

// JSONBody encodes the value to a JSON Body.
func JSONBody(v any) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &BodyError{Err: err}
	}
	return &Body{ContentType: ContentTypeJSON, Data: data}, nil
}

// Get can be embedded to an Endpoint without query parameters and body.
// The embedding type must provide the Path method.
type Get struct{}

func (Get) Method() string {
	return http.MethodGet
}

func (Get) QueryParams() (string, error) {
	return "", nil
}

func (Get) Body() (*Body, error) {
	return nil, nil
}

func envelopeKey(endpoint Endpoint) string {
	if v, ok := endpoint.(EnvelopeKeyer); ok {
		if key := v.EnvelopeKey(); key != "" {
			return key
		}
	}
	return DefaultEnvelopeKey
}
