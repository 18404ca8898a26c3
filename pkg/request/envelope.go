package request

import (
	"bytes"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// PaginationKey is the key of the Cursor in a paged response.
const PaginationKey = "pagination"

// Cursor describes one page of a paged response.
type Cursor struct {
	Offset int    `json:"offset"`
	Max    int    `json:"max"`
	Size   int    `json:"size"`
	Links  []Link `json:"links,omitempty"`
}

// IsLast returns true if there is no next page.
func (c Cursor) IsLast() bool {
	return c.Size < c.Max || c.Size == 0
}

// decodeError maps a response with `status >= 400` to the *APIError.
func decodeError(req *WireRequest, res *WireResponse) error {
	apiErr := &APIError{}
	if len(bytes.TrimSpace(res.Body)) > 0 {
		if err := json.Unmarshal(res.Body, apiErr); err != nil {
			return &DecodeError{StatusCode: res.StatusCode, Body: res.Body, Err: fmt.Errorf(`cannot decode JSON error: %w`, err)}
		}
	}
	if apiErr.Status == 0 {
		apiErr.Status = res.StatusCode
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(res.StatusCode)
	}
	apiErr.SetRequest(req)
	return apiErr
}

// decodeResult unwraps the success envelope and maps the payload to the result.
// The Cursor is returned if the envelope contains the PaginationKey.
func decodeResult(key string, res *WireResponse, result any) (*Cursor, error) {
	if res.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if _, ok := result.(*NoResult); ok {
		return nil, nil
	}

	var envelope map[string]jsoniter.RawMessage
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return nil, &DecodeError{StatusCode: res.StatusCode, Body: res.Body, Err: fmt.Errorf(`cannot decode JSON envelope: %w`, err)}
	}

	payload, found := envelope[key]
	if !found {
		return nil, &DecodeError{StatusCode: res.StatusCode, Body: res.Body, Err: fmt.Errorf(`key "%s" not found in the envelope`, key)}
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return nil, &DecodeError{StatusCode: res.StatusCode, Body: res.Body, Err: fmt.Errorf(`cannot decode JSON result: %w`, err)}
	}

	raw, found := envelope[PaginationKey]
	if !found || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	cursor := &Cursor{}
	if err := json.Unmarshal(raw, cursor); err != nil {
		return nil, &DecodeError{StatusCode: res.StatusCode, Body: res.Body, Err: fmt.Errorf(`cannot decode JSON pagination: %w`, err)}
	}
	return cursor, nil
}
