// Package decode unwraps the Content-Encoding of a response body.
package decode

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// Decode wraps the body by a decompressing reader, according to the Content-Encoding header.
// Unknown encodings are returned unchanged.
func Decode(body io.ReadCloser, contentEncoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip", "x-gzip":
		v, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("cannot decode gzip: %w", err)
		}
		return v, nil
	case "br":
		return io.NopCloser(brotli.NewReader(body)), nil
	case "deflate":
		return flate.NewReader(body), nil
	default:
		return body, nil
	}
}
