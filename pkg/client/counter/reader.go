// Package counter measures bytes transferred by a response body.
package counter

import (
	"errors"
	"io"
)

// ReadCloser wraps an io.ReadCloser to count the bytes read.
// Optionally, an OnClose callback can be registered.
type ReadCloser struct {
	wrapped io.ReadCloser
	onClose OnClose
	bytes   int64
	readErr error
	closed  bool
}

// OnClose receives the number of read bytes and the first read or close error.
type OnClose func(bytes int64, err error)

func NewReadCloser(wrapped io.ReadCloser, onClose OnClose) *ReadCloser {
	return &ReadCloser{wrapped: wrapped, onClose: onClose}
}

func (w *ReadCloser) Bytes() int64 {
	return w.bytes
}

func (w *ReadCloser) Read(b []byte) (int, error) {
	n, err := w.wrapped.Read(b)
	w.bytes += int64(n)
	if err != nil && w.readErr == nil {
		w.readErr = err
	}
	return n, err
}

// Close closes the wrapped reader, the OnClose callback is invoked only once.
func (w *ReadCloser) Close() error {
	closeErr := w.wrapped.Close()
	if w.closed {
		return closeErr
	}
	w.closed = true
	if w.onClose != nil {
		// Read error is usually more useful than the close error
		var onCloseErr error
		if w.readErr != nil && !errors.Is(w.readErr, io.EOF) {
			onCloseErr = w.readErr
		} else if closeErr != nil {
			onCloseErr = closeErr
		}
		w.onClose(w.bytes, onCloseErr)
	}
	return closeErr
}
