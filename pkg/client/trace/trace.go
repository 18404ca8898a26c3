// Package trace extends the httptrace.ClientTrace and adds additional hooks of the request.WireRequest lifecycle.
// A custom ClientTrace definition can be registered in the client.Client by the AndTrace method.
package trace

import (
	"context"
	"net/http"
	"net/http/httptrace"
	"reflect"
	"time"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// Factory creates ClientTrace hooks for a request.
// The returned context is used for the rest of the request, nil ClientTrace means no hooks.
type Factory func(ctx context.Context, request *request.WireRequest) (context.Context, *ClientTrace)

// ClientTrace is a set of hooks to run at various stages of an outgoing request.WireRequest.
type ClientTrace struct {
	httptrace.ClientTrace // native, low level trace
	// HTTPRequestStart is called when the request begins. It includes redirects and retries.
	HTTPRequestStart func(request *http.Request)
	// HTTPRequestDone is called when the response headers are received. It includes redirects and retries.
	HTTPRequestDone func(response *http.Response, err error)
	// HTTPRequestRetry is called before retry delay.
	HTTPRequestRetry func(attempt int, delay time.Duration)
	// ResponseBodyRead is called when the raw response body is read, bytes are counted before the Content-Encoding decoding.
	ResponseBodyRead func(bytes int64, err error)
	// RequestProcessed is called when Client.Send method is done.
	RequestProcessed func(response *request.WireResponse, err error)
}

// Compose modifies t such that it respects the previously-registered hooks in old.
// Hooks of the old trace are called first.
func (t *ClientTrace) Compose(old *ClientTrace) {
	if old == nil {
		return
	}
	compose(reflect.ValueOf(t).Elem(), reflect.ValueOf(old).Elem())
}

func compose(tv, ov reflect.Value) {
	structType := tv.Type()
	for i := range structType.NumField() {
		tf := tv.Field(i)
		of := ov.Field(i)
		if !tf.CanSet() {
			continue
		}

		// Nested native trace
		if tf.Kind() == reflect.Struct {
			compose(tf, of)
			continue
		}

		hookType := tf.Type()
		if hookType.Kind() != reflect.Func || of.IsNil() {
			continue
		}
		if tf.IsNil() {
			tf.Set(of)
			continue
		}

		// Make a copy of tf for tf to call, otherwise it creates a recursive call cycle
		tfCopy := reflect.ValueOf(tf.Interface())
		ofCopy := reflect.ValueOf(of.Interface())
		tf.Set(reflect.MakeFunc(hookType, func(args []reflect.Value) []reflect.Value {
			ofCopy.Call(args)
			return tfCopy.Call(args)
		}))
	}
}
