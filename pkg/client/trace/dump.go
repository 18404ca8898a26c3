package trace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

const (
	dumpTraceMaxLength = 2000
	dumpTraceFullEnv   = "HTTP_DUMP_TRACE_FULL"
)

// DumpTracer writes the last HTTP request and the response of each request to the writer.
// The output is not redacted, it contains the X-API-Key header. Do not use it in production!
func DumpTracer(wr io.Writer) Factory {
	lock := &sync.Mutex{}
	return func(ctx context.Context, reqDef *request.WireRequest) (context.Context, *ClientTrace) {
		d := &dumpTrace{wr: wr, lock: lock, reqDef: reqDef}
		return ctx, &ClientTrace{
			HTTPRequestStart: d.httpRequestStart,
			HTTPRequestDone:  d.httpRequestDone,
			HTTPRequestRetry: d.httpRequestRetry,
			RequestProcessed: d.requestProcessed,
		}
	}
}

type dumpTrace struct {
	wr     io.Writer
	lock   *sync.Mutex // shared by all requests, so the dumps do not interleave
	reqDef *request.WireRequest

	attempts    int
	statusCode  int
	requestDump []byte
	startTime   time.Time
	headersTime time.Time
}

func (d *dumpTrace) httpRequestStart(req *http.Request) {
	d.attempts++
	if d.startTime.IsZero() {
		d.startTime = time.Now()
	}
	d.requestDump, _ = httputil.DumpRequestOut(req, true)
}

func (d *dumpTrace) httpRequestDone(res *http.Response, _ error) {
	// The response is nil on a network error
	if res != nil {
		d.statusCode = res.StatusCode
		d.headersTime = time.Now()
	}
}

func (d *dumpTrace) httpRequestRetry(attempt int, delay time.Duration) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.println()
	d.println(">>>>>> HTTP RETRY", "| ATTEMPT:", attempt, "| DELAY:", delay, "|", d.reqDef.Method, d.reqDef.URL.RequestURI(), d.statusCode)
}

func (d *dumpTrace) requestProcessed(res *request.WireResponse, err error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.println()
	d.println(">>>>>> HTTP DUMP")
	d.dump(string(d.requestDump))
	d.println("------")
	if err != nil {
		d.println("ERROR:", err)
	} else {
		d.println(fmt.Sprintf("HTTP %d %s", res.StatusCode, http.StatusText(res.StatusCode)))
		if len(res.Header) > 0 {
			var header strings.Builder
			_ = res.Header.Write(&header)
			d.dump(header.String())
		}
		d.println("------")
		d.dump(string(res.Body))
	}
	d.println("<<<<<< HTTP DUMP END", "| ATTEMPTS:", d.attempts, "| HEADERS AT:", d.headersTime.Sub(d.startTime), "| DONE AT:", time.Since(d.startTime))
}

// dump writes the text, it is truncated unless the HTTP_DUMP_TRACE_FULL env is "true".
func (d *dumpTrace) dump(text string) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if len(text) <= dumpTraceMaxLength || os.Getenv(dumpTraceFullEnv) == "true" { //nolint:forbidigo
		d.println(text)
		return
	}
	d.println(text[:dumpTraceMaxLength])
	d.println("... (set env " + dumpTraceFullEnv + "=true to see full output)")
}

func (d *dumpTrace) println(a ...any) {
	_, _ = fmt.Fprintln(d.wr, a...)
}
