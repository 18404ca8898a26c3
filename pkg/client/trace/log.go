package trace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"
	"time"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// LogTracer writes one line for each stage of a request.
// Lines of the same request share the HTTP_REQUEST[<id>] prefix.
func LogTracer(wr io.Writer) Factory {
	var lastID atomic.Uint64
	return func(ctx context.Context, reqDef *request.WireRequest) (context.Context, *ClientTrace) {
		l := &logTrace{wr: wr, id: lastID.Add(1), method: reqDef.Method, url: reqDef.URL.String()}
		return ctx, &ClientTrace{
			ClientTrace: httptrace.ClientTrace{
				ConnectStart: l.connectStart,
				GotConn:      l.gotConn,
			},
			HTTPRequestStart: l.httpRequestStart,
			HTTPRequestDone:  l.httpRequestDone,
			HTTPRequestRetry: l.httpRequestRetry,
			RequestProcessed: l.requestProcessed,
		}
	}
}

type logTrace struct {
	wr     io.Writer
	id     uint64
	method string
	url    string

	connectTime time.Time
	startTime   time.Time
	doneTime    time.Time
	statusCode  int
}

func (l *logTrace) connectStart(_, _ string) {
	l.connectTime = time.Now()
}

func (l *logTrace) gotConn(info httptrace.GotConnInfo) {
	switch {
	case info.Reused && info.WasIdle:
		l.printf(`CONN  %s "%s" | reused conn (was idle=%s)`, l.method, l.url, info.IdleTime)
	case info.Reused:
		l.printf(`CONN  %s "%s" | reused conn`, l.method, l.url)
	default:
		l.printf(`CONN  %s "%s" | new conn | %s`, l.method, l.url, time.Since(l.connectTime))
	}
}

func (l *logTrace) httpRequestStart(req *http.Request) {
	l.url = req.URL.String()
	l.startTime = time.Now()
	l.printf(`START %s "%s"`, l.method, l.url)
}

func (l *logTrace) httpRequestDone(res *http.Response, err error) {
	l.doneTime = time.Now()
	if err == nil {
		l.statusCode = res.StatusCode
	}
	l.printf(`DONE  %s "%s" | %d | %s%s`, l.method, l.url, l.statusCode, l.doneTime.Sub(l.startTime), errorSuffix(err))
}

func (l *logTrace) httpRequestRetry(attempt int, delay time.Duration) {
	l.printf(`RETRY %s "%s" | %dx | %s`, l.method, l.url, attempt, delay)
}

func (l *logTrace) requestProcessed(_ *request.WireResponse, err error) {
	l.printf(`BODY  %s "%s" | %s%s`, l.method, l.url, time.Since(l.doneTime), errorSuffix(err))
}

func (l *logTrace) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(l.wr, "HTTP_REQUEST[%04d] %s\n", l.id, fmt.Sprintf(format, a...))
}

func errorSuffix(err error) string {
	if err == nil {
		return ""
	}
	return " | error=" + err.Error()
}
