package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/speedrun-go/speedrun-client/pkg/client/trace"
)

// roundTripper sends the attempts of one request, each attempt is reported to the trace hooks.
type roundTripper struct {
	trace   *trace.ClientTrace
	retry   RetryConfig
	limiter *rate.Limiter
	wrapped http.RoundTripper
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	delays := rt.retry.NewBackoff()
	for attempt := 0; ; attempt++ {
		req = req.WithContext(context.WithValue(req.Context(), retryAttemptCtxKey{}, attempt))
		res, err := rt.send(req)
		if !rt.retry.shouldRetry(attempt, res, err) {
			return res, err
		}

		delay := delays.NextBackOff()
		if delay == backoff.Stop {
			return res, err
		}
		drain(res)
		rt.onRetry(attempt+1, delay)

		if req.GetBody != nil {
			if req.Body, err = req.GetBody(); err != nil {
				return nil, fmt.Errorf("cannot rewind body: %w", err)
			}
		}
		if err := sleep(req.Context(), delay); err != nil {
			return nil, err
		}
	}
}

func (rt roundTripper) send(req *http.Request) (*http.Response, error) {
	if rt.limiter != nil {
		if err := rt.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if rt.trace != nil && rt.trace.HTTPRequestStart != nil {
		rt.trace.HTTPRequestStart(req)
	}
	res, err := rt.wrapped.RoundTrip(req)
	if rt.trace != nil && rt.trace.HTTPRequestDone != nil {
		rt.trace.HTTPRequestDone(res, err)
	}
	return res, err
}

func (rt roundTripper) onRetry(attempt int, delay time.Duration) {
	if rt.trace != nil && rt.trace.HTTPRequestRetry != nil {
		rt.trace.HTTPRequestRetry(attempt, delay)
	}
}

// drain discards the response of a failed attempt, so the connection can be reused.
func drain(res *http.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
