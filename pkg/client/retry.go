package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	RequestTimeout     = 30 * time.Second
	RetriesCount       = 5
	RetryWaitTimeStart = 100 * time.Millisecond
	RetryWaitTimeMax   = 3 * time.Second
)

// StatusEnhanceYourCalm is returned by the speedrun.com API when the rate limit is exceeded.
const StatusEnhanceYourCalm = 420

// retryableStatuses are retried by the DefaultRetryCondition.
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusConflict:            true,
	http.StatusLocked:              true,
	StatusEnhanceYourCalm:          true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type retryAttemptCtxKey struct{}

// RetryConfig of the Client.
// TotalRequestTimeout limits all attempts of one request, including the delays.
type RetryConfig struct {
	Condition           RetryCondition
	Count               int
	TotalRequestTimeout time.Duration
	WaitTimeStart       time.Duration
	WaitTimeMax         time.Duration
}

// RetryCondition reports whether the attempt should be repeated.
type RetryCondition func(*http.Response, error) bool

// NoRetry is used by a new Client, each request is sent exactly once.
func NoRetry() RetryConfig {
	return RetryConfig{TotalRequestTimeout: RequestTimeout}
}

// DefaultRetry is suitable for idempotent requests of a long-running process.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		Condition:           DefaultRetryCondition(),
		Count:               RetriesCount,
		TotalRequestTimeout: RequestTimeout,
		WaitTimeStart:       RetryWaitTimeStart,
		WaitTimeMax:         RetryWaitTimeMax,
	}
}

// TestingRetry is the DefaultRetry without delays.
func TestingRetry() RetryConfig {
	cfg := DefaultRetry()
	cfg.WaitTimeStart = time.Millisecond
	cfg.WaitTimeMax = time.Millisecond
	return cfg
}

// DefaultRetryCondition retries network errors, except an unknown host, and the retryableStatuses.
func DefaultRetryCondition() RetryCondition {
	return func(res *http.Response, err error) bool {
		if res != nil && res.StatusCode != 0 {
			return retryableStatuses[res.StatusCode]
		}
		return err != nil && !isUnknownHost(err)
	}
}

func isUnknownHost(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "no such host") || strings.Contains(msg, "No address associated with hostname")
}

// ContextRetryAttempt returns the attempt number stored in the context of each *http.Request, 0 is the first attempt.
func ContextRetryAttempt(ctx context.Context) (int, bool) {
	attempt, ok := ctx.Value(retryAttemptCtxKey{}).(int)
	return attempt, ok
}

// NewBackoff returns an exponential backoff without jitter, the delay is doubled up to the WaitTimeMax.
func (c RetryConfig) NewBackoff() backoff.BackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.WaitTimeStart),
		backoff.WithMaxInterval(c.WaitTimeMax),
		backoff.WithMaxElapsedTime(c.TotalRequestTimeout),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
	)
}

func (c RetryConfig) shouldRetry(attempt int, res *http.Response, err error) bool {
	return c.Condition != nil && attempt < c.Count && c.Condition(res, err)
}
