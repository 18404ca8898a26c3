package client

import (
	"context"
	"net/url"

	"golang.org/x/sync/semaphore"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// DefaultConcurrencyLimit is the default maximum number of in-flight requests of an AsyncClient.
const DefaultConcurrencyLimit = 16

// AsyncClient is a non-blocking implementation of the request.AsyncSender interface.
// Each request is sent by the wrapped Client in a new goroutine.
// The number of in-flight requests is limited, the other requests wait for a free slot.
type AsyncClient struct {
	client Client
	sem    *semaphore.Weighted
}

// NewAsync creates new non-blocking client, which sends requests by the Client.
func NewAsync(c Client) AsyncClient {
	return AsyncClient{client: c, sem: semaphore.NewWeighted(DefaultConcurrencyLimit)}
}

// WithConcurrencyLimit returns a clone of the AsyncClient with a new limit of in-flight requests.
// The clone does not share the limit with the original AsyncClient.
func (c AsyncClient) WithConcurrencyLimit(limit int64) AsyncClient {
	if limit < 1 {
		limit = 1
	}
	c.sem = semaphore.NewWeighted(limit)
	return c
}

// Client returns the wrapped blocking Client.
func (c AsyncClient) Client() Client {
	return c.client
}

// BaseURL returns the base URL, it implements the request.AsyncSender interface.
func (c AsyncClient) BaseURL() *url.URL {
	return c.client.BaseURL()
}

// SendAsync starts the request and returns immediately, it implements the request.AsyncSender interface.
// Cancel the context to abort the request, even if it is still waiting for a free slot.
func (c AsyncClient) SendAsync(ctx context.Context, reqDef *request.WireRequest) *request.Future[*request.WireResponse] {
	if c.sem == nil {
		panic("async client value is not initialized")
	}
	return request.NewFuture(ctx, func(ctx context.Context) (*request.WireResponse, error) {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, &request.ClientError{Method: reqDef.Method, URL: reqDef.URL.String(), Err: err}
		}
		defer c.sem.Release(1)
		return c.client.Send(ctx, reqDef)
	})
}
