package request

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"
)

// WaitGroupConcurrencyLimit is the default number of requests a WaitGroup sends at once.
const WaitGroupConcurrencyLimit = 8

// ParallelAPIRequests is a Sendable, all requests are sent at once by a WaitGroup.
type ParallelAPIRequests []Sendable

func Parallel(requests ...Sendable) ParallelAPIRequests {
	return requests
}

func (v ParallelAPIRequests) SendOrErr(ctx context.Context) error {
	group := NewWaitGroup(ctx)
	for _, request := range v {
		group.Send(request)
	}
	return group.Wait()
}

// WaitGroup sends each request as soon as the Send method is called.
// A failed request does not stop the others, the Wait method returns all errors.
//
// Use RunGroup to schedule requests first and to stop at the first error.
type WaitGroup struct {
	ctx      context.Context
	inFlight sync.WaitGroup
	limit    *semaphore.Weighted

	errorsLock sync.Mutex
	errors     *multierror.Error
}

func NewWaitGroup(ctx context.Context) *WaitGroup {
	return NewWaitGroupWithLimit(ctx, WaitGroupConcurrencyLimit)
}

func NewWaitGroupWithLimit(ctx context.Context, limit int64) *WaitGroup {
	return &WaitGroup{ctx: ctx, limit: semaphore.NewWeighted(limit)}
}

// Send starts the request in a new goroutine.
func (g *WaitGroup) Send(request Sendable) {
	g.inFlight.Add(1)
	go func() {
		defer g.inFlight.Done()
		g.appendError(g.send(request))
	}()
}

// Wait blocks until all requests, including those sent from callbacks, are done.
// A single error is returned as is, more errors are wrapped by a multierror.
func (g *WaitGroup) Wait() error {
	g.inFlight.Wait()
	g.errorsLock.Lock()
	defer g.errorsLock.Unlock()
	if g.errors != nil && len(g.errors.Errors) == 1 {
		return g.errors.Errors[0]
	}
	return g.errors.ErrorOrNil()
}

func (g *WaitGroup) send(request Sendable) error {
	if err := g.limit.Acquire(g.ctx, 1); err != nil {
		return err
	}
	defer g.limit.Release(1)
	return request.SendOrErr(g.ctx)
}

func (g *WaitGroup) appendError(err error) {
	if err == nil {
		return
	}
	g.errorsLock.Lock()
	defer g.errorsLock.Unlock()
	g.errors = multierror.Append(g.errors, err)
}
