package request

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// RunGroupConcurrencyLimit is the default number of requests a RunGroup sends at once.
const RunGroupConcurrencyLimit = 32

// RunGroup collects requests by the Add method, nothing is sent before RunAndWait is called.
// The group fails fast: the first error cancels the remaining requests and it is returned by RunAndWait.
//
// Use WaitGroup to send requests immediately and to collect all errors.
type RunGroup struct {
	ctx     context.Context
	group   *errgroup.Group
	limit   *semaphore.Weighted
	started chan struct{}
}

func NewRunGroup(ctx context.Context) *RunGroup {
	return RunGroupWithLimit(ctx, RunGroupConcurrencyLimit)
}

func RunGroupWithLimit(ctx context.Context, limit int64) *RunGroup {
	g := &RunGroup{limit: semaphore.NewWeighted(limit), started: make(chan struct{})}
	g.group, g.ctx = errgroup.WithContext(ctx)
	return g
}

// Add schedules the request.
// It may be called from a callback of another request, while RunAndWait is in progress.
func (g *RunGroup) Add(request Sendable) {
	g.group.Go(func() error {
		if err := g.waitForStart(); err != nil {
			return err
		}
		if err := g.limit.Acquire(g.ctx, 1); err != nil {
			return err
		}
		defer g.limit.Release(1)
		return request.SendOrErr(g.ctx)
	})
}

// RunAndWait sends all scheduled requests and blocks until they are done or the first one fails.
func (g *RunGroup) RunAndWait() error {
	close(g.started)
	return g.group.Wait()
}

func (g *RunGroup) waitForStart() error {
	select {
	case <-g.started:
		return nil
	case <-g.ctx.Done():
		return g.ctx.Err()
	}
}
