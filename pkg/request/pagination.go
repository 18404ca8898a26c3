package request

import (
	"context"
	"iter"
	"net/url"
	"strconv"
)

const (
	// OffsetParam is the query parameter of the first item in a page.
	OffsetParam = "offset"
	// MaxParam is the query parameter of the page size.
	MaxParam = "max"
)

// PageableEndpoint is an Endpoint implementing the Pageable marker.
type PageableEndpoint interface {
	Endpoint
	Pageable
}

// PageOption configures the Pager.
type PageOption func(c *pageConfig)

type pageConfig struct {
	startOffset int
	pageSize    int
	limit       int
}

// WithPageSize overrides the page size chosen by the server.
func WithPageSize(v int) PageOption {
	return func(c *pageConfig) {
		c.pageSize = v
	}
}

// WithStartOffset sets offset of the first page, default is 0.
func WithStartOffset(v int) PageOption {
	return func(c *pageConfig) {
		c.startOffset = v
	}
}

// WithLimit stops the iteration after the number of items.
func WithLimit(v int) PageOption {
	return func(c *pageConfig) {
		c.limit = v
	}
}

// Pager iterates items of a paged collection.
//
// Pages are fetched lazily, when the Next method needs a new item, in increasing offset order.
// The Pager is forward-only, once exhausted it cannot be restarted.
// To start over, create a new Pager from the same Endpoint.
type Pager[T any] struct {
	endpoint Endpoint
	baseURL  *url.URL
	send     sendFunc
	config   pageConfig
	offset   int
	buffer   []T
	item     T
	yielded  int
	fetches  int
	done     bool
	err      error
}

// Paginate creates a Pager over items of the Pageable Endpoint, sent by the blocking Sender.
// Each page fetch blocks the caller.
func Paginate[T any, E PageableEndpoint](endpoint E, sender Sender, opts ...PageOption) *Pager[T] {
	return newPager[T](endpoint, sender.BaseURL(), sender.Send, opts)
}

// PaginateAsync creates a Pager over items of the Pageable Endpoint, sent by the non-blocking AsyncSender.
// Each page fetch is awaited, cancellation of the context passed to the Next method aborts the in-flight request.
func PaginateAsync[T any, E PageableEndpoint](endpoint E, sender AsyncSender, opts ...PageOption) *Pager[T] {
	return newPager[T](endpoint, sender.BaseURL(), awaitSend(sender), opts)
}

func newPager[T any](endpoint Endpoint, baseURL *url.URL, send sendFunc, opts []PageOption) *Pager[T] {
	cfg := pageConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	return &Pager[T]{endpoint: endpoint, baseURL: baseURL, send: send, config: cfg, offset: cfg.startOffset}
}

// Next advances the Pager to the next item, it returns false at the end or on an error, see the Err method.
// A new page is fetched only if all items of the previous page have been consumed.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.config.limit > 0 && p.yielded >= p.config.limit {
		p.done = true
		p.buffer = nil
		return false
	}
	for len(p.buffer) == 0 {
		if p.done {
			p.buffer = nil
			return false
		}
		if err := p.fetch(ctx); err != nil {
			p.err = err
			p.done = true
			return false
		}
	}
	p.item, p.buffer = p.buffer[0], p.buffer[1:]
	p.yielded++
	return true
}

// Item returns the current item.
func (p *Pager[T]) Item() T {
	return p.item
}

// Err returns the error which stopped the iteration, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// Fetches returns number of fetched pages.
func (p *Pager[T]) Fetches() int {
	return p.fetches
}

// All returns the remaining items as an iterator.
// The error, if any, is yielded as the last element.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for p.Next(ctx) {
			if !yield(p.Item(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			var empty T
			yield(empty, err)
		}
	}
}

// Collect reads all remaining items.
func (p *Pager[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for p.Next(ctx) {
		out = append(out, p.Item())
	}
	return out, p.Err()
}

func (p *Pager[T]) fetch(ctx context.Context) error {
	// Update page parameters
	query, err := p.endpoint.QueryParams()
	if err != nil {
		return toBodyError(err)
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return &BodyError{Err: err}
	}
	values.Set(OffsetParam, strconv.Itoa(p.offset))
	if p.config.pageSize > 0 {
		values.Set(MaxParam, strconv.Itoa(p.config.pageSize))
	}

	req, err := newWireRequest(p.endpoint, p.baseURL, values.Encode())
	if err != nil {
		return err
	}

	var items []T
	p.fetches++
	cursor, err := executeWire(ctx, p.endpoint, req, p.send, &items)
	if err != nil {
		return err
	}

	p.buffer = items
	p.offset += len(items)
	if len(items) == 0 || cursor == nil || cursor.IsLast() {
		p.done = true
	}
	return nil
}
