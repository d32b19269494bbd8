package lazy

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the children of parent from the slow source.
type FetchFunc[P, C any] func(ctx context.Context, parent P) (C, error)

// Result is what EnsureAsync delivers.
type Result[C any] struct {
	Value C
	// Cached is true when the children were already stored and no fetch ran
	// for this request.
	Cached bool
	Err    error
}

// Cache fills the Memo of each parent at most once. Concurrent requests for
// the same parent share one fetch; failed fetches are not stored so a later
// request tries again.
type Cache[P, C any] struct {
	name  string
	fetch FetchFunc[P, C]
	memo  func(P) *Memo[C]
	key   func(P) string
	log   logrus.FieldLogger

	group   singleflight.Group
	fetches atomic.Int64
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger fetches are reported to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// NewCache builds a cache for one tree level. memo returns the slot that
// holds parent's children; key names parent in logs and errors. Requests
// coalesce per memo slot, so equal keys of different nodes never share a
// fetch.
func NewCache[P, C any](name string, fetch FetchFunc[P, C], memo func(P) *Memo[C], key func(P) string, opts ...Option) *Cache[P, C] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = l
	}
	return &Cache[P, C]{
		name:  name,
		fetch: fetch,
		memo:  memo,
		key:   key,
		log:   o.log.WithField("cache", name),
	}
}

// Fetches returns how many times the source was called.
func (c *Cache[P, C]) Fetches() int64 {
	return c.fetches.Load()
}

// Ensure returns parent's children, fetching them if needed. alreadyCached is
// true when no fetch was issued or joined.
func (c *Cache[P, C]) Ensure(ctx context.Context, parent P) (children C, alreadyCached bool, err error) {
	if v, ok := c.memo(parent).Load(); ok {
		return v, true, nil
	}
	v, err := c.flight(ctx, parent)
	if err != nil {
		var zero C
		return zero, false, err
	}
	return v, false, nil
}

// EnsureAsync delivers parent's children to done through d. It never calls
// done before returning, even when the children are cached.
func (c *Cache[P, C]) EnsureAsync(ctx context.Context, parent P, d Dispatcher, done func(Result[C])) {
	if v, ok := c.memo(parent).Load(); ok {
		d.Post(func() { done(Result[C]{Value: v, Cached: true}) })
		return
	}
	ch := c.start(ctx, parent)
	go func() {
		v, err := c.wait(ctx, parent, ch)
		d.Post(func() { done(Result[C]{Value: v, Err: err}) })
	}()
}

// flightKey identifies parent's slot. The key alone is not enough: a reload
// builds new nodes with the same IDs while flights for the old ones may
// still be running.
func (c *Cache[P, C]) flightKey(parent P) string {
	return fmt.Sprintf("%s@%p", c.key(parent), c.memo(parent))
}

func (c *Cache[P, C]) start(ctx context.Context, parent P) <-chan singleflight.Result {
	return c.group.DoChan(c.flightKey(parent), func() (any, error) {
		return c.load(ctx, parent)
	})
}

func (c *Cache[P, C]) flight(ctx context.Context, parent P) (C, error) {
	return c.wait(ctx, parent, c.start(ctx, parent))
}

// wait returns the result of ch. A joined flight runs with the context of
// the caller that started it; when that context ends while ctx is still
// live, the fetch is issued again under ctx.
func (c *Cache[P, C]) wait(ctx context.Context, parent P, ch <-chan singleflight.Result) (C, error) {
	for {
		r := <-ch
		if r.Err == nil {
			return r.Val.(C), nil
		}
		var cancelled *cancelledError
		if errors.As(r.Err, &cancelled) {
			if ctx.Err() == nil {
				ch = c.start(ctx, parent)
				continue
			}
			r.Err = cancelled.err
		}
		var zero C
		return zero, r.Err
	}
}

// cancelledError marks a fetch that failed because the context of the
// flight's starter ended.
type cancelledError struct {
	err error
}

func (e *cancelledError) Error() string { return e.err.Error() }
func (e *cancelledError) Unwrap() error { return e.err }

// load runs inside the flight. The memo is checked again so a request that
// raced with a just-finished flight does not fetch a second time.
func (c *Cache[P, C]) load(ctx context.Context, parent P) (C, error) {
	m := c.memo(parent)
	if v, ok := m.Load(); ok {
		return v, nil
	}

	key := c.key(parent)
	c.fetches.Add(1)
	c.log.WithField("key", key).Debug("fetching")

	v, err := c.fetch(ctx, parent)
	if err != nil {
		c.log.WithField("key", key).WithError(err).Warn("fetch failed")
		var zero C
		err = errors.Wrapf(err, "%s %s", c.name, key)
		if ctx.Err() != nil {
			return zero, &cancelledError{err: err}
		}
		return zero, err
	}
	return m.Store(v), nil
}
