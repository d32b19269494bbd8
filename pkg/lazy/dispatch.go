package lazy

import (
	"context"
	"sync"
)

// Dispatcher runs fn on the goroutine that owns the UI state.
// Post must not block waiting for fn to run.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function, such as a wrapper around gocui's
// Update, to a Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) { f(fn) }

// Queue is an unbounded Dispatcher drained explicitly by its owner, used
// where no UI main loop exists (the CLI and tests).
type Queue struct {
	mu    sync.Mutex
	fns   []func()
	ready chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post appends fn and wakes a waiting RunOne.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Len returns the number of posted functions not yet run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

func (q *Queue) pop() func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.fns) == 0 {
		return nil
	}
	fn := q.fns[0]
	q.fns = q.fns[1:]
	return fn
}

// RunOne waits for one posted function and runs it on the calling goroutine.
func (q *Queue) RunOne(ctx context.Context) error {
	for {
		if fn := q.pop(); fn != nil {
			fn()
			return nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunUntil runs posted functions until done reports true.
func (q *Queue) RunUntil(ctx context.Context, done func() bool) error {
	for !done() {
		if err := q.RunOne(ctx); err != nil {
			return err
		}
	}
	return nil
}
