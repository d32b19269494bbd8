package lazy

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	id       string
	children Memo[[]string]
}

func newTestCache(fetch FetchFunc[*node, []string]) *Cache[*node, []string] {
	return NewCache("children", fetch,
		func(n *node) *Memo[[]string] { return &n.children },
		func(n *node) string { return n.id },
	)
}

func TestMemoWriteOnce(t *testing.T) {
	var m Memo[[]string]

	_, ok := m.Load()
	assert.False(t, ok)
	assert.False(t, m.Loaded())

	got := m.Store([]string{})
	assert.Empty(t, got)
	assert.True(t, m.Loaded())

	got = m.Store([]string{"late"})
	assert.Empty(t, got, "second store must not replace the first")

	v, ok := m.Load()
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestEnsureFetchesOnce(t *testing.T) {
	var calls atomic.Int32
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		calls.Add(1)
		return []string{"Debug", "Release"}, nil
	})
	n := &node{id: "app"}

	v, cached, err := c.Ensure(context.Background(), n)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"Debug", "Release"}, v)

	v, cached, err = c.Ensure(context.Background(), n)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, []string{"Debug", "Release"}, v)

	assert.EqualValues(t, 1, calls.Load())
	assert.EqualValues(t, 1, c.Fetches())
}

func TestEnsureCachesEmptyResult(t *testing.T) {
	var calls atomic.Int32
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		calls.Add(1)
		return []string{}, nil
	})
	n := &node{id: "empty"}

	for i := 0; i < 3; i++ {
		_, _, err := c.Ensure(context.Background(), n)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestEnsureFailureIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return []string{"Debug"}, nil
	})
	n := &node{id: "app"}

	_, _, err := c.Ensure(context.Background(), n)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, n.children.Loaded())

	v, cached, err := c.Ensure(context.Background(), n)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"Debug"}, v)
	assert.EqualValues(t, 2, calls.Load())
}

func TestEnsureCoalescesConcurrentRequests(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"Debug"}, nil
	})
	n := &node{id: "app"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.Ensure(context.Background(), n)
			assert.NoError(t, err)
			assert.Equal(t, []string{"Debug"}, v)
		}()
	}

	// Let the goroutines pile up on the flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestEnsureDoesNotCoalesceDistinctNodesWithEqualKeys(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		if calls.Add(1) == 1 {
			<-release
		}
		return []string{"Debug"}, nil
	})
	old := &node{id: "app"}
	fresh := &node{id: "app"}

	oldDone := make(chan error, 1)
	go func() {
		_, _, err := c.Ensure(context.Background(), old)
		oldDone <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	v, cached, err := c.Ensure(context.Background(), fresh)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"Debug"}, v)
	assert.True(t, fresh.children.Loaded())
	assert.False(t, old.children.Loaded(), "old node is still fetching")

	close(release)
	require.NoError(t, <-oldDone)
	assert.True(t, old.children.Loaded())
	assert.EqualValues(t, 2, c.Fetches())
}

func TestJoinedCallerSurvivesStarterCancellation(t *testing.T) {
	var calls atomic.Int32
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []string{"Debug"}, nil
	})
	n := &node{id: "app"}
	ctx, cancel := context.WithCancel(context.Background())

	starterDone := make(chan error, 1)
	go func() {
		_, _, err := c.Ensure(ctx, n)
		starterDone <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	q := NewQueue()
	var got Result[[]string]
	delivered := false
	c.EnsureAsync(context.Background(), n, q, func(r Result[[]string]) {
		got = r
		delivered = true
	})
	cancel()

	err := <-starterDone
	assert.ErrorIs(t, err, context.Canceled)

	runCtx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	require.NoError(t, q.RunUntil(runCtx, func() bool { return delivered }))
	require.NoError(t, got.Err)
	assert.Equal(t, []string{"Debug"}, got.Value)
	assert.True(t, n.children.Loaded())
}

func TestEnsureAsyncDeliversThroughDispatcher(t *testing.T) {
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		return []string{"Debug"}, nil
	})
	n := &node{id: "app"}
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var results []Result[[]string]
	c.EnsureAsync(ctx, n, q, func(r Result[[]string]) { results = append(results, r) })
	assert.Empty(t, results, "delivery must not happen before the owner drains the queue")

	require.NoError(t, q.RunOne(ctx))
	require.Len(t, results, 1)
	assert.False(t, results[0].Cached)
	assert.Equal(t, []string{"Debug"}, results[0].Value)

	c.EnsureAsync(ctx, n, q, func(r Result[[]string]) { results = append(results, r) })
	assert.Len(t, results, 1, "cached delivery is still posted")
	require.NoError(t, q.RunOne(ctx))
	require.Len(t, results, 2)
	assert.True(t, results[1].Cached)
	assert.EqualValues(t, 1, c.Fetches())
}

func TestEnsureAsyncCoalescesAndDeliversToEveryCaller(t *testing.T) {
	release := make(chan struct{})
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		<-release
		return []string{"Debug"}, nil
	})
	n := &node{id: "app"}
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	delivered := 0
	c.EnsureAsync(ctx, n, q, func(r Result[[]string]) { delivered++ })
	c.EnsureAsync(ctx, n, q, func(r Result[[]string]) { delivered++ })
	close(release)

	require.NoError(t, q.RunUntil(ctx, func() bool { return delivered == 2 }))
	assert.EqualValues(t, 1, c.Fetches())
}

func TestEnsureAsyncDeliversFailure(t *testing.T) {
	boom := errors.New("boom")
	c := newTestCache(func(ctx context.Context, n *node) ([]string, error) {
		return nil, boom
	})
	n := &node{id: "app"}
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got Result[[]string]
	c.EnsureAsync(ctx, n, q, func(r Result[[]string]) { got = r })
	require.NoError(t, q.RunOne(ctx))

	assert.ErrorIs(t, got.Err, boom)
	assert.False(t, n.children.Loaded())
}

func TestQueueRunOneHonoursContext(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := q.RunOne(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueRunsInOrder(t *testing.T) {
	q := NewQueue()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		q.Post(func() { order = append(order, i) })
	}
	assert.Equal(t, 3, q.Len())

	ctx := context.Background()
	require.NoError(t, q.RunUntil(ctx, func() bool { return len(order) == 3 }))
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, 0, q.Len())
}
