package querycache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type permanentErr struct{}

func (permanentErr) Error() string   { return "bad request" }
func (permanentErr) Permanent() bool { return true }

func TestNewKey_CanonicalParams(t *testing.T) {
	a := NewKey("leave-requests", url.Values{"status": {"pending"}, "page": {"1"}})
	b := NewKey("leave-requests", url.Values{"page": {"1"}, "status": {"pending"}})

	assert.Equal(t, a, b)
	assert.Equal(t, "leave-requests?page=1&status=pending", a.String())
	assert.Equal(t, "leave-types", NewKey("leave-types", nil).String())
}

func TestFetch_CachesFreshValue(t *testing.T) {
	c := New(WithRetries(0, 0))
	key := NewKey("leave-types", nil)
	var calls int32

	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"Annual"}, nil
	}

	v1, err := c.Fetch(context.Background(), key, []string{"leave-types"}, fetch)
	require.NoError(t, err)
	v2, err := c.Fetch(context.Background(), key, []string{"leave-types"}, fetch)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_RefetchesAfterStaleWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := New(WithStaleAfter(time.Minute), WithRetries(0, 0), WithClock(func() time.Time { return now }))
	key := NewKey("leave-types", nil)
	var calls int32
	fetch := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	_, err := c.Fetch(context.Background(), key, nil, fetch)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	v, err := c.Fetch(context.Background(), key, nil, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestFetch_CollapsesConcurrentLoads(t *testing.T) {
	c := New(WithRetries(0, 0))
	key := NewKey("holidays", url.Values{"year": {"2025"}})
	var calls int32
	release := make(chan struct{})

	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "holidays", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key, nil, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "holidays", r)
	}
}

func TestFetch_RetriesTransientErrors(t *testing.T) {
	c := New(WithRetries(3, time.Millisecond))
	key := NewKey("balances", nil)
	var calls int32

	v, err := c.Fetch(context.Background(), key, nil, func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("connection reset")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetch_GivesUpAfterRetries(t *testing.T) {
	c := New(WithRetries(2, time.Millisecond))
	key := NewKey("balances", nil)
	var calls int32

	_, err := c.Fetch(context.Background(), key, nil, func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	_, _, ok := c.Peek(key)
	assert.False(t, ok)
}

func TestFetch_DoesNotRetryPermanentErrors(t *testing.T) {
	c := New(WithRetries(3, time.Millisecond))
	var calls int32

	_, err := c.Fetch(context.Background(), NewKey("x", nil), nil, func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, permanentErr{}
	})

	assert.ErrorIs(t, err, permanentErr{})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestInvalidate_MarksStaleAndNotifies(t *testing.T) {
	c := New(WithRetries(0, 0))
	listKey := NewKey("leave-requests", url.Values{"status": {"pending"}})
	typesKey := NewKey("leave-types", nil)
	c.Set(listKey, "list", "leave-requests", "leave-pending")
	c.Set(typesKey, "types", "leave-types")

	events, cleanup := c.Subscribe("leave-pending")
	defer cleanup()

	c.Invalidate("leave-pending")

	_, fresh, ok := c.Peek(listKey)
	require.True(t, ok)
	assert.False(t, fresh)
	_, fresh, _ = c.Peek(typesKey)
	assert.True(t, fresh)

	select {
	case ev := <-events:
		assert.Equal(t, "leave-pending", ev.Tag)
		assert.Equal(t, []Key{listKey}, ev.Keys)
	case <-time.After(time.Second):
		t.Fatal("expected invalidation event")
	}

	v, err := c.Fetch(context.Background(), listKey, []string{"leave-requests"}, func(ctx context.Context) (any, error) {
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "refetched", v)
}

func TestSubscribe_CleanupIsIdempotent(t *testing.T) {
	c := New()
	_, cleanup := c.Subscribe("timesheets")
	cleanup()
	cleanup()

	c.Invalidate("timesheets")
}

func TestUpdate(t *testing.T) {
	c := New()
	key := NewKey("leave-request", url.Values{"id": {"1"}})

	assert.False(t, c.Update(key, func(v any) any { return v }))

	c.Set(key, "pending", "leave-requests")
	assert.True(t, c.Update(key, func(v any) any { return "approved" }))

	v, fresh, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, "approved", v)
}

func TestQuery_Typed(t *testing.T) {
	c := New(WithRetries(0, 0))
	key := NewKey("count", nil)

	n, err := Query(context.Background(), c, key, nil, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = Query(context.Background(), c, key, nil, func(ctx context.Context) (string, error) {
		return "unused", nil
	})
	assert.Error(t, err)
}

func TestFetch_InvalidationDuringLoadLeavesEntryStale(t *testing.T) {
	c := New(WithRetries(0, 0))
	key := NewKey("leave-requests/mine", nil)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any)
	go func() {
		v, _ := c.Fetch(context.Background(), key, []string{"leave-requests"}, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "before approve", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate("leave-requests")

	var calls int32
	v, err := c.Fetch(context.Background(), key, []string{"leave-requests"}, func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "after approve", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after approve", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	close(release)
	assert.Equal(t, "before approve", <-done)

	value, fresh, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, "after approve", value)
}

func TestFetch_LoadFinishingAfterInvalidationIsStale(t *testing.T) {
	c := New(WithRetries(0, 0))
	key := NewKey("leave-requests/mine", nil)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error)
	go func() {
		_, err := c.Fetch(context.Background(), key, []string{"leave-requests"}, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "before approve", nil
		})
		done <- err
	}()

	<-started
	c.Invalidate("leave-requests")
	close(release)
	require.NoError(t, <-done)

	value, fresh, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, "before approve", value)
	assert.False(t, fresh)
}

func TestFetch_CallerCancellationDoesNotFailSharedLoad(t *testing.T) {
	c := New(WithRetries(0, 0))
	key := NewKey("holidays", nil)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	loader := func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return "holidays", nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error)
	go func() {
		_, err := c.Fetch(ctxA, key, nil, loader)
		errA <- err
	}()
	<-started

	type result struct {
		v   any
		err error
	}
	resB := make(chan result)
	go func() {
		v, err := c.Fetch(context.Background(), key, nil, loader)
		resB <- result{v, err}
	}()

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	r := <-resB
	require.NoError(t, r.err)
	assert.Equal(t, "holidays", r.v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
