package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/pkg/document"
)

var (
	detailKey = document.Key(document.KindOutboundShipment, "store-1", "inv-42")
	listKey   = document.ListKey(document.KindOutboundShipment, "store-1", "sort=comment:asc")
	otherKey  = document.Key(document.KindStocktake, "store-1", "st-1")
)

func TestFetchCaches(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	var calls int32
	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Fetch(context.Background(), detailKey, fetch)
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	}
	assert.Equal(t, int32(1), calls)
	assert.False(t, c.State(detailKey).FetchedAt.IsZero())
}

func TestFetchDeduplicatesConcurrentCallers(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	release := make(chan struct{})
	var calls int32
	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 1, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Fetch(context.Background(), detailKey, fetch)
		}()
	}
	assert.Eventually(t, func() bool { return c.State(detailKey).IsLoading }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	assert.False(t, c.State(detailKey).IsLoading)
}

func TestFetchErrorIsNotCached(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	boom := errors.New("boom")

	_, err := c.Fetch(context.Background(), detailKey, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, c.State(detailKey).Err, boom)

	v, err := c.Fetch(context.Background(), detailKey, func(context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.NoError(t, c.State(detailKey).Err)
}

func TestInvalidateByPrefix(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	c.Set(detailKey, 1)
	c.Set(listKey, 2)
	c.Set(otherKey, 3)

	c.Invalidate(document.BaseKey(document.KindOutboundShipment, "store-1"))

	_, ok := c.Get(detailKey)
	assert.False(t, ok)
	_, ok = c.Get(listKey)
	assert.False(t, ok)
	v, ok := c.Get(otherKey)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestInvalidateDuringFetchSkipsCaching(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan int)
	go func() {
		v, _ := c.Fetch(context.Background(), detailKey, func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- v
	}()

	<-started
	c.Invalidate(document.BaseKey(document.KindOutboundShipment, "store-1"))
	close(release)
	assert.Equal(t, 1, <-done)

	_, ok := c.Get(detailKey)
	assert.False(t, ok)
}

func TestFetchHonoursContext(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)

	cancel()
	_, err := c.Fetch(ctx, detailKey, func(context.Context) (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlush(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	c.Set(detailKey, 1)
	c.Flush()

	_, ok := c.Get(detailKey)
	assert.False(t, ok)
}

func TestFetchAfterInvalidateDoesNotJoinOlderFetch(t *testing.T) {
	c := New[string](time.Minute, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	first := make(chan string)
	go func() {
		v, _ := c.Fetch(context.Background(), detailKey, func(context.Context) (string, error) {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			return "old", nil
		})
		first <- v
	}()
	<-started

	c.Invalidate(document.BaseKey(document.KindOutboundShipment, "store-1"))

	v, err := c.Fetch(context.Background(), detailKey, func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	close(release)
	assert.Equal(t, "old", <-first)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	cached, ok := c.Get(detailKey)
	require.True(t, ok)
	assert.Equal(t, "new", cached, "older fetch must not overwrite the newer result")
}

func TestFetchAfterFlushDoesNotJoinOlderFetch(t *testing.T) {
	c := New[string](time.Minute, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_, _ = c.Fetch(context.Background(), detailKey, func(context.Context) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
	}()
	<-started

	c.Flush()

	v, err := c.Fetch(context.Background(), detailKey, func(context.Context) (string, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestSharedFetchOutlivesFirstCaller(t *testing.T) {
	c := New[int](time.Minute, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error)
	go func() {
		_, err := c.Fetch(ctx, detailKey, func(ctx context.Context) (int, error) {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			return 5, nil
		})
		firstErr <- err
	}()
	<-started

	second := make(chan int)
	go func() {
		v, err := c.Fetch(context.Background(), detailKey, func(context.Context) (int, error) {
			atomic.AddInt32(&calls, 1)
			return -1, nil
		})
		assert.NoError(t, err)
		second <- v
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.Equal(t, 5, <-second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
