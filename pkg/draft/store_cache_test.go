package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/pkg/document"
	"stockflow/pkg/querycache"
)

// gatedSource reads the remote document when a fetch starts and, while a
// gate is set, holds the fetch until the gate is closed.
type gatedSource struct {
	mu      sync.Mutex
	remote  document.Document
	fetches int
	gate    chan struct{}
	started chan struct{}
}

func (g *gatedSource) hold() (started, release chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gate = make(chan struct{})
	g.started = make(chan struct{})
	return g.started, g.gate
}

func (g *gatedSource) Fetch(ctx context.Context, _ document.QueryKey) (document.Document, error) {
	g.mu.Lock()
	g.fetches++
	doc := g.remote.Clone()
	gate, started := g.gate, g.started
	g.gate, g.started = nil, nil
	g.mu.Unlock()

	if gate != nil {
		close(started)
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return doc, nil
}

func (g *gatedSource) Save(_ context.Context, _ document.QueryKey, doc document.Document) (document.Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remote = doc.Clone()
	return doc.Clone(), nil
}

func (g *gatedSource) fetchCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetches
}

func newCachedStore() *Store {
	return NewStore(WithCache(querycache.New[document.Document](time.Minute, time.Minute)))
}

func TestRefreshAfterSaveDoesNotRestoreOldData(t *testing.T) {
	s := newCachedStore()
	src := &gatedSource{remote: document.Document{document.FieldStatus: "DRAFT", document.FieldComment: "old"}}
	d := s.Attach(invoiceKey, src, nil)
	ctx := context.Background()

	started, release := src.hold()
	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Refresh(ctx, invoiceKey) }()
	<-started

	patch, err := document.NewPatch(document.KindOutboundShipment, map[document.FieldName]any{document.FieldComment: "new"})
	require.NoError(t, err)
	_, err = s.Update(ctx, invoiceKey, patch)
	require.NoError(t, err)

	require.NoError(t, s.Refresh(ctx, invoiceKey))
	assert.Equal(t, 2, src.fetchCount(), "refresh after a save must fetch again")
	assert.Equal(t, "new", d.Snapshot()[document.FieldComment])

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, "new", d.Snapshot()[document.FieldComment], "older fetch result is dropped")

	require.NoError(t, s.Refresh(ctx, invoiceKey))
	assert.Equal(t, 2, src.fetchCount(), "served from cache")
	assert.Equal(t, "new", d.Snapshot()[document.FieldComment])
}

func TestConcurrentRefreshSharesOneFetch(t *testing.T) {
	s := newCachedStore()
	src := &gatedSource{remote: document.Document{document.FieldStatus: "DRAFT", document.FieldComment: "remote"}}
	d := s.Attach(invoiceKey, src, document.Document{document.FieldStatus: "DRAFT"})
	ctx := context.Background()

	started, release := src.hold()
	errs := make(chan error, 8)
	go func() { errs <- s.Refresh(ctx, invoiceKey) }()
	<-started

	var wg sync.WaitGroup
	for i := 0; i < 7; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Refresh(ctx, invoiceKey)
		}()
	}

	close(release)
	wg.Wait()
	for i := 0; i < 8; i++ {
		require.NoError(t, <-errs)
	}

	assert.Equal(t, 1, src.fetchCount())
	assert.True(t, d.Loaded())
	assert.Equal(t, "remote", d.Snapshot()[document.FieldComment])
}

func TestRefreshSurvivesCancelledJoiner(t *testing.T) {
	s := newCachedStore()
	src := &gatedSource{remote: document.Document{document.FieldComment: "remote"}}
	d := s.Attach(invoiceKey, src, nil)

	started, release := src.hold()
	ctx, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Refresh(ctx, invoiceKey) }()
	<-started

	secondDone := make(chan error, 1)
	go func() { secondDone <- s.Refresh(context.Background(), invoiceKey) }()

	cancel()
	assert.ErrorIs(t, <-firstDone, context.Canceled)

	close(release)
	require.NoError(t, <-secondDone)
	assert.Equal(t, "remote", d.Snapshot()[document.FieldComment])
	assert.Equal(t, 1, src.fetchCount())
}

func TestMutateMergesResultAndDropsOlderFetch(t *testing.T) {
	s := newCachedStore()
	src := &gatedSource{remote: document.Document{document.FieldComment: "before", document.FieldLines: 0}}
	d := s.Attach(invoiceKey, src, nil)
	ctx := context.Background()

	started, release := src.hold()
	refreshDone := make(chan error, 1)
	go func() { refreshDone <- s.Refresh(ctx, invoiceKey) }()
	<-started

	after := document.Document{document.FieldComment: "before", document.FieldLines: 1}
	got, err := s.Mutate(ctx, invoiceKey, func(context.Context) (document.Document, error) {
		src.mu.Lock()
		src.remote = after.Clone()
		src.mu.Unlock()
		return after.Clone(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, after, got)
	assert.Equal(t, 1, d.Snapshot()[document.FieldLines])

	close(release)
	require.NoError(t, <-refreshDone)
	assert.Equal(t, 1, d.Snapshot()[document.FieldLines], "fetch begun before the mutation is dropped")

	require.NoError(t, s.Refresh(ctx, invoiceKey))
	assert.Equal(t, 1, d.Snapshot()[document.FieldLines])
}

func TestMutateFailureLeavesDraft(t *testing.T) {
	cache := &recordingCache{}
	s := NewStore(WithCache(cache))
	d := s.Attach(invoiceKey, &fakeSource{}, document.Document{document.FieldComment: "kept"})
	rejection := document.Reject(document.NumberOfPacksBelowOne, "zero packs")

	_, err := s.Mutate(context.Background(), invoiceKey, func(context.Context) (document.Document, error) {
		return nil, rejection
	})
	assert.Same(t, rejection, err)
	assert.Equal(t, "kept", d.Snapshot()[document.FieldComment])
	assert.Empty(t, cache.invalidated)

	_, err = s.Mutate(context.Background(), document.Key(document.KindStocktake, "store-1", "st-1"), func(context.Context) (document.Document, error) {
		t.Fatal("mutation ran without a draft")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrNotAttached)
}
