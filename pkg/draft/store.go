// Package draft keeps one locally editable overlay per document on top of the
// remote snapshots delivered by the query cache.
//
// Data flow:
//
//	Source.Fetch -> QueryCache -> Store.Resolve -> Reduce(Merge) -> Draft
//	Selector.Update -> Reduce(SetField...) -> Source.Save -> QueryCache.Invalidate
//
// Every draft is owned by the Store. Consumers hold a *Draft or a *Selector
// and change state only by dispatching actions.
package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stockflow/pkg/document"
)

var (
	ErrNotAttached  = errors.New("no draft attached for key")
	ErrNoSource     = errors.New("draft has no source")
	ErrKindMismatch = errors.New("patch kind does not match key")
)

// Source is the remote data service for one or more kinds.
type Source interface {
	// Fetch returns document.ErrNotFound (possibly wrapped) on a miss.
	Fetch(ctx context.Context, key document.QueryKey) (document.Document, error)
	Save(ctx context.Context, key document.QueryKey, doc document.Document) (document.Document, error)
}

// SourceFuncs adapts plain functions to Source.
type SourceFuncs struct {
	FetchFunc func(ctx context.Context, key document.QueryKey) (document.Document, error)
	SaveFunc  func(ctx context.Context, key document.QueryKey, doc document.Document) (document.Document, error)
}

func (f SourceFuncs) Fetch(ctx context.Context, key document.QueryKey) (document.Document, error) {
	if f.FetchFunc == nil {
		return nil, document.ErrNotFound
	}
	return f.FetchFunc(ctx, key)
}

func (f SourceFuncs) Save(ctx context.Context, key document.QueryKey, doc document.Document) (document.Document, error) {
	if f.SaveFunc == nil {
		return doc, nil
	}
	return f.SaveFunc(ctx, key, doc)
}

// QueryCache deduplicates fetches per key and drops cached results on demand.
type QueryCache interface {
	Fetch(ctx context.Context, key document.QueryKey, fetch func(context.Context) (document.Document, error)) (document.Document, error)
	Invalidate(prefix document.QueryKey)
}

type directCache struct{}

func (directCache) Fetch(ctx context.Context, _ document.QueryKey, fetch func(context.Context) (document.Document, error)) (document.Document, error) {
	return fetch(ctx)
}

func (directCache) Invalidate(document.QueryKey) {}

// Logger is the subset of the application logger the store writes to.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}

const logModule = "draft"

// Option configures a Store.
type Option func(*Store)

func WithCache(c QueryCache) Option {
	return func(s *Store) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store is the process-wide registry of drafts keyed by QueryKey. Drafts are
// reference counted: Attach increments, Detach decrements, zero evicts.
type Store struct {
	mu         sync.RWMutex
	drafts     map[document.QueryKey]*Draft
	generation uint64

	cache  QueryCache
	logger Logger
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		drafts: map[document.QueryKey]*Draft{},
		cache:  directCache{},
		logger: nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Draft is the shared state for one key. All fields are guarded by the
// owning store's mutex.
type Draft struct {
	store *Store
	key   document.QueryKey

	refs        int
	value       document.Document
	source      Source
	loaded      bool
	found       bool
	lastApplied uint64
	evicted     bool
	changed     chan struct{}
}

// Ticket identifies one fetch. Tickets are ordered store-wide, so a result
// can be compared with whatever was already merged for its key.
type Ticket struct {
	Key        document.QueryKey
	generation uint64
}

// Attach registers interest in key. The first attach seeds the draft with
// placeholder (nil for an empty draft) and records source; later attaches
// share the same *Draft and ignore both arguments, except that a missing
// source is filled in.
func (s *Store) Attach(key document.QueryKey, source Source, placeholder document.Document) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[key]
	if !ok {
		d = &Draft{
			store:   s,
			key:     key,
			value:   placeholder.Clone(),
			source:  source,
			found:   true,
			changed: make(chan struct{}),
		}
		s.drafts[key] = d
		s.logger.Debug(logModule, "draft created", map[string]interface{}{"key": key.String()})
	}
	if d.source == nil {
		d.source = source
	}
	d.refs++
	return d
}

// Detach releases one reference. The draft is evicted when none remain.
func (s *Store) Detach(key document.QueryKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[key]
	if !ok {
		return
	}
	d.refs--
	if d.refs > 0 {
		return
	}
	delete(s.drafts, key)
	d.evicted = true
	d.notifyLocked()
	s.logger.Debug(logModule, "draft evicted", map[string]interface{}{"key": key.String()})
}

// Lookup returns the attached draft for key.
func (s *Store) Lookup(key document.QueryKey) (*Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[key]
	return d, ok
}

// Refs returns how many consumers are attached to key.
func (s *Store) Refs(key document.QueryKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.drafts[key]; ok {
		return d.refs
	}
	return 0
}

// Len returns the number of live drafts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// BeginFetch issues a ticket for a fetch of key that is about to start.
func (s *Store) BeginFetch(key document.QueryKey) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return Ticket{Key: key, generation: s.generation}
}

// Resolve applies the outcome of the fetch identified by t and reports
// whether it changed the draft. A result is dropped when no draft is attached
// for the key or when a newer fetch for the key was already applied. A
// not-found result marks the draft absent; other errors leave it untouched.
func (s *Store) Resolve(t Ticket, doc document.Document, fetchErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[t.Key]
	if !ok {
		s.logger.Debug(logModule, "fetch result dropped, key not attached", map[string]interface{}{"key": t.Key.String()})
		return false
	}
	if t.generation <= d.lastApplied {
		s.logger.Debug(logModule, "stale fetch result dropped", map[string]interface{}{
			"key":        t.Key.String(),
			"generation": t.generation,
			"applied":    d.lastApplied,
		})
		return false
	}

	switch {
	case fetchErr == nil:
		d.value = Reduce(t.Key.Kind, d.value, Merge{Remote: doc})
		d.found = true
	case errors.Is(fetchErr, document.ErrNotFound):
		d.found = false
	default:
		return false
	}
	d.loaded = true
	d.lastApplied = t.generation
	d.notifyLocked()
	return true
}

// Refresh fetches key through the cache using the draft's source and merges
// the result. A missing document is not an error; see Draft.Found.
func (s *Store) Refresh(ctx context.Context, key document.QueryKey) error {
	s.mu.RLock()
	d, ok := s.drafts[key]
	var src Source
	if ok {
		src = d.source
	}
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAttached, key)
	}
	if src == nil {
		return fmt.Errorf("%w: %s", ErrNoSource, key)
	}

	t := s.BeginFetch(key)
	doc, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (document.Document, error) {
		return src.Fetch(ctx, key)
	})
	s.Resolve(t, doc, err)
	if err != nil && !errors.Is(err, document.ErrNotFound) {
		return fmt.Errorf("refresh %s: %w", key, err)
	}
	return nil
}

// Update applies patch to the draft of key and saves the resulting draft.
// The local values stay in place whether or not the save succeeds; a save
// error is returned unchanged so callers can inspect domain rejections.
func (s *Store) Update(ctx context.Context, key document.QueryKey, patch document.Patch) (document.Document, error) {
	if patch.Kind() != key.Kind {
		return nil, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, patch.Kind(), key.Kind)
	}

	s.mu.Lock()
	d, ok := s.drafts[key]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotAttached, key)
	}
	for _, a := range actionsFor(patch) {
		d.value = Reduce(key.Kind, d.value, a)
	}
	d.notifyLocked()
	snapshot := d.value.Clone()
	src := d.source
	s.mu.Unlock()

	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, key)
	}

	saved, err := src.Save(ctx, key, snapshot)
	if err != nil {
		s.logger.Warn(logModule, "save failed, keeping local values", map[string]interface{}{
			"key":   key.String(),
			"error": err.Error(),
		})
		return nil, err
	}

	s.cache.Invalidate(document.BaseKey(key.Kind, key.Scope))
	return saved, nil
}

// Mutate runs a remote change of key that is not a field edit, such as
// adding a line, and merges the document it returns into the draft. Fetches
// begun before the change can no longer overwrite its result.
func (s *Store) Mutate(ctx context.Context, key document.QueryKey, mutate func(ctx context.Context) (document.Document, error)) (document.Document, error) {
	if _, ok := s.Lookup(key); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAttached, key)
	}

	doc, err := mutate(ctx)
	if err != nil {
		s.logger.Warn(logModule, "mutation failed", map[string]interface{}{
			"key":   key.String(),
			"error": err.Error(),
		})
		return nil, err
	}

	s.cache.Invalidate(document.BaseKey(key.Kind, key.Scope))
	s.Resolve(s.BeginFetch(key), doc, nil)
	return doc.Clone(), nil
}

// Close drops every draft. Fetches still in flight will find nothing to
// merge into.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, d := range s.drafts {
		d.evicted = true
		d.notifyLocked()
		delete(s.drafts, key)
	}
}

func (d *Draft) notifyLocked() {
	close(d.changed)
	d.changed = make(chan struct{})
}

func (d *Draft) Key() document.QueryKey { return d.key }

// Snapshot returns a copy of the current draft value.
func (d *Draft) Snapshot() document.Document {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return d.value.Clone()
}

// Dispatch applies a to the draft. Dispatching to an evicted draft does
// nothing.
func (d *Draft) Dispatch(a Action) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	if d.evicted {
		return
	}
	d.value = Reduce(d.key.Kind, d.value, a)
	d.notifyLocked()
}

// Loaded reports whether any fetch for the draft has resolved.
func (d *Draft) Loaded() bool {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return d.loaded
}

// Found is false after the latest applied fetch reported the document
// missing.
func (d *Draft) Found() bool {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return d.found
}

// Changed returns a channel closed on the next change of the draft.
func (d *Draft) Changed() <-chan struct{} {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return d.changed
}
