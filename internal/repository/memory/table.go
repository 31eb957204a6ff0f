// Package memory holds repositories backed by go-cache. They evaluate the
// same specifications as the gorm repositories through
// specification.InMemory and serve the server when no database is
// configured, and the service tests.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"stockflow/internal/repository/specification"
	"stockflow/pkg/document"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrUnsupportedSpecification is returned for a specification that only
// knows how to build SQL.
var ErrUnsupportedSpecification = errors.New("specification cannot be evaluated in memory")

type table[E any] struct {
	mu    sync.Mutex
	items *cache.Cache
	id    func(*E) uuid.UUID
	row   func(*E) document.Document
	clone func(*E) *E
}

func newTable[E any](id func(*E) uuid.UUID, row func(*E) document.Document, clone func(*E) *E) *table[E] {
	return &table[E]{
		items: cache.New(cache.NoExpiration, 0),
		id:    id,
		row:   row,
		clone: clone,
	}
}

func (t *table[E]) put(e *E) {
	t.items.Set(t.id(e).String(), t.clone(e), cache.NoExpiration)
}

func (t *table[E]) create(e *E) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.id(e).String()
	if _, found := t.items.Get(key); found {
		return fmt.Errorf("duplicate key %s", key)
	}
	t.put(e)
	return nil
}

func (t *table[E]) update(e *E) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.put(e)
}

func (t *table[E]) delete(ids ...uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.items.Delete(id.String())
	}
}

func (t *table[E]) find(specs ...specification.Specification) ([]*E, error) {
	items := t.items.Items()
	byID := make(map[string]*E, len(items))
	rows := make([]document.Document, 0, len(items))
	for key, item := range items {
		e := item.Object.(*E)
		byID[key] = e
		rows = append(rows, t.row(e))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID() < rows[j].ID() })

	for _, spec := range specs {
		inMemory, ok := spec.(specification.InMemory)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedSpecification, spec)
		}
		var err error
		if rows, err = inMemory.Filter(rows); err != nil {
			return nil, err
		}
	}

	out := make([]*E, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.clone(byID[r.ID()]))
	}
	return out, nil
}

func (t *table[E]) findOne(specs ...specification.Specification) (*E, error) {
	found, err := t.find(specs...)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (t *table[E]) count(specs ...specification.Specification) (int64, error) {
	found, err := t.find(specs...)
	return int64(len(found)), err
}

// nextNumber returns one more than the highest number among the rows
// matching specs.
func (t *table[E]) nextNumber(number func(*E) int64, specs ...specification.Specification) (int64, error) {
	found, err := t.find(specs...)
	if err != nil {
		return 0, err
	}
	var max int64
	for _, e := range found {
		if n := number(e); n > max {
			max = n
		}
	}
	return max + 1, nil
}
