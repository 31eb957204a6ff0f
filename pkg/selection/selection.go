// Package selection keeps per-table row selection independent of the data a
// table currently shows. Selection survives refetches and page changes and is
// only cleared by an explicit call.
package selection

import (
	"sort"
	"sync"
)

// Row is anything a table can list.
type Row interface {
	RowID() string
}

type table struct {
	refs     int
	selected map[string]bool
}

// Store is the process-wide registry of table selections, keyed by table
// key. Tables are created on first use and evicted by Release when their
// reference count drops to zero; tables never acquired live until Drop.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
}

func NewStore() *Store {
	return &Store{tables: map[string]*table{}}
}

func (s *Store) tableLocked(key string) *table {
	t, ok := s.tables[key]
	if !ok {
		t = &table{selected: map[string]bool{}}
		s.tables[key] = t
	}
	return t
}

// Acquire registers one more view of the table.
func (s *Store) Acquire(tableKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableLocked(tableKey).refs++
}

// Release drops one view; the table and its selection are evicted when no
// view remains.
func (s *Store) Release(tableKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[tableKey]
	if !ok {
		return
	}
	t.refs--
	if t.refs <= 0 {
		delete(s.tables, tableKey)
	}
}

// Drop removes a table regardless of its reference count.
func (s *Store) Drop(tableKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, tableKey)
}

// Toggle flips the row and returns its new state.
func (s *Store) Toggle(tableKey, rowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tableLocked(tableKey)
	if t.selected[rowID] {
		delete(t.selected, rowID)
		return false
	}
	t.selected[rowID] = true
	return true
}

// SetAll sets every given row to selected.
func (s *Store) SetAll(tableKey string, rowIDs []string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tableLocked(tableKey)
	for _, id := range rowIDs {
		if selected {
			t.selected[id] = true
		} else {
			delete(t.selected, id)
		}
	}
}

// Clear deselects every row of the table, e.g. after a bulk delete.
func (s *Store) Clear(tableKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[tableKey]; ok {
		t.selected = map[string]bool{}
	}
}

func (s *Store) IsSelected(tableKey, rowID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[tableKey]
	return ok && t.selected[rowID]
}

// SelectedIDs returns the selected row ids in lexical order.
func (s *Store) SelectedIDs(tableKey string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[tableKey]
	if !ok {
		return []string{}
	}
	ids := make([]string, 0, len(t.selected))
	for id := range t.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns how many rows of the table are selected.
func (s *Store) Count(tableKey string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[tableKey]; ok {
		return len(t.selected)
	}
	return 0
}

// SelectedRows returns the rows of current that are selected, in the order
// of current. Selected ids that current does not contain are skipped.
func SelectedRows[R Row](s *Store, tableKey string, current []R) []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]R, 0)
	t, ok := s.tables[tableKey]
	if !ok {
		return out
	}
	for _, row := range current {
		if t.selected[row.RowID()] {
			out = append(out, row)
		}
	}
	return out
}
