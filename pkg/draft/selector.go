package draft

import (
	"context"
	"fmt"
	"sync"

	"stockflow/pkg/document"
	"stockflow/pkg/status"
)

// Selector exposes a subset of one draft's fields plus a patch-and-save
// operation. It holds only the key: every call resolves the live draft from
// the store, so a Selector can be kept and shared for as long as the key is
// attached.
type Selector struct {
	store  *Store
	key    document.QueryKey
	fields []document.FieldName

	closeOnce sync.Once
	attached  bool
}

// Select returns a selector over an already attached key. An empty field
// list selects every field.
func (s *Store) Select(key document.QueryKey, fields ...document.FieldName) *Selector {
	out := make([]document.FieldName, len(fields))
	copy(out, fields)
	return &Selector{store: s, key: key, fields: out}
}

// Open attaches key, fetches it once and returns a selector that owns the
// attachment; call Close to release it. A fetch failure still leaves the
// selector usable with the placeholder value.
func (s *Store) Open(ctx context.Context, key document.QueryKey, source Source, placeholder document.Document, fields ...document.FieldName) (*Selector, error) {
	s.Attach(key, source, placeholder)
	sel := s.Select(key, fields...)
	sel.attached = true
	if err := s.Refresh(ctx, key); err != nil {
		return sel, err
	}
	return sel, nil
}

// Close releases the attachment taken by Open. It is a no-op for selectors
// built with Select and safe to call more than once.
func (sel *Selector) Close() {
	if !sel.attached {
		return
	}
	sel.closeOnce.Do(func() { sel.store.Detach(sel.key) })
}

func (sel *Selector) Key() document.QueryKey { return sel.key }

// Values returns the selected fields of the current draft. Fields the draft
// does not have are omitted; the result is empty if nothing is attached.
func (sel *Selector) Values() document.Document {
	d, ok := sel.store.Lookup(sel.key)
	if !ok {
		return document.Document{}
	}
	snap := d.Snapshot()
	if len(sel.fields) == 0 {
		return snap
	}
	return snap.Pick(sel.fields...)
}

// Value returns a single field of the current draft.
func (sel *Selector) Value(field document.FieldName) (any, bool) {
	d, ok := sel.store.Lookup(sel.key)
	if !ok {
		return nil, false
	}
	v, ok := d.Snapshot()[field]
	return v, ok
}

// Found is false when the document does not exist remotely or the key is
// not attached.
func (sel *Selector) Found() bool {
	d, ok := sel.store.Lookup(sel.key)
	return ok && d.Found()
}

// Update validates values against the kind's edit policy, applies them to
// the draft and saves. The draft's id always travels with the save because
// the whole draft is sent.
func (sel *Selector) Update(ctx context.Context, values map[document.FieldName]any) (document.Document, error) {
	patch, err := document.NewPatch(sel.key.Kind, values)
	if err != nil {
		return nil, err
	}
	if d, ok := sel.store.Lookup(sel.key); ok && d.Snapshot().ID() == "" && sel.key.Target != "" && !sel.key.IsList() {
		d.Dispatch(Merge{Remote: document.Document{document.FieldID: sel.key.Target}})
	}
	return sel.store.Update(ctx, sel.key, patch)
}

// Refresh refetches the document and merges it into the draft.
func (sel *Selector) Refresh(ctx context.Context) error {
	return sel.store.Refresh(ctx, sel.key)
}

func (sel *Selector) currentStatus() status.Status {
	v, _ := sel.Value(document.FieldStatus)
	switch s := v.(type) {
	case string:
		return status.Status(s)
	case status.Status:
		return s
	default:
		return ""
	}
}

// IsEditable reports whether the draft's status allows edits.
func (sel *Selector) IsEditable(table *status.Table) bool {
	return table.IsEditable(sel.key.Kind, sel.currentStatus())
}

// NextStatusLabel returns the translation key for the "move to next status"
// action, ok is false when the document is already in its final status.
func (sel *Selector) NextStatusLabel(table *status.Table) (string, bool) {
	return table.NextLabel(sel.key.Kind, sel.currentStatus())
}

// AdvanceStatus moves the document one status forward and saves it.
func (sel *Selector) AdvanceStatus(ctx context.Context, table *status.Table) (status.Status, error) {
	next, err := table.Next(sel.key.Kind, sel.currentStatus())
	if err != nil {
		return "", fmt.Errorf("advance %s: %w", sel.key, err)
	}
	if _, err := sel.Update(ctx, map[document.FieldName]any{document.FieldStatus: string(next)}); err != nil {
		return "", err
	}
	return next, nil
}
