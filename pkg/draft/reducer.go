package draft

import "stockflow/pkg/document"

// Action is one state transition request for a draft. The set is closed:
// Init, Merge, SetField and SetAssociation.
type Action interface {
	action()
}

// Init leaves the draft as it is.
type Init struct{}

// Merge overlays a freshly fetched remote document onto the draft.
type Merge struct {
	Remote document.Document
}

// SetField stores a scalar value.
type SetField struct {
	Field document.FieldName
	Value any
}

// SetAssociation stores a reference to another entity. Any dependent fields
// the caller wants recomputed are its own business.
type SetAssociation struct {
	Field document.FieldName
	Ref   document.Reference
}

func (Init) action()           {}
func (Merge) action()          {}
func (SetField) action()       {}
func (SetAssociation) action() {}

// Reduce returns the draft that results from applying a to current. It never
// mutates current. Fields outside the kind's edit policy are ignored.
func Reduce(kind document.Kind, current document.Document, a Action) document.Document {
	switch act := a.(type) {
	case Merge:
		return current.Overlay(act.Remote)

	case SetField:
		allowed, association := document.PolicyFor(kind).Allows(act.Field)
		if !allowed || association {
			return current
		}
		next := current.Clone()
		next[act.Field] = act.Value
		return next

	case SetAssociation:
		allowed, association := document.PolicyFor(kind).Allows(act.Field)
		if !allowed || !association {
			return current
		}
		next := current.Clone()
		next[act.Field] = act.Ref
		return next

	default:
		return current
	}
}

// actionsFor turns a validated patch into reducer actions, in patch order.
func actionsFor(p document.Patch) []Action {
	changes := p.Changes()
	actions := make([]Action, 0, len(changes))
	for _, c := range changes {
		if c.Association {
			ref, _ := c.Value.(document.Reference)
			actions = append(actions, SetAssociation{Field: c.Field, Ref: ref})
			continue
		}
		actions = append(actions, SetField{Field: c.Field, Value: c.Value})
	}
	return actions
}
