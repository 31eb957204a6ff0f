package document

import "fmt"

// EditPolicy enumerates the fields a caller may change on one kind of
// document. Scalars hold plain values, Associations hold a Reference.
type EditPolicy struct {
	Scalars      []FieldName
	Associations []FieldName
}

// Allows reports whether field is editable and whether it is an association.
func (p EditPolicy) Allows(field FieldName) (allowed, association bool) {
	for _, f := range p.Scalars {
		if f == field {
			return true, false
		}
	}
	for _, f := range p.Associations {
		if f == field {
			return true, true
		}
	}
	return false, false
}

var policies = map[Kind]EditPolicy{
	KindOutboundShipment: {
		Scalars:      []FieldName{FieldComment, FieldTheirReference, FieldColour, FieldOnHold, FieldStatus},
		Associations: []FieldName{FieldOtherParty},
	},
	KindInboundShipment: {
		Scalars:      []FieldName{FieldComment, FieldTheirReference, FieldColour, FieldOnHold, FieldStatus},
		Associations: []FieldName{FieldOtherParty},
	},
	KindRequestRequisition: {
		Scalars: []FieldName{
			FieldComment, FieldTheirReference, FieldColour, FieldStatus,
			FieldMinMonthsOfStock, FieldMaxMonthsOfStock,
		},
		Associations: []FieldName{FieldOtherParty},
	},
	KindResponseRequisition: {
		Scalars: []FieldName{FieldComment, FieldTheirReference, FieldColour, FieldStatus},
	},
	KindStocktake: {
		Scalars: []FieldName{FieldComment, FieldDescription, FieldStocktakeDate, FieldIsLocked, FieldStatus},
	},
}

// PolicyFor returns the edit policy of kind; unknown kinds get an empty
// policy, so nothing on them is editable.
func PolicyFor(kind Kind) EditPolicy {
	return policies[kind]
}

// Change is one entry of a Patch.
type Change struct {
	Field       FieldName
	Value       any
	Association bool
}

// Patch is a validated set of field changes for a single kind, applied to a
// draft atomically and in field order.
type Patch struct {
	kind    Kind
	changes []Change
}

// UnknownFieldError is returned when a patch names a field the kind's edit
// policy does not list.
type UnknownFieldError struct {
	Kind  Kind
	Field FieldName
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %q is not editable on %s", e.Field, e.Kind)
}

// NewPatch validates values against the edit policy of kind. Association
// values must be a Reference (or *Reference).
func NewPatch(kind Kind, values map[FieldName]any) (Patch, error) {
	policy := PolicyFor(kind)
	p := Patch{kind: kind, changes: make([]Change, 0, len(values))}

	names := Document(values).SortedFields()
	for _, field := range names {
		allowed, association := policy.Allows(field)
		if !allowed {
			return Patch{}, &UnknownFieldError{Kind: kind, Field: field}
		}
		value := values[field]
		if association {
			ref, err := asReference(value)
			if err != nil {
				return Patch{}, fmt.Errorf("field %q: %w", field, err)
			}
			value = ref
		}
		p.changes = append(p.changes, Change{Field: field, Value: value, Association: association})
	}
	return p, nil
}

func asReference(v any) (Reference, error) {
	switch ref := v.(type) {
	case Reference:
		return ref, nil
	case *Reference:
		if ref == nil {
			return Reference{}, fmt.Errorf("association value must not be nil")
		}
		return *ref, nil
	default:
		return Reference{}, fmt.Errorf("association value must be a Reference, got %T", v)
	}
}

func (p Patch) Kind() Kind { return p.kind }

// Changes returns the patch entries in field order.
func (p Patch) Changes() []Change {
	out := make([]Change, len(p.changes))
	copy(out, p.changes)
	return out
}

func (p Patch) IsEmpty() bool { return len(p.changes) == 0 }
