package document

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies an editable entity type.
type Kind string

const (
	KindOutboundShipment    Kind = "OUTBOUND_SHIPMENT"
	KindInboundShipment     Kind = "INBOUND_SHIPMENT"
	KindRequestRequisition  Kind = "REQUEST_REQUISITION"
	KindResponseRequisition Kind = "RESPONSE_REQUISITION"
	KindStocktake           Kind = "STOCKTAKE"
)

// Kinds lists every known entity kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindOutboundShipment,
		KindInboundShipment,
		KindRequestRequisition,
		KindResponseRequisition,
		KindStocktake,
	}
}

// FieldName is a document field key as exposed to clients (camelCase).
type FieldName string

// Common field names shared by every document kind.
const (
	FieldID             FieldName = "id"
	FieldStatus         FieldName = "status"
	FieldComment        FieldName = "comment"
	FieldTheirReference FieldName = "theirReference"
	FieldColour         FieldName = "colour"
	FieldOtherParty     FieldName = "otherParty"
	FieldOtherPartyID   FieldName = "otherPartyId"
	FieldOtherPartyName FieldName = "otherPartyName"
	FieldOnHold         FieldName = "onHold"
	FieldInvoiceNumber  FieldName = "invoiceNumber"
	FieldCreatedAt      FieldName = "createdDatetime"
	FieldFinalisedAt    FieldName = "finalisedDatetime"

	FieldRequisitionNumber FieldName = "requisitionNumber"
	FieldMinMonthsOfStock  FieldName = "minMonthsOfStock"
	FieldMaxMonthsOfStock  FieldName = "maxMonthsOfStock"
	FieldSentAt            FieldName = "sentDatetime"
	FieldLines             FieldName = "lines"

	FieldStocktakeNumber FieldName = "stocktakeNumber"
	FieldDescription     FieldName = "description"
	FieldStocktakeDate   FieldName = "stocktakeDate"
	FieldIsLocked        FieldName = "isLocked"
)

// Reference is the value stored in an association field: a pointer to
// another entity (usually a counterparty name) plus its display name.
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Document is the remote representation of one editable entity. A field that
// is absent from the map is unknown, not zero.
type Document map[FieldName]any

// Clone returns a shallow copy; values are treated as immutable.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Overlay returns a new document with every field of remote written over d.
// Fields that remote does not define keep their value from d.
func (d Document) Overlay(remote Document) Document {
	out := d.Clone()
	for k, v := range remote {
		out[k] = v
	}
	return out
}

// ID returns the document id or "" when the document has none yet.
func (d Document) ID() string {
	if v, ok := d[FieldID].(string); ok {
		return v
	}
	return ""
}

// String returns the field as a string, "" when absent or not a string.
func (d Document) String(field FieldName) string {
	if v, ok := d[field].(string); ok {
		return v
	}
	return ""
}

// Pick returns a document restricted to fields. Missing fields stay missing.
func (d Document) Pick(fields ...FieldName) Document {
	out := make(Document, len(fields))
	for _, f := range fields {
		if v, ok := d[f]; ok {
			out[f] = v
		}
	}
	return out
}

// QueryKey addresses one document, or one list of documents, in both the
// query cache and the draft store. Keys are plain values: two keys built from
// the same tuple are equal and may be used as map keys.
type QueryKey struct {
	Kind   Kind
	Scope  string
	Target string
}

// Key builds a detail key for the document id in the given store scope.
func Key(kind Kind, scope, id string) QueryKey {
	return QueryKey{Kind: kind, Scope: scope, Target: id}
}

// ListKey builds a key for a list fetch; params must be a canonical encoding
// of the list parameters (see listquery.ListQuery.Key).
func ListKey(kind Kind, scope, params string) QueryKey {
	return QueryKey{Kind: kind, Scope: scope, Target: listTargetPrefix + params}
}

// BaseKey addresses everything of one kind inside a store scope; used for
// prefix invalidation.
func BaseKey(kind Kind, scope string) QueryKey {
	return QueryKey{Kind: kind, Scope: scope}
}

const listTargetPrefix = "list:"

// IsList reports whether the key addresses a list rather than a document.
func (k QueryKey) IsList() bool {
	return strings.HasPrefix(k.Target, listTargetPrefix)
}

// HasPrefix reports whether every non-empty component of prefix matches k.
// Components are compared in tuple order; an empty component ends the prefix.
func (k QueryKey) HasPrefix(prefix QueryKey) bool {
	if prefix.Kind == "" {
		return true
	}
	if prefix.Kind != k.Kind {
		return false
	}
	if prefix.Scope == "" {
		return true
	}
	if prefix.Scope != k.Scope {
		return false
	}
	if prefix.Target == "" {
		return true
	}
	return prefix.Target == k.Target
}

func (k QueryKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Kind, k.Scope, k.Target)
}

// ParseKey is the inverse of QueryKey.String.
func ParseKey(s string) (QueryKey, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return QueryKey{}, fmt.Errorf("malformed query key %q", s)
	}
	return QueryKey{Kind: Kind(parts[0]), Scope: parts[1], Target: parts[2]}, nil
}

// SortedFields returns the field names of d in lexical order.
func (d Document) SortedFields() []FieldName {
	names := make([]FieldName, 0, len(d))
	for k := range d {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
