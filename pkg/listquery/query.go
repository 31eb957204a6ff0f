// Package listquery builds the sort, filter and pagination parameters of a
// list fetch as one immutable value.
package listquery

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Operator is a filter comparison.
type Operator string

const (
	EqualTo         Operator = "equalTo"
	NotEqualTo      Operator = "notEqualTo"
	Like            Operator = "like"
	BeforeOrEqualTo Operator = "beforeOrEqualTo"
	AfterOrEqualTo  Operator = "afterOrEqualTo"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case EqualTo, NotEqualTo, Like, BeforeOrEqualTo, AfterOrEqualTo:
		return true
	}
	return false
}

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the sort descriptor of a list.
type Sort struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

func (s Sort) IsDesc() bool { return s.Direction == Desc }

// FilterRule restricts a list on one field. Rules on different fields are
// ANDed together.
type FilterRule struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Operand  any      `json:"operand"`
}

// DefaultPageSize is used when New is given a non-positive size.
const DefaultPageSize = 20

// ListQuery is an immutable set of list parameters. Every With* method
// returns a new value; two queries with the same content have the same Key.
type ListQuery struct {
	sort    Sort
	filters []FilterRule
	offset  int
	first   int
}

// New creates a query sorted ascending on sortKey with the given page size.
func New(sortKey string, pageSize int) ListQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ListQuery{sort: Sort{Key: sortKey, Direction: Asc}, first: pageSize}
}

func (q ListQuery) Sort() Sort  { return q.sort }
func (q ListQuery) Offset() int { return q.offset }
func (q ListQuery) First() int  { return q.first }

// Filters returns the rules sorted by field.
func (q ListQuery) Filters() []FilterRule {
	out := make([]FilterRule, len(q.filters))
	copy(out, q.filters)
	return out
}

// Filter returns the rule for field, if any.
func (q ListQuery) Filter(field string) (FilterRule, bool) {
	for _, r := range q.filters {
		if r.Field == field {
			return r, true
		}
	}
	return FilterRule{}, false
}

// WithSort flips the direction when key is already the sort key, otherwise
// sorts ascending on key.
func (q ListQuery) WithSort(key string) ListQuery {
	next := q.clone()
	if q.sort.Key == key {
		if q.sort.IsDesc() {
			next.sort.Direction = Asc
		} else {
			next.sort.Direction = Desc
		}
		return next
	}
	next.sort = Sort{Key: key, Direction: Asc}
	return next
}

// WithSortDirection sets both the key and direction explicitly.
func (q ListQuery) WithSortDirection(key string, dir Direction) ListQuery {
	next := q.clone()
	if dir != Desc {
		dir = Asc
	}
	next.sort = Sort{Key: key, Direction: dir}
	return next
}

// WithFilter replaces any rule on field. Filters for other fields stay.
func (q ListQuery) WithFilter(field string, op Operator, operand any) ListQuery {
	next := q.WithoutFilter(field)
	next.filters = append(next.filters, FilterRule{Field: field, Operator: op, Operand: operand})
	sort.Slice(next.filters, func(i, j int) bool { return next.filters[i].Field < next.filters[j].Field })
	return next
}

// WithoutFilter removes the rule on field.
func (q ListQuery) WithoutFilter(field string) ListQuery {
	next := q.clone()
	kept := next.filters[:0]
	for _, r := range next.filters {
		if r.Field != field {
			kept = append(kept, r)
		}
	}
	next.filters = kept
	return next
}

// WithPage sets the page window. Negative offsets become zero and a
// non-positive size keeps the current one.
func (q ListQuery) WithPage(offset, size int) ListQuery {
	next := q.clone()
	if offset < 0 {
		offset = 0
	}
	next.offset = offset
	if size > 0 {
		next.first = size
	}
	return next
}

func (q ListQuery) clone() ListQuery {
	out := q
	out.filters = make([]FilterRule, len(q.filters))
	copy(out.filters, q.filters)
	return out
}

// Key is a canonical encoding of the query, suitable as the parameter part
// of a document.QueryKey.
func (q ListQuery) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sort=%s:%s", q.sort.Key, q.sort.Direction)
	for _, r := range q.filters {
		operand, err := json.Marshal(r.Operand)
		if err != nil {
			operand = []byte(fmt.Sprintf("%q", fmt.Sprint(r.Operand)))
		}
		fmt.Fprintf(&b, ";filter=%s:%s:%s", r.Field, r.Operator, operand)
	}
	fmt.Fprintf(&b, ";offset=%d;first=%d", q.offset, q.first)
	return b.String()
}

// Equal compares by content.
func (q ListQuery) Equal(other ListQuery) bool {
	return q.Key() == other.Key()
}
