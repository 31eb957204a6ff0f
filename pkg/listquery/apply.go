package listquery

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"stockflow/pkg/document"
)

var (
	// ErrUnknownOperator is returned for a filter operator that is not one of
	// the Operator constants.
	ErrUnknownOperator = errors.New("unknown filter operator")
	// ErrUnknownField is returned by list backends for a sort or filter field
	// they cannot evaluate.
	ErrUnknownField = errors.New("unknown list field")
)

// Matcher evaluates the filter rules of a query against documents. Rules are
// compiled once into a single expr program; row values and operands are
// passed through the environment, never spliced into the expression text.
type Matcher struct {
	rules   []FilterRule
	program *exprvm.Program
}

// Compile builds a matcher for rules. Unknown operators are rejected.
func Compile(rules []FilterRule) (*Matcher, error) {
	parts := make([]string, 0, len(rules))
	for i, r := range rules {
		v, a := fmt.Sprintf("v%d", i), fmt.Sprintf("a%d", i)
		switch r.Operator {
		case EqualTo:
			parts = append(parts, fmt.Sprintf("%s == %s", v, a))
		case NotEqualTo:
			parts = append(parts, fmt.Sprintf("%s != %s", v, a))
		case Like:
			parts = append(parts, fmt.Sprintf("(lower(%s) contains lower(%s))", v, a))
		case BeforeOrEqualTo:
			parts = append(parts, fmt.Sprintf("(%s != nil && %s != nil && %s <= %s)", v, a, v, a))
		case AfterOrEqualTo:
			parts = append(parts, fmt.Sprintf("(%s != nil && %s != nil && %s >= %s)", v, a, v, a))
		default:
			return nil, fmt.Errorf("%w %q on %q", ErrUnknownOperator, r.Operator, r.Field)
		}
	}
	expression := "true"
	if len(parts) > 0 {
		expression = strings.Join(parts, " && ")
	}

	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	out := make([]FilterRule, len(rules))
	copy(out, rules)
	return &Matcher{rules: out, program: program}, nil
}

// Match reports whether doc satisfies every rule.
func (m *Matcher) Match(doc document.Document) (bool, error) {
	env := make(map[string]any, 2*len(m.rules))
	for i, r := range m.rules {
		value := doc[document.FieldName(r.Field)]
		v, a := fmt.Sprintf("v%d", i), fmt.Sprintf("a%d", i)
		if r.Operator == Like {
			env[v] = textOf(value)
			env[a] = textOf(r.Operand)
			continue
		}
		env[v], env[a] = comparablePair(value, r.Operand)
	}
	out, err := exprlang.Run(m.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply filters, sorts and pages docs in memory and returns the page plus the
// number of documents that matched before paging.
func Apply(docs []document.Document, q ListQuery) ([]document.Document, int, error) {
	m, err := Compile(q.Filters())
	if err != nil {
		return nil, 0, err
	}
	matched := make([]document.Document, 0, len(docs))
	for _, d := range docs {
		ok, err := m.Match(d)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matched = append(matched, d)
		}
	}

	SortDocuments(matched, q.Sort())

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := total
	if q.First() > 0 && start+q.First() < end {
		end = start + q.First()
	}
	return matched[start:end], total, nil
}

// SortDocuments sorts docs in place by s. Missing values sort first in
// ascending order. The sort is stable.
func SortDocuments(docs []document.Document, s Sort) {
	if s.Key == "" {
		return
	}
	field := document.FieldName(s.Key)
	sort.SliceStable(docs, func(i, j int) bool {
		c := compareValues(docs[i][field], docs[j][field])
		if s.IsDesc() {
			return c > 0
		}
		return c < 0
	})
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// normalize maps a value onto the few types the comparisons understand:
// float64, time.Time, bool and string.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case bool:
		return t
	case time.Time:
		return t
	case *time.Time:
		if t == nil {
			return nil
		}
		return *t
	case string:
		if ts, ok := parseTime(t); ok {
			return ts
		}
		return t
	default:
		return textOf(t)
	}
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// comparablePair normalizes a row value and an operand so that expr can compare
// them; mismatched types fall back to their text.
func comparablePair(value, operand any) (any, any) {
	v, a := normalize(value), normalize(operand)
	if v == nil || a == nil {
		return v, a
	}
	switch a.(type) {
	case float64:
		if s, ok := v.(string); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, a
			}
		}
	case string:
		if _, ok := v.(float64); ok {
			if f, err := strconv.ParseFloat(a.(string), 64); err == nil {
				return v, f
			}
		}
	}
	if fmt.Sprintf("%T", v) != fmt.Sprintf("%T", a) {
		return textOf(value), textOf(operand)
	}
	return v, a
}

func compareValues(x, y any) int {
	a, b := normalize(x), normalize(y)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(strings.ToLower(textOf(x)), strings.ToLower(textOf(y)))
}
