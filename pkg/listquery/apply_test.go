package listquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/pkg/document"
)

func sampleDocs() []document.Document {
	return []document.Document{
		{document.FieldID: "1", document.FieldInvoiceNumber: 3, document.FieldStatus: "DRAFT", document.FieldComment: "Urgent delivery", document.FieldCreatedAt: "2024-01-10T09:00:00Z"},
		{document.FieldID: "2", document.FieldInvoiceNumber: 1, document.FieldStatus: "FINALISED", document.FieldComment: "routine", document.FieldCreatedAt: "2024-01-05T09:00:00Z"},
		{document.FieldID: "3", document.FieldInvoiceNumber: 2, document.FieldStatus: "DRAFT", document.FieldCreatedAt: "2024-02-01T09:00:00Z"},
	}
}

func ids(docs []document.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID())
	}
	return out
}

func TestApplyOperators(t *testing.T) {
	tests := []struct {
		name string
		q    ListQuery
		want []string
	}{
		{name: "no filter", q: New("invoiceNumber", 10), want: []string{"2", "3", "1"}},
		{name: "equal", q: New("invoiceNumber", 10).WithFilter("status", EqualTo, "DRAFT"), want: []string{"3", "1"}},
		{name: "not equal", q: New("invoiceNumber", 10).WithFilter("status", NotEqualTo, "DRAFT"), want: []string{"2"}},
		{name: "like is case insensitive", q: New("invoiceNumber", 10).WithFilter("comment", Like, "URGENT"), want: []string{"1"}},
		{name: "number equal", q: New("invoiceNumber", 10).WithFilter("invoiceNumber", EqualTo, 2), want: []string{"3"}},
		{
			name: "before or equal date",
			q:    New("invoiceNumber", 10).WithFilter("createdDatetime", BeforeOrEqualTo, "2024-01-10"),
			want: []string{"2"},
		},
		{
			name: "after or equal time",
			q:    New("invoiceNumber", 10).WithFilter("createdDatetime", AfterOrEqualTo, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)),
			want: []string{"3", "1"},
		},
		{
			name: "rules are anded",
			q:    New("invoiceNumber", 10).WithFilter("status", EqualTo, "DRAFT").WithFilter("comment", Like, "urgent"),
			want: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total, err := Apply(sampleDocs(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page))
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestApplySortAndPage(t *testing.T) {
	q := New("invoiceNumber", 2).WithSort("invoiceNumber")

	page, total, err := Apply(sampleDocs(), q)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"1", "3"}, ids(page))

	page, _, err = Apply(sampleDocs(), q.WithPage(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(page))

	page, total, err = Apply(sampleDocs(), q.WithPage(50, 0))
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 3, total)
}

func TestSortMissingValuesFirst(t *testing.T) {
	docs := sampleDocs()
	SortDocuments(docs, Sort{Key: "comment", Direction: Asc})
	assert.Equal(t, []string{"3", "2", "1"}, ids(docs))
}

func TestCompileRejectsUnknownOperator(t *testing.T) {
	_, err := Compile([]FilterRule{{Field: "status", Operator: "between", Operand: 1}})
	assert.ErrorIs(t, err, ErrUnknownOperator)
}
