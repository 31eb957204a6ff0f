package draft

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/pkg/document"
	"stockflow/pkg/status"
)

func TestOpenFetchesAndSelectsFields(t *testing.T) {
	s := NewStore()
	src := &fakeSource{remote: document.Document{
		document.FieldID:      "inv-42",
		document.FieldStatus:  "DRAFT",
		document.FieldComment: "old",
		document.FieldColour:  "#000",
	}}

	sel, err := s.Open(context.Background(), invoiceKey, src, nil, document.FieldComment, document.FieldStatus)
	require.NoError(t, err)
	defer sel.Close()

	assert.Equal(t, document.Document{document.FieldComment: "old", document.FieldStatus: "DRAFT"}, sel.Values())
	assert.True(t, sel.Found())
	assert.Equal(t, 1, src.fetches)
}

func TestSelectorFollowsLiveDraft(t *testing.T) {
	s := NewStore()
	src := &fakeSource{}
	d := s.Attach(invoiceKey, src, document.Document{document.FieldComment: "a"})
	sel := s.Select(invoiceKey, document.FieldComment)

	d.Dispatch(SetField{Field: document.FieldComment, Value: "b"})
	v, ok := sel.Value(document.FieldComment)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	s.Detach(invoiceKey)
	assert.Empty(t, sel.Values())
	assert.False(t, sel.Found())

	s.Attach(invoiceKey, src, document.Document{document.FieldComment: "c"})
	v, _ = sel.Value(document.FieldComment)
	assert.Equal(t, "c", v)
}

func TestSelectorUpdateSendsID(t *testing.T) {
	s := NewStore()
	src := &fakeSource{}
	sel, err := s.Open(context.Background(), invoiceKey, src, document.Document{document.FieldStatus: "DRAFT"})
	require.NoError(t, err)
	defer sel.Close()

	_, err = sel.Update(context.Background(), map[document.FieldName]any{document.FieldComment: "new"})
	require.NoError(t, err)

	require.Len(t, src.saves, 1)
	assert.Equal(t, "inv-42", src.saves[0].ID())
	assert.Equal(t, "new", src.saves[0][document.FieldComment])
}

func TestSelectorUpdateRejectsUnknownField(t *testing.T) {
	s := NewStore()
	src := &fakeSource{}
	s.Attach(invoiceKey, src, nil)
	sel := s.Select(invoiceKey)

	_, err := sel.Update(context.Background(), map[document.FieldName]any{document.FieldInvoiceNumber: 3})

	var unknown *document.UnknownFieldError
	assert.ErrorAs(t, err, &unknown)
	assert.Empty(t, src.saves)
}

func TestSelectorStatusHelpers(t *testing.T) {
	s := NewStore()
	src := &fakeSource{}
	s.Attach(invoiceKey, src, document.Document{document.FieldID: "inv-42", document.FieldStatus: "CONFIRMED"})
	sel := s.Select(invoiceKey)

	assert.True(t, sel.IsEditable(status.Default))
	label, ok := sel.NextStatusLabel(status.Default)
	assert.True(t, ok)
	assert.Equal(t, "label.delivered", label)

	next, err := sel.AdvanceStatus(context.Background(), status.Default)
	require.NoError(t, err)
	assert.Equal(t, status.Finalised, next)
	assert.False(t, sel.IsEditable(status.Default))

	_, err = sel.AdvanceStatus(context.Background(), status.Default)
	assert.ErrorIs(t, err, status.ErrNoNextStatus)
	assert.Len(t, src.saves, 1)
}

func TestSelectorCloseIsIdempotent(t *testing.T) {
	s := NewStore()
	src := &fakeSource{}
	s.Attach(invoiceKey, src, nil)

	sel, err := s.Open(context.Background(), invoiceKey, src, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Refs(invoiceKey))

	sel.Close()
	sel.Close()
	assert.Equal(t, 1, s.Refs(invoiceKey))

	s.Select(invoiceKey).Close()
	assert.Equal(t, 1, s.Refs(invoiceKey))
}
