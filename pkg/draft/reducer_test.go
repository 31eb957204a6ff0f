package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockflow/pkg/document"
)

func TestReduce(t *testing.T) {
	kind := document.KindOutboundShipment
	base := document.Document{document.FieldStatus: "DRAFT", document.FieldComment: "old"}

	tests := []struct {
		name   string
		action Action
		want   document.Document
	}{
		{
			name:   "init keeps draft",
			action: Init{},
			want:   base,
		},
		{
			name:   "merge overwrites and adds",
			action: Merge{Remote: document.Document{document.FieldComment: "remote", document.FieldColour: "red"}},
			want: document.Document{
				document.FieldStatus:  "DRAFT",
				document.FieldComment: "remote",
				document.FieldColour:  "red",
			},
		},
		{
			name:   "set editable field",
			action: SetField{Field: document.FieldComment, Value: "new"},
			want:   document.Document{document.FieldStatus: "DRAFT", document.FieldComment: "new"},
		},
		{
			name:   "unknown field is ignored",
			action: SetField{Field: document.FieldInvoiceNumber, Value: 7},
			want:   base,
		},
		{
			name:   "association through set field is ignored",
			action: SetField{Field: document.FieldOtherParty, Value: "n1"},
			want:   base,
		},
		{
			name:   "set association",
			action: SetAssociation{Field: document.FieldOtherParty, Ref: document.Reference{ID: "n1", Name: "Clinic"}},
			want: document.Document{
				document.FieldStatus:     "DRAFT",
				document.FieldComment:    "old",
				document.FieldOtherParty: document.Reference{ID: "n1", Name: "Clinic"},
			},
		},
		{
			name:   "scalar through set association is ignored",
			action: SetAssociation{Field: document.FieldComment, Ref: document.Reference{ID: "x"}},
			want:   base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := base.Clone()
			got := Reduce(kind, base, tt.action)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, before, base, "reducer must not mutate its input")
		})
	}
}

func TestSetFieldsThenMerge(t *testing.T) {
	kind := document.KindRequestRequisition
	d := document.Document{document.FieldStatus: "DRAFT"}

	d = Reduce(kind, d, SetField{Field: document.FieldComment, Value: "mine"})
	d = Reduce(kind, d, SetField{Field: document.FieldColour, Value: "blue"})
	d = Reduce(kind, d, SetField{Field: document.FieldTheirReference, Value: "ref-1"})

	remote := document.Document{document.FieldComment: "theirs", document.FieldStatus: "SENT"}
	d = Reduce(kind, d, Merge{Remote: remote})

	for field, value := range remote {
		assert.Equal(t, value, d[field], field)
	}
	assert.Equal(t, "blue", d[document.FieldColour])
	assert.Equal(t, "ref-1", d[document.FieldTheirReference])
}

func TestReduceIsDeterministic(t *testing.T) {
	d := document.Document{document.FieldStatus: "NEW"}
	a := SetField{Field: document.FieldDescription, Value: "count"}

	assert.Equal(t, Reduce(document.KindStocktake, d, a), Reduce(document.KindStocktake, d, a))
}
