package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/pkg/document"
)

func TestNextWalksEverySequence(t *testing.T) {
	for _, kind := range document.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			seq, err := Default.Sequence(kind)
			require.NoError(t, err)
			require.NotEmpty(t, seq)

			for i := 0; i < len(seq)-1; i++ {
				next, err := Default.Next(kind, seq[i])
				require.NoError(t, err)
				assert.Equal(t, seq[i+1], next)
				assert.True(t, Default.IsEditable(kind, seq[i]))
			}

			last := seq[len(seq)-1]
			_, err = Default.Next(kind, last)
			assert.ErrorIs(t, err, ErrNoNextStatus)
			assert.False(t, Default.IsEditable(kind, last))
			assert.True(t, Default.IsTerminal(kind, last))
		})
	}
}

func TestOutboundShipmentScenario(t *testing.T) {
	kind := document.KindOutboundShipment

	next, err := Default.Next(kind, Confirmed)
	require.NoError(t, err)
	assert.Equal(t, Finalised, next)

	_, err = Default.Next(kind, Finalised)
	assert.True(t, errors.Is(err, ErrNoNextStatus))
	assert.False(t, Default.IsEditable(kind, Finalised))
}

func TestNextLabel(t *testing.T) {
	label, ok := Default.NextLabel(document.KindOutboundShipment, Draft)
	assert.True(t, ok)
	assert.Equal(t, "label.confirmed", label)

	label, ok = Default.NextLabel(document.KindOutboundShipment, Confirmed)
	assert.True(t, ok)
	assert.Equal(t, "label.delivered", label)

	label, ok = Default.NextLabel(document.KindOutboundShipment, Finalised)
	assert.False(t, ok)
	assert.Empty(t, label)
}

func TestUnknownStatusAndKind(t *testing.T) {
	_, err := Default.Next(document.KindStocktake, Confirmed)
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.False(t, Default.IsEditable(document.KindStocktake, Confirmed))

	_, err = Default.Next(document.Kind("UNKNOWN"), Draft)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCanTransition(t *testing.T) {
	kind := document.KindRequestRequisition
	tests := []struct {
		name     string
		from, to Status
		wantErr  bool
		reverse  bool
		is       error
	}{
		{name: "no change", from: Draft, to: Draft},
		{name: "one step", from: Draft, to: Sent},
		{name: "skip", from: Draft, to: Finalised, wantErr: true, is: ErrSkippedStatus},
		{name: "reverse", from: Sent, to: Draft, wantErr: true, reverse: true},
		{name: "unknown target", from: Draft, to: Confirmed, wantErr: true, is: ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default.CanTransition(kind, tt.from, tt.to)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			k, ok := document.KindOf(err)
			assert.Equal(t, tt.reverse, ok && k == document.CannotReverseStatus)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestNewTableCopiesInput(t *testing.T) {
	statuses := []Status{New, Finalised}
	table := NewTable(map[document.Kind]Sequence{
		document.KindStocktake: {Statuses: statuses},
	})
	statuses[1] = Draft

	next, err := table.Next(document.KindStocktake, New)
	require.NoError(t, err)
	assert.Equal(t, Finalised, next)
}
