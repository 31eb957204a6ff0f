// Package status holds the forward-only status sequences of every document
// kind and the editability rule derived from them.
package status

import (
	"errors"
	"fmt"

	"stockflow/pkg/document"
)

// Status is a document status value as stored remotely.
type Status string

const (
	New       Status = "NEW"
	Draft     Status = "DRAFT"
	Sent      Status = "SENT"
	Confirmed Status = "CONFIRMED"
	Finalised Status = "FINALISED"
)

var (
	ErrNoNextStatus  = errors.New("no next status")
	ErrSkippedStatus = errors.New("status change skips a status")
	ErrUnknownStatus = errors.New("status is not part of the sequence")
	ErrUnknownKind   = errors.New("no status sequence for kind")
)

// Sequence is the ordered statuses of one kind with a translation key per
// status for button and chip labels.
type Sequence struct {
	Statuses []Status
	Labels   map[Status]string
}

// Table maps each kind to its sequence. The zero value is empty; use Default.
type Table struct {
	sequences map[document.Kind]Sequence
}

// NewTable builds a table from explicit sequences. Sequences are copied.
func NewTable(sequences map[document.Kind]Sequence) *Table {
	t := &Table{sequences: make(map[document.Kind]Sequence, len(sequences))}
	for kind, seq := range sequences {
		statuses := make([]Status, len(seq.Statuses))
		copy(statuses, seq.Statuses)
		labels := make(map[Status]string, len(seq.Labels))
		for s, l := range seq.Labels {
			labels[s] = l
		}
		t.sequences[kind] = Sequence{Statuses: statuses, Labels: labels}
	}
	return t
}

var shipmentSequence = Sequence{
	Statuses: []Status{Draft, Confirmed, Finalised},
	Labels: map[Status]string{
		Draft:     "label.draft",
		Confirmed: "label.confirmed",
		Finalised: "label.delivered",
	},
}

// Default is the table used across the application.
var Default = NewTable(map[document.Kind]Sequence{
	document.KindOutboundShipment: shipmentSequence,
	document.KindInboundShipment:  shipmentSequence,
	document.KindRequestRequisition: {
		Statuses: []Status{Draft, Sent, Finalised},
		Labels: map[Status]string{
			Draft:     "label.draft",
			Sent:      "label.sent",
			Finalised: "label.finalised",
		},
	},
	document.KindResponseRequisition: {
		Statuses: []Status{New, Finalised},
		Labels: map[Status]string{
			New:       "label.new",
			Finalised: "label.finalised",
		},
	},
	document.KindStocktake: {
		Statuses: []Status{New, Finalised},
		Labels: map[Status]string{
			New:       "label.new",
			Finalised: "label.finalised",
		},
	},
})

// Sequence returns a copy of the statuses for kind.
func (t *Table) Sequence(kind document.Kind) ([]Status, error) {
	seq, ok := t.sequences[kind]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownKind, kind)
	}
	out := make([]Status, len(seq.Statuses))
	copy(out, seq.Statuses)
	return out, nil
}

func (t *Table) index(kind document.Kind, s Status) (Sequence, int, error) {
	seq, ok := t.sequences[kind]
	if !ok {
		return Sequence{}, -1, fmt.Errorf("%w %s", ErrUnknownKind, kind)
	}
	for i, candidate := range seq.Statuses {
		if candidate == s {
			return seq, i, nil
		}
	}
	return seq, -1, fmt.Errorf("%w: %s on %s", ErrUnknownStatus, s, kind)
}

// Next returns the status one position after current.
func (t *Table) Next(kind document.Kind, current Status) (Status, error) {
	seq, i, err := t.index(kind, current)
	if err != nil {
		return "", err
	}
	if i+1 >= len(seq.Statuses) {
		return "", fmt.Errorf("%w after %s on %s", ErrNoNextStatus, current, kind)
	}
	return seq.Statuses[i+1], nil
}

// IsEditable is true for every status of the sequence except the terminal
// one. A status outside the sequence is not editable.
func (t *Table) IsEditable(kind document.Kind, current Status) bool {
	seq, i, err := t.index(kind, current)
	if err != nil {
		return false
	}
	return i < len(seq.Statuses)-1
}

// IsTerminal reports whether current is the last status of kind.
func (t *Table) IsTerminal(kind document.Kind, current Status) bool {
	seq, i, err := t.index(kind, current)
	return err == nil && i == len(seq.Statuses)-1
}

// Label returns the translation key for s, "" when none is declared.
func (t *Table) Label(kind document.Kind, s Status) string {
	return t.sequences[kind].Labels[s]
}

// NextLabel returns the label of the next status; ok is false at the terminal
// status, which is an expected state rather than a failure.
func (t *Table) NextLabel(kind document.Kind, current Status) (label string, ok bool) {
	next, err := t.Next(kind, current)
	if err != nil {
		return "", false
	}
	return t.Label(kind, next), true
}

// CanTransition accepts from == to (no change) and exactly one step forward.
func (t *Table) CanTransition(kind document.Kind, from, to Status) error {
	if from == to {
		_, _, err := t.index(kind, from)
		return err
	}
	_, fi, err := t.index(kind, from)
	if err != nil {
		return err
	}
	_, ti, err := t.index(kind, to)
	if err != nil {
		return err
	}
	if ti < fi {
		return document.Reject(document.CannotReverseStatus, "cannot move %s from %s back to %s", kind, from, to)
	}
	if ti != fi+1 {
		return fmt.Errorf("%w: %s from %s to %s", ErrSkippedStatus, kind, from, to)
	}
	return nil
}
