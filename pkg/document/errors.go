package document

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by fetchers when no document matches the key.
var ErrNotFound = errors.New("document not found")

// ErrorKind classifies a save rejected by a domain rule.
type ErrorKind string

const (
	RecordNotFound                    ErrorKind = "RecordNotFound"
	ForeignKeyError                   ErrorKind = "ForeignKeyError"
	CannotEditInvoice                 ErrorKind = "CannotEditInvoice"
	CannotEditRequisition             ErrorKind = "CannotEditRequisition"
	CannotEditStocktake               ErrorKind = "CannotEditStocktake"
	CannotReverseStatus               ErrorKind = "CannotReverseStatus"
	CannotChangeStatusOfInvoiceOnHold ErrorKind = "CannotChangeStatusOfInvoiceOnHold"
	NothingRemainingToSupply          ErrorKind = "NothingRemainingToSupply"
	OtherPartyNotACustomer            ErrorKind = "OtherPartyNotACustomer"
	OtherPartyNotASupplier            ErrorKind = "OtherPartyNotASupplier"
	InvalidStatusChange               ErrorKind = "InvalidStatusChange"
	NumberOfPacksBelowOne             ErrorKind = "NumberOfPacksBelowOne"
	LineAlreadyExists                 ErrorKind = "LineAlreadyExists"
)

// DomainError is a rejection by a business rule of the remote service. It is
// surfaced to callers as is and never retried.
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *DomainError of the same kind, so callers can write
// errors.Is(err, document.Reject(document.ForeignKeyError, "")).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Kind == e.Kind
}

// Reject builds a DomainError.
func Reject(kind ErrorKind, format string, args ...any) *DomainError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DomainError{Kind: kind, Message: msg}
}

// KindOf returns the domain error kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
