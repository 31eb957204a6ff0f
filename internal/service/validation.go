package service

import (
	"context"
	"time"

	"stockflow/internal/entity"
	"stockflow/internal/repository/specification"
	"stockflow/internal/repository/unitofwork"
	"stockflow/pkg/document"
	"stockflow/pkg/status"

	"github.com/google/uuid"
)

func notFound(kind document.Kind, id uuid.UUID) error {
	return document.Reject(document.RecordNotFound, "%s %s not found", kind, id)
}

// checkOtherParty loads the counterparty and makes sure it may trade with the
// store as kind requires.
func checkOtherParty(ctx context.Context, uow unitofwork.UnitOfWork, kind document.Kind, id uuid.UUID) (*entity.Name, error) {
	name, err := uow.NameRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if name == nil {
		return nil, document.Reject(document.ForeignKeyError, "other party %s does not exist", id)
	}

	switch kind {
	case document.KindOutboundShipment, document.KindResponseRequisition:
		if !name.IsCustomer {
			return nil, document.Reject(document.OtherPartyNotACustomer, "%s is not a customer", name.Name)
		}
	case document.KindInboundShipment, document.KindRequestRequisition:
		if !name.IsSupplier {
			return nil, document.Reject(document.OtherPartyNotASupplier, "%s is not a supplier", name.Name)
		}
	}
	return name, nil
}

// checkStatusChange accepts exactly one step forward. Moving back keeps its
// CannotReverseStatus rejection, any other bad move becomes
// InvalidStatusChange.
func checkStatusChange(table *status.Table, kind document.Kind, from, to string) error {
	err := table.CanTransition(kind, status.Status(from), status.Status(to))
	if err == nil {
		return nil
	}
	if _, ok := document.KindOf(err); ok {
		return err
	}
	return document.Reject(document.InvalidStatusChange, "%s", err.Error())
}

func firstStatus(table *status.Table, kind document.Kind) (string, error) {
	seq, err := table.Sequence(kind)
	if err != nil {
		return "", err
	}
	return string(seq[0]), nil
}

func changed[T comparable](next *T, current T) bool {
	return next != nil && *next != current
}

func timeChanged(next *time.Time, current *time.Time) bool {
	if next == nil {
		return false
	}
	return current == nil || !next.Equal(*current)
}
