// Package remote connects the draft store and list caches to the document
// services. Documents travel under the field names of pkg/document.
package remote

import (
	"context"
	"errors"
	"fmt"

	"stockflow/internal/dto"
	"stockflow/internal/mapper"
	"stockflow/internal/service"
	"stockflow/pkg/document"

	"github.com/google/uuid"
)

// ErrUnsupportedKind is returned for a key whose kind has no service.
var ErrUnsupportedKind = errors.New("no service for kind")

// Services groups the document services by kind.
type Services struct {
	Invoices     map[document.Kind]service.IInvoiceService
	Requisitions map[document.Kind]service.IRequisitionService
	Stocktakes   service.IStocktakeService
}

// NewServices indexes invoice and requisition services by the kind they
// serve.
func NewServices(invoices []service.IInvoiceService, requisitions []service.IRequisitionService, stocktakes service.IStocktakeService) Services {
	s := Services{
		Invoices:     make(map[document.Kind]service.IInvoiceService, len(invoices)),
		Requisitions: make(map[document.Kind]service.IRequisitionService, len(requisitions)),
		Stocktakes:   stocktakes,
	}
	for _, svc := range invoices {
		s.Invoices[svc.Kind()] = svc
	}
	for _, svc := range requisitions {
		s.Requisitions[svc.Kind()] = svc
	}
	return s
}

// Source implements draft.Source over the services. Key scope is the store
// id and key target the document id.
type Source struct {
	services     Services
	invoices     *mapper.InvoiceMapper
	requisitions *mapper.RequisitionMapper
	stocktakes   *mapper.StocktakeMapper
}

func NewSource(services Services) *Source {
	return &Source{
		services:     services,
		invoices:     mapper.NewInvoiceMapper(),
		requisitions: mapper.NewRequisitionMapper(),
		stocktakes:   mapper.NewStocktakeMapper(),
	}
}

// Fetch reports a missing record as document.ErrNotFound.
func (s *Source) Fetch(ctx context.Context, key document.QueryKey) (document.Document, error) {
	id, err := uuid.Parse(key.Target)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an id", document.ErrNotFound, key.Target)
	}

	doc, err := s.fetch(ctx, key.Kind, key.Scope, id)
	if kind, ok := document.KindOf(err); ok && kind == document.RecordNotFound {
		return nil, fmt.Errorf("%w: %v", document.ErrNotFound, err)
	}
	return doc, err
}

func (s *Source) fetch(ctx context.Context, kind document.Kind, storeId string, id uuid.UUID) (document.Document, error) {
	if svc, ok := s.services.Invoices[kind]; ok {
		res, err := svc.Get(ctx, storeId, id)
		if err != nil {
			return nil, err
		}
		return s.invoices.ResponseToDocument(res), nil
	}
	if svc, ok := s.services.Requisitions[kind]; ok {
		res, err := svc.Get(ctx, storeId, id)
		if err != nil {
			return nil, err
		}
		return s.requisitions.ResponseToDocument(res), nil
	}
	if kind == document.KindStocktake && s.services.Stocktakes != nil {
		res, err := s.services.Stocktakes.Get(ctx, storeId, id)
		if err != nil {
			return nil, err
		}
		return s.stocktakes.ResponseToDocument(res), nil
	}
	return nil, fmt.Errorf("%w %s", ErrUnsupportedKind, kind)
}

// Save sends every editable field of doc; the services ignore fields that
// did not change.
func (s *Source) Save(ctx context.Context, key document.QueryKey, doc document.Document) (document.Document, error) {
	id, err := documentID(key)
	if err != nil {
		return nil, err
	}

	if svc, ok := s.services.Invoices[key.Kind]; ok {
		req, err := invoiceUpdate(id, doc)
		if err != nil {
			return nil, err
		}
		res, err := svc.Update(ctx, key.Scope, req)
		if err != nil {
			return nil, err
		}
		return s.invoices.ResponseToDocument(res), nil
	}
	if svc, ok := s.services.Requisitions[key.Kind]; ok {
		req, err := requisitionUpdate(key.Kind, id, doc)
		if err != nil {
			return nil, err
		}
		res, err := svc.Update(ctx, key.Scope, req)
		if err != nil {
			return nil, err
		}
		return s.requisitions.ResponseToDocument(res), nil
	}
	if key.Kind == document.KindStocktake && s.services.Stocktakes != nil {
		req, err := stocktakeUpdate(id, doc)
		if err != nil {
			return nil, err
		}
		res, err := s.services.Stocktakes.Update(ctx, key.Scope, req)
		if err != nil {
			return nil, err
		}
		return s.stocktakes.ResponseToDocument(res), nil
	}
	return nil, fmt.Errorf("%w %s", ErrUnsupportedKind, key.Kind)
}

func invoiceUpdate(id uuid.UUID, doc document.Document) (*dto.UpdateInvoiceRequest, error) {
	otherParty, err := referenceID(doc)
	if err != nil {
		return nil, err
	}
	return &dto.UpdateInvoiceRequest{
		Id:             id,
		Status:         stringField(doc, document.FieldStatus),
		OtherPartyId:   otherParty,
		Comment:        stringField(doc, document.FieldComment),
		TheirReference: stringField(doc, document.FieldTheirReference),
		Colour:         stringField(doc, document.FieldColour),
		OnHold:         boolField(doc, document.FieldOnHold),
	}, nil
}

func requisitionUpdate(kind document.Kind, id uuid.UUID, doc document.Document) (*dto.UpdateRequisitionRequest, error) {
	req := &dto.UpdateRequisitionRequest{
		Id:               id,
		Status:           stringField(doc, document.FieldStatus),
		Comment:          stringField(doc, document.FieldComment),
		TheirReference:   stringField(doc, document.FieldTheirReference),
		Colour:           stringField(doc, document.FieldColour),
		MinMonthsOfStock: floatField(doc, document.FieldMinMonthsOfStock),
		MaxMonthsOfStock: floatField(doc, document.FieldMaxMonthsOfStock),
	}
	if _, association := document.PolicyFor(kind).Allows(document.FieldOtherParty); association {
		otherParty, err := referenceID(doc)
		if err != nil {
			return nil, err
		}
		req.OtherPartyId = otherParty
	}
	return req, nil
}

func stocktakeUpdate(id uuid.UUID, doc document.Document) (*dto.UpdateStocktakeRequest, error) {
	date, err := timeField(doc, document.FieldStocktakeDate)
	if err != nil {
		return nil, err
	}
	return &dto.UpdateStocktakeRequest{
		Id:            id,
		Status:        stringField(doc, document.FieldStatus),
		Description:   stringField(doc, document.FieldDescription),
		Comment:       stringField(doc, document.FieldComment),
		StocktakeDate: date,
		IsLocked:      boolField(doc, document.FieldIsLocked),
	}, nil
}
