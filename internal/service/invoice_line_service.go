package service

import (
	"context"
	"time"

	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/pkg/document"
	"stockflow/pkg/events"
	"stockflow/pkg/status"

	"github.com/google/uuid"
)

func checkNumberOfPacks(packs float64) error {
	if packs < 1 {
		return document.Reject(document.NumberOfPacksBelowOne, "number of packs %v is below one", packs)
	}
	return nil
}

// editLines loads an editable invoice, lets edit change its lines and saves
// it in one unit of work.
func (s *invoiceService) editLines(ctx context.Context, storeId string, invoiceId uuid.UUID, edit func(invoice *entity.Invoice) error) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	invoice, err := s.find(ctx, uow, storeId, invoiceId)
	if err != nil {
		return nil, err
	}
	if !s.statuses.IsEditable(s.kind, status.Status(invoice.Status)) {
		return nil, document.Reject(document.CannotEditInvoice, "invoice %d is %s", invoice.InvoiceNumber, invoice.Status)
	}
	if err := edit(invoice); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice.UpdatedAt = &now
	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisherService.Publish(ctx, events.NewDocumentEvent(events.DocumentUpdated, string(s.kind), storeId, invoice.Id.String()))
	return s.mapper.ToResponse(invoice), nil
}

func invoiceLineIndex(invoice *entity.Invoice, lineId uuid.UUID) int {
	for i, l := range invoice.Lines {
		if l.Id == lineId {
			return i
		}
	}
	return -1
}

func (s *invoiceService) InsertLine(ctx context.Context, storeId string, invoiceId uuid.UUID, req *dto.InsertInvoiceLineRequest) (*dto.InvoiceResponse, error) {
	if err := checkNumberOfPacks(req.NumberOfPacks); err != nil {
		return nil, err
	}
	return s.editLines(ctx, storeId, invoiceId, func(invoice *entity.Invoice) error {
		id := uuid.New()
		if req.Id != nil {
			id = *req.Id
		}
		if invoiceLineIndex(invoice, id) >= 0 {
			return document.Reject(document.LineAlreadyExists, "line %s already exists", id)
		}
		invoice.Lines = append(invoice.Lines, entity.InvoiceLine{
			Id:            id,
			ItemId:        req.ItemId,
			ItemName:      req.ItemName,
			BatchName:     req.BatchName,
			PackSize:      req.PackSize,
			NumberOfPacks: req.NumberOfPacks,
			Note:          req.Note,
		})
		return nil
	})
}

func (s *invoiceService) UpdateLine(ctx context.Context, storeId string, invoiceId, lineId uuid.UUID, req *dto.UpdateInvoiceLineRequest) (*dto.InvoiceResponse, error) {
	if req.NumberOfPacks != nil {
		if err := checkNumberOfPacks(*req.NumberOfPacks); err != nil {
			return nil, err
		}
	}
	return s.editLines(ctx, storeId, invoiceId, func(invoice *entity.Invoice) error {
		i := invoiceLineIndex(invoice, lineId)
		if i < 0 {
			return document.Reject(document.RecordNotFound, "line %s not found", lineId)
		}
		line := &invoice.Lines[i]
		if req.BatchName != nil {
			line.BatchName = *req.BatchName
		}
		if req.PackSize != nil {
			line.PackSize = *req.PackSize
		}
		if req.NumberOfPacks != nil {
			line.NumberOfPacks = *req.NumberOfPacks
		}
		if req.Note != nil {
			line.Note = *req.Note
		}
		return nil
	})
}

func (s *invoiceService) DeleteLine(ctx context.Context, storeId string, invoiceId, lineId uuid.UUID) (*dto.InvoiceResponse, error) {
	return s.editLines(ctx, storeId, invoiceId, func(invoice *entity.Invoice) error {
		i := invoiceLineIndex(invoice, lineId)
		if i < 0 {
			return document.Reject(document.RecordNotFound, "line %s not found", lineId)
		}
		invoice.Lines = append(invoice.Lines[:i], invoice.Lines[i+1:]...)
		return nil
	})
}
