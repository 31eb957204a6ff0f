package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/internal/dto"
	"stockflow/pkg/document"
	"stockflow/pkg/events"
	"stockflow/pkg/status"
)

func newRequisitions(f *fixture, kind document.Kind) IRequisitionService {
	return NewRequisitionService(kind, f.factory, f.publisher, status.Default)
}

func TestRequestRequisitionNeedsSupplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requests := newRequisitions(f, document.KindRequestRequisition)

	_, err := requests.Insert(ctx, storeId, &dto.CreateRequisitionRequest{OtherPartyId: f.customer.Id})
	requireKind(t, err, document.OtherPartyNotASupplier)

	req, err := requests.Insert(ctx, storeId, &dto.CreateRequisitionRequest{OtherPartyId: f.supplier.Id})
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", req.Status)

	sent, err := requests.Update(ctx, storeId, &dto.UpdateRequisitionRequest{Id: req.Id, Status: ptr("SENT"), MaxMonthsOfStock: ptr(4.0)})
	require.NoError(t, err)
	assert.NotNil(t, sent.SentDatetime)
	assert.Nil(t, sent.FinalisedDatetime)
	assert.Equal(t, 4.0, sent.MaxMonthsOfStock)
}

func TestResponseRequisitionKeepsItsCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	responses := newRequisitions(f, document.KindResponseRequisition)
	other := f.customer.Id

	res, err := responses.Insert(ctx, storeId, &dto.CreateRequisitionRequest{OtherPartyId: f.customer.Id})
	require.NoError(t, err)
	assert.Equal(t, "NEW", res.Status)

	_, err = responses.Update(ctx, storeId, &dto.UpdateRequisitionRequest{Id: res.Id, OtherPartyId: ptr(f.supplier.Id)})
	requireKind(t, err, document.CannotEditRequisition)

	_, err = responses.Update(ctx, storeId, &dto.UpdateRequisitionRequest{Id: res.Id, OtherPartyId: &other, Comment: ptr("ok")})
	require.NoError(t, err)
}

func TestCreateOutboundFromResponse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	responses := newRequisitions(f, document.KindResponseRequisition)
	outbound := newOutbound(f)

	res, err := responses.Insert(ctx, storeId, &dto.CreateRequisitionRequest{
		OtherPartyId: f.customer.Id,
		Lines: []dto.RequisitionLineRequest{
			{ItemId: "a", ItemName: "Amoxicillin", RequestedQuantity: 10, SupplyQuantity: 8},
			{ItemId: "b", ItemName: "Bandage", RequestedQuantity: 5, SupplyQuantity: 0},
		},
	})
	require.NoError(t, err)
	before := len(f.publisher.published())

	invoice, err := responses.CreateOutboundFromResponse(ctx, storeId, res.Id)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", invoice.Status)
	assert.Equal(t, f.customer.Id, invoice.OtherPartyId)
	require.NotNil(t, invoice.RequisitionId)
	assert.Equal(t, res.Id, *invoice.RequisitionId)
	assert.Contains(t, invoice.Comment, "requisition 1")

	stored, err := outbound.Get(ctx, storeId, invoice.Id)
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceNumber, stored.InvoiceNumber)

	updated, err := responses.Get(ctx, storeId, res.Id)
	require.NoError(t, err)
	assert.Equal(t, 8.0, updated.Lines[0].SuppliedQuantity)
	assert.Zero(t, updated.Lines[0].RemainingToSupply)

	published := f.publisher.published()[before:]
	require.Len(t, published, 2)
	assert.Equal(t, events.DocumentCreated, published[0].Type)
	assert.Equal(t, string(document.KindOutboundShipment), published[0].Kind)
	assert.Equal(t, events.DocumentUpdated, published[1].Type)

	_, err = responses.CreateOutboundFromResponse(ctx, storeId, res.Id)
	requireKind(t, err, document.NothingRemainingToSupply)
}

func TestCreateOutboundRejectsFinalisedOrRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	responses := newRequisitions(f, document.KindResponseRequisition)
	requests := newRequisitions(f, document.KindRequestRequisition)

	res, err := responses.Insert(ctx, storeId, &dto.CreateRequisitionRequest{
		OtherPartyId: f.customer.Id,
		Lines:        []dto.RequisitionLineRequest{{ItemId: "a", ItemName: "A", SupplyQuantity: 1}},
	})
	require.NoError(t, err)
	_, err = responses.Update(ctx, storeId, &dto.UpdateRequisitionRequest{Id: res.Id, Status: ptr("FINALISED")})
	require.NoError(t, err)

	_, err = responses.CreateOutboundFromResponse(ctx, storeId, res.Id)
	requireKind(t, err, document.CannotEditRequisition)

	req, err := requests.Insert(ctx, storeId, &dto.CreateRequisitionRequest{OtherPartyId: f.supplier.Id})
	require.NoError(t, err)
	_, err = requests.CreateOutboundFromResponse(ctx, storeId, req.Id)
	requireKind(t, err, document.CannotEditRequisition)
}
