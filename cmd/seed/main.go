package main

import (
	"context"
	"log"

	"stockflow/internal/bootstrap"
	"stockflow/internal/config"
	"stockflow/internal/dto"
	"stockflow/internal/entity"
	"stockflow/internal/remote"
	"stockflow/internal/repository/memory"
	"stockflow/internal/repository/unitofwork"
	"stockflow/pkg/database"
	"stockflow/pkg/document"
	"stockflow/pkg/listquery"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var uowFactory unitofwork.RepositoryFactory
	if cfg.Database.Connection != "" {
		db, err := database.Open(cfg.Database.Connection, database.DefaultPool, false)
		if err != nil {
			log.Fatal("Error: Failed to connect to database:", err)
		}
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		color.Yellow("DB_CONNECTION_STRING is not set, seeding an in-memory store")
		uowFactory = unitofwork.NewMemoryRepositoryFactory(memory.NewStore())
	}

	container := bootstrap.NewContainer(uowFactory, cfg)
	defer container.Close()
	if err := container.Start(ctx); err != nil {
		log.Fatal(err)
	}

	storeId := cfg.App.DefaultStoreID
	color.Cyan("Seeding store %s\n", storeId)

	color.Yellow("\n1. Names")
	customer, supplier, err := seedNames(ctx, uowFactory)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("customer %s, supplier %s", customer.Name, supplier.Name)

	color.Yellow("\n2. Documents")
	services := container.Services
	outbound, err := services.Invoices[document.KindOutboundShipment].Insert(ctx, storeId, &dto.CreateInvoiceRequest{
		OtherPartyId: customer.Id,
		Comment:      "Weekly delivery",
		Colour:       "#1e88e5",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("outbound shipment #%d %s", outbound.InvoiceNumber, outbound.Status)

	if _, err := services.Invoices[document.KindInboundShipment].Insert(ctx, storeId, &dto.CreateInvoiceRequest{
		OtherPartyId:   supplier.Id,
		TheirReference: "PO-1001",
	}); err != nil {
		color.Red("Failed: %v", err)
		return
	}

	response, err := services.Requisitions[document.KindResponseRequisition].Insert(ctx, storeId, &dto.CreateRequisitionRequest{
		OtherPartyId:     customer.Id,
		MinMonthsOfStock: 1,
		MaxMonthsOfStock: 3,
		Lines: []dto.RequisitionLineRequest{
			{ItemId: "amox-250", ItemName: "Amoxicillin 250mg", RequestedQuantity: 100, SupplyQuantity: 80},
			{ItemId: "para-500", ItemName: "Paracetamol 500mg", RequestedQuantity: 50, SupplyQuantity: 50},
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("response requisition #%d with %d lines", response.RequisitionNumber, len(response.Lines))

	supplied, err := services.Requisitions[document.KindResponseRequisition].CreateOutboundFromResponse(ctx, storeId, response.Id)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("outbound shipment #%d created from requisition", supplied.InvoiceNumber)

	if _, err := services.Stocktakes.Insert(ctx, storeId, &dto.CreateStocktakeRequest{Description: "Quarterly count"}); err != nil {
		color.Red("Failed: %v", err)
		return
	}

	color.Yellow("\n3. Draft editing")
	key := document.Key(document.KindOutboundShipment, storeId, outbound.Id.String())
	sel, err := container.Drafts.Open(ctx, key, container.Source, nil, document.FieldStatus, document.FieldComment)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	defer sel.Close()

	if _, err := sel.Update(ctx, map[document.FieldName]any{document.FieldComment: "Weekly delivery, fragile"}); err != nil {
		color.Red("Failed: %v", err)
		return
	}
	packs := 12.0
	if _, err := container.Drafts.Mutate(ctx, key, func(ctx context.Context) (document.Document, error) {
		return container.Source.InsertLine(ctx, key, remote.LineInput{ItemId: "PARA500", ItemName: "Paracetamol 500mg", NumberOfPacks: &packs})
	}); err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("line added to outbound shipment #%d", outbound.InvoiceNumber)
	for sel.IsEditable(container.Statuses) {
		label, _ := sel.NextStatusLabel(container.Statuses)
		next, err := sel.AdvanceStatus(ctx, container.Statuses)
		if err != nil {
			color.Red("Failed: %v", err)
			return
		}
		color.Green("advanced to %s (%s)", next, label)
	}

	color.Yellow("\n4. Lists")
	q := listquery.New(string(document.FieldInvoiceNumber), cfg.Cache.DefaultPageSize).
		WithFilter(string(document.FieldStatus), listquery.EqualTo, "DRAFT")
	page, err := container.Lister.List(ctx, document.KindOutboundShipment, storeId, q)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("%d draft outbound shipments", page.TotalCount)

	color.Yellow("\n5. Bulk delete")
	table := remote.TableKey(document.KindOutboundShipment, storeId)
	container.Selections.Acquire(table)
	defer container.Selections.Release(table)
	for _, row := range page.Rows() {
		container.Selections.Toggle(table, row.RowID())
	}
	deleted, err := container.Lister.DeleteSelected(ctx, document.KindOutboundShipment, storeId, container.Selections, table, page)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("deleted %d draft outbound shipments", len(deleted))

	color.Cyan("\nDone")
}

func seedNames(ctx context.Context, uowFactory unitofwork.RepositoryFactory) (*entity.Name, *entity.Name, error) {
	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	customer := &entity.Name{Id: uuid.New(), Code: "C001", Name: "Central Clinic", IsCustomer: true}
	supplier := &entity.Name{Id: uuid.New(), Code: "S001", Name: "Medical Wholesale Ltd", IsSupplier: true}
	for _, name := range []*entity.Name{customer, supplier} {
		if err := uow.NameRepository().Create(ctx, name); err != nil {
			return nil, nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}
	return customer, supplier, nil
}
