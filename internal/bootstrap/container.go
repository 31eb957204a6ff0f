package bootstrap

import (
	"context"
	"log"

	"stockflow/internal/config"
	"stockflow/internal/controller"
	"stockflow/internal/dto"
	"stockflow/internal/pkg/logger"
	"stockflow/internal/remote"
	"stockflow/internal/repository/unitofwork"
	"stockflow/internal/service"
	"stockflow/pkg/document"
	"stockflow/pkg/draft"
	"stockflow/pkg/querycache"
	"stockflow/pkg/selection"
	"stockflow/pkg/status"

	pktNats "stockflow/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DocumentTopic is the in-process topic carrying document events.
const DocumentTopic = "stockflow.documents"

type Container struct {
	// Controllers
	InvoiceControllers     []controller.IInvoiceController
	RequisitionControllers []controller.IRequisitionController
	StocktakeController    controller.IStocktakeController

	// Services, shared by the REST layer and the draft store
	Services remote.Services
	Statuses *status.Table

	// Client side of the document sync
	Drafts *draft.Store
	Source *remote.Source
	Lister *remote.Lister
	// Row selection per list table, see remote.TableKey
	Selections *selection.Store

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
}

func NewContainer(uowFactory unitofwork.RepositoryFactory, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	eventLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)

	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	var external service.EventPublisher
	if natsPub != nil {
		external = natsPub
	}
	publisherService := service.NewPublisherService(DocumentTopic, pubSub, external, eventLogger)

	statuses := status.Default
	invoiceServices := []service.IInvoiceService{
		service.NewInvoiceService(document.KindOutboundShipment, uowFactory, publisherService, statuses),
		service.NewInvoiceService(document.KindInboundShipment, uowFactory, publisherService, statuses),
	}
	requisitionServices := []service.IRequisitionService{
		service.NewRequisitionService(document.KindRequestRequisition, uowFactory, publisherService, statuses),
		service.NewRequisitionService(document.KindResponseRequisition, uowFactory, publisherService, statuses),
	}
	stocktakeService := service.NewStocktakeService(uowFactory, publisherService, statuses)
	services := remote.NewServices(invoiceServices, requisitionServices, stocktakeService)

	ttl, cleanup, pageSize := cfg.Cache.TTL, cfg.Cache.CleanupInterval, cfg.Cache.DefaultPageSize
	invalidators := []service.Invalidator{}

	invoiceControllers := make([]controller.IInvoiceController, 0, len(invoiceServices))
	for _, svc := range invoiceServices {
		c := controller.NewInvoiceController(svc, querycache.New[*dto.ListResponse[*dto.InvoiceResponse]](ttl, cleanup), pageSize)
		invoiceControllers = append(invoiceControllers, c)
		invalidators = append(invalidators, c)
	}
	requisitionControllers := make([]controller.IRequisitionController, 0, len(requisitionServices))
	for _, svc := range requisitionServices {
		c := controller.NewRequisitionController(svc, querycache.New[*dto.ListResponse[*dto.RequisitionResponse]](ttl, cleanup), pageSize)
		requisitionControllers = append(requisitionControllers, c)
		invalidators = append(invalidators, c)
	}
	stocktakeController := controller.NewStocktakeController(stocktakeService, querycache.New[*dto.ListResponse[*dto.StocktakeResponse]](ttl, cleanup), pageSize)
	invalidators = append(invalidators, stocktakeController)

	documentCache := querycache.New[document.Document](ttl, cleanup)
	lister := remote.NewLister(services, querycache.New[remote.Page](ttl, cleanup))
	invalidators = append(invalidators, documentCache, lister)

	drafts := draft.NewStore(
		draft.WithCache(documentCache),
		draft.WithLogger(sysLogger),
	)

	consumerService := service.NewConsumerService(pubSub, DocumentTopic, eventLogger, invalidators...)

	return &Container{
		InvoiceControllers:     invoiceControllers,
		RequisitionControllers: requisitionControllers,
		StocktakeController:    stocktakeController,

		Services: services,
		Statuses: statuses,

		Drafts:     drafts,
		Source:     remote.NewSource(services),
		Lister:     lister,
		Selections: selection.NewStore(),

		ConsumerService: consumerService,
		Logger:          sysLogger,

		pubSub:  pubSub,
		natsPub: natsPub,
		natsSub: natsSub,
	}
}

// Start runs the in-process consumer and, when NATS is configured, listens
// for events published by other instances.
func (c *Container) Start(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	if c.natsSub == nil {
		return nil
	}
	return c.natsSub.Subscribe(ctx, "", "", c.ConsumerService.Handle)
}

func (c *Container) Close() {
	c.Drafts.Close()
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close pubsub: %v", err)
	}
	_ = c.Logger.Sync()
}
