package controller

import (
	"context"

	"stockflow/internal/dto"
	"stockflow/internal/pkg/serverutils"
	"stockflow/internal/service"
	"stockflow/pkg/document"
	"stockflow/pkg/querycache"

	"github.com/gofiber/fiber/v2"
)

type IInvoiceController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Invalidate(prefix document.QueryKey)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	CreateLine(ctx *fiber.Ctx) error
	UpdateLine(ctx *fiber.Ctx) error
	DeleteLine(ctx *fiber.Ctx) error
}

type invoiceController struct {
	service  service.IInvoiceService
	lists    *querycache.Cache[*dto.ListResponse[*dto.InvoiceResponse]]
	pageSize int
}

// NewInvoiceController serves one invoice kind. List responses are cached
// until an event for the kind and store invalidates them.
func NewInvoiceController(service service.IInvoiceService, lists *querycache.Cache[*dto.ListResponse[*dto.InvoiceResponse]], pageSize int) IInvoiceController {
	return &invoiceController{service: service, lists: lists, pageSize: pageSize}
}

func (c *invoiceController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/" + routeOf(c.service.Kind()) + "/v1")
	h.Use(auth)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post("", c.Create)
	h.Patch(":id", c.Update)
	h.Delete("", c.Delete)
	h.Post(":id/lines", c.CreateLine)
	h.Patch(":id/lines/:lineId", c.UpdateLine)
	h.Delete(":id/lines/:lineId", c.DeleteLine)
}

func (c *invoiceController) Invalidate(prefix document.QueryKey) {
	c.lists.Invalidate(prefix)
}

func (c *invoiceController) List(ctx *fiber.Ctx) error {
	storeId := serverutils.StoreID(ctx)
	q, err := serverutils.ParseListQuery(ctx, string(document.FieldInvoiceNumber), c.pageSize)
	if err != nil {
		return err
	}

	key := document.ListKey(c.service.Kind(), storeId, q.Key())
	res, err := c.lists.Fetch(ctx.UserContext(), key, func(ctx context.Context) (*dto.ListResponse[*dto.InvoiceResponse], error) {
		return c.service.List(ctx, storeId, q)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list invoices", res))
}

func (c *invoiceController) Show(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), serverutils.StoreID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show invoice", res))
}

func (c *invoiceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Insert(ctx.UserContext(), serverutils.StoreID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create invoice", res))
}

func (c *invoiceController) Update(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateInvoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), serverutils.StoreID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update invoice", res))
}

func (c *invoiceController) Delete(ctx *fiber.Ctx) error {
	var req dto.DeleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Delete(ctx.UserContext(), serverutils.StoreID(ctx), req.Ids)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete invoices", res))
}

func (c *invoiceController) CreateLine(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req dto.InsertInvoiceLineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.InsertLine(ctx.UserContext(), serverutils.StoreID(ctx), id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create invoice line", res))
}

func (c *invoiceController) UpdateLine(ctx *fiber.Ctx) error {
	id, lineId, err := lineParams(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateInvoiceLineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateLine(ctx.UserContext(), serverutils.StoreID(ctx), id, lineId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update invoice line", res))
}

func (c *invoiceController) DeleteLine(ctx *fiber.Ctx) error {
	id, lineId, err := lineParams(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.DeleteLine(ctx.UserContext(), serverutils.StoreID(ctx), id, lineId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete invoice line", res))
}
