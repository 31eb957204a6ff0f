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

type IRequisitionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Invalidate(prefix document.QueryKey)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	CreateOutbound(ctx *fiber.Ctx) error
}

type requisitionController struct {
	service  service.IRequisitionService
	lists    *querycache.Cache[*dto.ListResponse[*dto.RequisitionResponse]]
	pageSize int
}

func NewRequisitionController(service service.IRequisitionService, lists *querycache.Cache[*dto.ListResponse[*dto.RequisitionResponse]], pageSize int) IRequisitionController {
	return &requisitionController{service: service, lists: lists, pageSize: pageSize}
}

func (c *requisitionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/" + routeOf(c.service.Kind()) + "/v1")
	h.Use(auth)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post("", c.Create)
	h.Patch(":id", c.Update)
	h.Delete("", c.Delete)
	if c.service.Kind() == document.KindResponseRequisition {
		h.Post(":id/outbound", c.CreateOutbound)
	}
}

func (c *requisitionController) Invalidate(prefix document.QueryKey) {
	c.lists.Invalidate(prefix)
}

func (c *requisitionController) List(ctx *fiber.Ctx) error {
	storeId := serverutils.StoreID(ctx)
	q, err := serverutils.ParseListQuery(ctx, string(document.FieldRequisitionNumber), c.pageSize)
	if err != nil {
		return err
	}

	key := document.ListKey(c.service.Kind(), storeId, q.Key())
	res, err := c.lists.Fetch(ctx.UserContext(), key, func(ctx context.Context) (*dto.ListResponse[*dto.RequisitionResponse], error) {
		return c.service.List(ctx, storeId, q)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list requisitions", res))
}

func (c *requisitionController) Show(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), serverutils.StoreID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show requisition", res))
}

func (c *requisitionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateRequisitionRequest
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

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create requisition", res))
}

func (c *requisitionController) Update(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateRequisitionRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success update requisition", res))
}

func (c *requisitionController) Delete(ctx *fiber.Ctx) error {
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

	return ctx.JSON(serverutils.SuccessResponse("Success delete requisitions", res))
}

func (c *requisitionController) CreateOutbound(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CreateOutboundFromResponse(ctx.UserContext(), serverutils.StoreID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create outbound shipment", res))
}
