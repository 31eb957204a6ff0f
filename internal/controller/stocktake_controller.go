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

type IStocktakeController interface {
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

type stocktakeController struct {
	service  service.IStocktakeService
	lists    *querycache.Cache[*dto.ListResponse[*dto.StocktakeResponse]]
	pageSize int
}

func NewStocktakeController(service service.IStocktakeService, lists *querycache.Cache[*dto.ListResponse[*dto.StocktakeResponse]], pageSize int) IStocktakeController {
	return &stocktakeController{service: service, lists: lists, pageSize: pageSize}
}

func (c *stocktakeController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/stocktake/v1")
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

func (c *stocktakeController) Invalidate(prefix document.QueryKey) {
	c.lists.Invalidate(prefix)
}

func (c *stocktakeController) List(ctx *fiber.Ctx) error {
	storeId := serverutils.StoreID(ctx)
	q, err := serverutils.ParseListQuery(ctx, string(document.FieldStocktakeNumber), c.pageSize)
	if err != nil {
		return err
	}

	key := document.ListKey(document.KindStocktake, storeId, q.Key())
	res, err := c.lists.Fetch(ctx.UserContext(), key, func(ctx context.Context) (*dto.ListResponse[*dto.StocktakeResponse], error) {
		return c.service.List(ctx, storeId, q)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list stocktakes", res))
}

func (c *stocktakeController) Show(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), serverutils.StoreID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show stocktake", res))
}

func (c *stocktakeController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateStocktakeRequest
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

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create stocktake", res))
}

func (c *stocktakeController) Update(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateStocktakeRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success update stocktake", res))
}

func (c *stocktakeController) Delete(ctx *fiber.Ctx) error {
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

	return ctx.JSON(serverutils.SuccessResponse("Success delete stocktakes", res))
}

func (c *stocktakeController) CreateLine(ctx *fiber.Ctx) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req dto.InsertStocktakeLineRequest
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

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create stocktake line", res))
}

func (c *stocktakeController) UpdateLine(ctx *fiber.Ctx) error {
	id, lineId, err := lineParams(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateStocktakeLineRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success update stocktake line", res))
}

func (c *stocktakeController) DeleteLine(ctx *fiber.Ctx) error {
	id, lineId, err := lineParams(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.DeleteLine(ctx.UserContext(), serverutils.StoreID(ctx), id, lineId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete stocktake line", res))
}
