package controller

import (
	"strings"

	"stockflow/pkg/document"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func idParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// lineParams reads the document id and the line id of a line route.
func lineParams(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	id, err := idParam(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	lineId, err := uuid.Parse(ctx.Params("lineId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid line id")
	}
	return id, lineId, nil
}

// routeOf turns OUTBOUND_SHIPMENT into outbound-shipment.
func routeOf(kind document.Kind) string {
	return strings.ReplaceAll(strings.ToLower(string(kind)), "_", "-")
}
