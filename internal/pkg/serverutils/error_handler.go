package serverutils

import (
	"errors"

	"stockflow/pkg/document"
	"stockflow/pkg/listquery"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into JSON error
// responses. Domain rejections keep their kind so clients can branch on it.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, body := describe(err)
		return ctx.Status(code).JSON(body)
	}
}

func describe(err error) (int, ErrorResponse) {
	var (
		domainErr  *document.DomainError
		unknown    *document.UnknownFieldError
		validation validator.ValidationErrors
		fiberErr   *fiber.Error
	)

	switch {
	case errors.As(err, &domainErr):
		code := statusOf(domainErr.Kind)
		return code, ErrorResponse{Code: code, Kind: string(domainErr.Kind), Message: domainErr.Message}
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, ErrorResponse{
			Code:    fiber.StatusBadRequest,
			Message: "Validation failed",
			Errors:  fieldErrors(validation),
		}
	case errors.As(err, &unknown),
		errors.Is(err, listquery.ErrUnknownField),
		errors.Is(err, listquery.ErrUnknownOperator):
		return fiber.StatusBadRequest, ErrorResponse{Code: fiber.StatusBadRequest, Message: err.Error()}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse{Code: fiberErr.Code, Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, ErrorResponse{
		Code:    fiber.StatusInternalServerError,
		Message: "Internal server error",
	}
}

func statusOf(kind document.ErrorKind) int {
	switch kind {
	case document.RecordNotFound:
		return fiber.StatusNotFound
	case document.NumberOfPacksBelowOne:
		return fiber.StatusBadRequest
	case document.ForeignKeyError,
		document.OtherPartyNotACustomer,
		document.OtherPartyNotASupplier,
		document.InvalidStatusChange:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusConflict
}
