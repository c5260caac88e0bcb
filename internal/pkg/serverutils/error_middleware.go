package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the standard JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return writeError(ctx, err)
	}
}

// FiberErrorHandler is the last resort handler for fiber.Config.
func FiberErrorHandler(ctx *fiber.Ctx, err error) error {
	return writeError(ctx, err)
}

func writeError(ctx *fiber.Ctx, err error) error {
	status, _, message := Describe(err)
	res := ErrorResponse(status, message)
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Details != nil {
		res.Data = appErr.Details
	}
	return ctx.Status(status).JSON(res)
}
