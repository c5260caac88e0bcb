// FILE: internal/controller/credit_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICreditController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetBalance(ctx *fiber.Ctx) error
	ListTransactions(ctx *fiber.Ctx) error
}

type creditController struct {
	service service.ICreditService
}

func NewCreditController(service service.ICreditService) ICreditController {
	return &creditController{service: service}
}

func (c *creditController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/credits", auth)
	h.Get("/", c.GetBalance)
	h.Get("/transactions", c.ListTransactions)
}

func (c *creditController) GetBalance(ctx *fiber.Ctx) error {
	res, err := c.service.GetBalance(ctx.UserContext(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching balance", res))
}

func (c *creditController) ListTransactions(ctx *fiber.Ctx) error {
	var query dto.PageQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.BadRequest("Invalid query")
	}

	res, err := c.service.ListTransactions(ctx.UserContext(), serverutils.UserId(ctx), query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching transactions", res))
}
