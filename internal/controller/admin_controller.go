// FILE: internal/controller/admin_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler, adminOnly fiber.Handler)
	ListUsers(ctx *fiber.Ctx) error
	GrantCredits(ctx *fiber.Ctx) error
	RefreshCatalog(ctx *fiber.Ctx) error
	ResolveSlug(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router, auth fiber.Handler, adminOnly fiber.Handler) {
	h := r.Group("/admin", auth, adminOnly)
	h.Get("/users", c.ListUsers)
	h.Post("/users/:userId/credits", c.GrantCredits)
	h.Post("/catalog/refresh", c.RefreshCatalog)
	h.Get("/catalog/resolve", c.ResolveSlug)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	var query dto.AdminUserQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.BadRequest("Invalid query")
	}
	res, err := c.service.ListUsers(ctx.UserContext(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching users", res))
}

func (c *adminController) GrantCredits(ctx *fiber.Ctx) error {
	var req dto.GrantCreditsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.GrantCredits(ctx.UserContext(), serverutils.UserId(ctx), ctx.Params("userId"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Credits granted", res))
}

func (c *adminController) RefreshCatalog(ctx *fiber.Ctx) error {
	res, err := c.service.RefreshCatalog(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Catalog refreshed", res))
}

func (c *adminController) ResolveSlug(ctx *fiber.Ctx) error {
	res, err := c.service.ResolveSlug(ctx.UserContext(), ctx.Query("slug"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Resolved", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	res, err := c.service.GetLogs(ctx.Query("level"), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching logs", res))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	res, err := c.service.GetLogById(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching log", res))
}
