// FILE: internal/controller/prompt_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPromptController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Enhance(ctx *fiber.Ctx) error
}

type promptController struct {
	service     service.IPromptService
	development bool
}

func NewPromptController(service service.IPromptService, development bool) IPromptController {
	return &promptController{service: service, development: development}
}

func (c *promptController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/prompt-wizard", auth, c.Enhance)
}

func (c *promptController) Enhance(ctx *fiber.Ctx) error {
	var req dto.PromptWizardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return generationFailure(ctx, serverutils.BadRequest("Invalid request body"), c.development)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return generationFailure(ctx, err, c.development)
	}

	res, err := c.service.Enhance(ctx.UserContext(), serverutils.UserId(ctx), &req)
	if err != nil {
		return generationFailure(ctx, err, c.development)
	}
	return ctx.JSON(res)
}
