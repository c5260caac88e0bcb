// FILE: internal/controller/tool_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IToolController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	ListTools(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
}

type toolController struct {
	service     service.IGenerationService
	development bool
}

// NewToolController serves the generation endpoints. Their bodies are the bare
// result object, not the BaseResponse envelope.
func NewToolController(service service.IGenerationService, development bool) IToolController {
	return &toolController{service: service, development: development}
}

func (c *toolController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/tools")
	h.Get("/", c.ListTools)
	h.Post("/:slug", auth, c.Generate)
}

func (c *toolController) ListTools(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success fetching tools", c.service.ListTools()))
}

func (c *toolController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return generationFailure(ctx, serverutils.BadRequest("Invalid request body"), c.development)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return generationFailure(ctx, err, c.development)
	}

	res, err := c.service.Generate(ctx.UserContext(), serverutils.UserId(ctx), ctx.Params("slug"), &req)
	if err != nil {
		return generationFailure(ctx, err, c.development)
	}
	return ctx.JSON(res)
}

// generationFailure writes {error, code, details?}. Internals only leave the process in development.
func generationFailure(ctx *fiber.Ctx, err error, development bool) error {
	status, code, message := serverutils.Describe(err)
	body := serverutils.GenerationError{Error: message, Code: code}
	if development {
		body.Details = err.Error()
	}
	return ctx.Status(status).JSON(body)
}
