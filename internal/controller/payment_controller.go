// FILE: internal/controller/payment_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetPacks(ctx *fiber.Ctx) error
	StripeCheckout(ctx *fiber.Ctx) error
	StripeWebhook(ctx *fiber.Ctx) error
	MidtransCheckout(ctx *fiber.Ctx) error
	MidtransNotification(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/payment")
	// Provider callbacks authenticate by signature, not by user token.
	h.Post("/stripe/webhook", c.StripeWebhook)
	h.Post("/midtrans/notification", c.MidtransNotification)
	h.Get("/packs", c.GetPacks)

	h.Post("/checkout", auth, c.StripeCheckout)
	h.Post("/midtrans/checkout", auth, c.MidtransCheckout)
}

func (c *paymentController) GetPacks(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success fetching credit packs", c.service.ListPacks()))
}

func (c *paymentController) parseCheckout(ctx *fiber.Ctx) (*dto.CheckoutRequest, error) {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *paymentController) StripeCheckout(ctx *fiber.Ctx) error {
	req, err := c.parseCheckout(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.CreateStripeCheckout(ctx.UserContext(), serverutils.UserId(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *paymentController) MidtransCheckout(ctx *fiber.Ctx) error {
	req, err := c.parseCheckout(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.CreateMidtransCheckout(ctx.UserContext(), serverutils.UserId(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *paymentController) StripeWebhook(ctx *fiber.Ctx) error {
	// fiber reuses the body buffer after the handler returns
	payload := append([]byte(nil), ctx.Body()...)
	res, err := c.service.HandleStripeWebhook(ctx.UserContext(), payload, ctx.Get("Stripe-Signature"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook processed", res))
}

func (c *paymentController) MidtransNotification(ctx *fiber.Ctx) error {
	var req dto.MidtransNotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid notification body")
	}
	raw := append([]byte(nil), ctx.Body()...)

	res, err := c.service.HandleMidtransNotification(ctx.UserContext(), &req, raw)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification processed", res))
}
