// FILE: internal/controller/realtime_controller.go
package controller

import (
	"strings"

	"ai-studio-be/internal/pkg/serverutils"
	internalWS "ai-studio-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IRealtimeController interface {
	RegisterRoutes(r fiber.Router)
}

type realtimeController struct {
	hub      *internalWS.Hub
	verifier *serverutils.TokenVerifier
}

func NewRealtimeController(hub *internalWS.Hub, verifier *serverutils.TokenVerifier) IRealtimeController {
	return &realtimeController{hub: hub, verifier: verifier}
}

func (c *realtimeController) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", c.upgrade)
	r.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(serverutils.UserIdKey).(string)
		internalWS.ServeWs(c.hub, conn, userID)
	}))
}

// upgrade authenticates before the handshake. Browsers cannot set headers on
// websocket requests, so the token comes from the query string.
func (c *realtimeController) upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	token := ctx.Query("token")
	if token == "" {
		token = strings.TrimPrefix(ctx.Get("Authorization"), "Bearer ")
	}
	userID, err := c.verifier.Verify(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	ctx.Locals(serverutils.UserIdKey, userID)
	return ctx.Next()
}
