package serverutils

import "github.com/gofiber/fiber/v2"

// AdminOnly lets through only the configured user ids. Must run after the JWT middleware.
func AdminOnly(adminUserIds []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(adminUserIds))
	for _, id := range adminUserIds {
		allowed[id] = struct{}{}
	}

	return func(ctx *fiber.Ctx) error {
		if _, ok := allowed[UserId(ctx)]; !ok {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "Admin access required"))
		}
		return ctx.Next()
	}
}
