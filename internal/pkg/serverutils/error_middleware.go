package serverutils

import (
	"ai-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// {"error": ...} JSON bodies. AppErrors keep their status and message;
// everything else is logged and collapsed to a bare 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := AsAppError(err); ok {
			if appErr.Err != nil {
				log.Error("http", appErr.Message, map[string]interface{}{
					"path":  ctx.Path(),
					"error": appErr.Err.Error(),
				})
			}
			return ctx.Status(appErr.Code).JSON(fiber.Map{"error": appErr.Message})
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.Error("http", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
