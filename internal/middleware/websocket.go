package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade only lets websocket upgrade attempts through. It runs
// after RequireGame, so the game id is already known to be live.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// the connection context is separate from the upgrade context
		c.Locals("wsGameID", c.Params("gameId"))
		return c.Next()
	}
}
