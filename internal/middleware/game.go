package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// GameLookup reports whether a game id is live.
type GameLookup interface {
	HasGame(gameID string) bool
}

// RequireGame rejects requests whose :gameId does not name a live game and
// stores the id in locals for the handlers after it.
func RequireGame(games GameLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}
		if !games.HasGame(gameID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "game not found",
			})
		}

		c.Locals("gameID", gameID)
		return c.Next()
	}
}
