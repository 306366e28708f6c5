package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GameExists reports whether a game id names a live game.
type GameExists func(gameID string) bool

// WebSocketUpgrade lets a request through to the WebSocket handler only when it
// is an upgrade attempt for a game that exists. The id is copied into locals
// because route params are gone once the connection is upgraded.
func WebSocketUpgrade(exists GameExists) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}
		if exists != nil && !exists(gameID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "game not found",
			})
		}

		c.Locals("wsGameID", gameID)
		return c.Next()
	}
}
