package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

// SetupRoutes mounts the REST API under /api and the live board feed under /ws.
// origins limits which pages may open the WebSocket; empty allows any.
func SetupRoutes(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	app.Get("/ws/games/:gameId", middleware.WebSocketUpgrade(wsc.gameService.Exists), websocket.New(wsc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	api := app.Group("/api")
	games := api.Group("/games")
	games.Post("/", gc.CreateGame)
	games.Get("/:gameId", gc.GetGameState)
	games.Delete("/:gameId", gc.DeleteGame)
	games.Post("/:gameId/reset", gc.ResetGame)
	games.Get("/:gameId/moves", gc.GetValidMoves)
	games.Post("/:gameId/moves", gc.MakeMove)
	games.Get("/:gameId/check/:color", gc.GetCheckStatus)
}

// ErrorHandler replies to errors that escaped the handlers with the same
// {"error": ...} body the handlers use.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
