package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type GameController struct {
	gameService *service.GameService
	log         zerolog.Logger
}

func NewGameController(gameService *service.GameService, log zerolog.Logger) *GameController {
	return &GameController{gameService: gameService, log: log}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	if req.Mode == "" {
		req.Mode = string(service.ModeComputer)
	}

	state, err := gc.gameService.CreateGame(req)
	if err != nil {
		return gc.sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  state.ID,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.sendError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return gc.sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) ResetGame(c *fiber.Ctx) error {
	state, err := gc.gameService.ResetGame(c.Params("gameId"))
	if err != nil {
		return gc.sendError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) GetValidMoves(c *fiber.Ctx) error {
	sq := model.Square{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	moves, err := gc.gameService.ValidMoves(c.Params("gameId"), sq)
	if err != nil {
		return gc.sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"square": sq,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.Move
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	state, err := gc.gameService.HandleMove(c.Params("gameId"), move)
	if err != nil {
		return gc.sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"accepted": true,
		"state":    state,
	})
}

func (gc *GameController) GetCheckStatus(c *fiber.Ctx) error {
	status, err := gc.gameService.CheckStatus(c.Params("gameId"), c.Params("color"))
	if err != nil {
		return gc.sendError(c, err)
	}
	return c.JSON(status)
}

func (gc *GameController) sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		gc.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameOver),
		errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, service.ErrOpponentsTurn):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrOutOfBounds),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrInvalidColor),
		errors.Is(err, model.ErrInvalidFEN):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
