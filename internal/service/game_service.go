package service

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

type CreateGameRequest struct {
	Mode          string `json:"mode"`
	ComputerColor string `json:"computerColor"`
	FEN           string `json:"fen"`
}

func (gs *GameService) CreateGame(req CreateGameRequest) (GameState, error) {
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return GameState{}, err
	}

	var computerColor model.Color
	if mode == ModeComputer {
		if req.ComputerColor == "" {
			req.ComputerColor = string(model.Black)
		}
		c, ok := model.ParseColor(req.ComputerColor)
		if !ok {
			return GameState{}, ErrInvalidColor
		}
		computerColor = c
	}

	gameID := uuid.New().String()
	s, err := gs.gameManager.CreateGame(gameID, mode, computerColor, req.FEN)
	if err != nil {
		return GameState{}, fmt.Errorf("failed to create game: %w", err)
	}
	return s.State(), nil
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) ResetGame(gameID string) (GameState, error) {
	return gs.gameManager.ResetGame(gameID)
}

func (gs *GameService) ValidMoves(gameID string, sq model.Square) ([]model.Square, error) {
	return gs.gameManager.ValidMoves(gameID, sq)
}

func (gs *GameService) CheckStatus(gameID string, color string) (CheckStatus, error) {
	c, ok := model.ParseColor(color)
	if !ok {
		return CheckStatus{}, ErrInvalidColor
	}
	return gs.gameManager.CheckStatus(gameID, c)
}

func (gs *GameService) HandleMove(gameID string, move model.Move) (GameState, error) {
	return gs.gameManager.MakeMove(gameID, move)
}

func (gs *GameService) RegisterConnection(gameID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, conn)
}

// Exists reports whether gameID names a live game.
func (gs *GameService) Exists(gameID string) bool {
	_, err := gs.gameManager.GetGame(gameID)
	return err == nil
}
