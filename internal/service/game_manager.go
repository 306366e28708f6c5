package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/opponent"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/rs/zerolog"
)

type GameManager struct {
	games   map[string]*Session
	queue   *model.TurnQueue
	mu      sync.RWMutex
	log     zerolog.Logger
	aiDelay time.Duration
	now     func() time.Time

	seedMu sync.Mutex
	seeds  *rand.Rand
}

type ManagerConfig struct {
	// AIDelay is how long a computer turn waits before the move is played.
	AIDelay time.Duration
	// Seed fixes the computer players' randomness; 0 seeds from the clock.
	Seed   int64
	Logger zerolog.Logger
}

func NewGameManager(cfg ManagerConfig) *GameManager {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GameManager{
		games:   make(map[string]*Session),
		queue:   model.NewTurnQueue(),
		log:     cfg.Logger,
		aiDelay: cfg.AIDelay,
		now:     time.Now,
		seeds:   rand.New(rand.NewSource(seed)),
	}
}

// Run plays due computer turns every tick until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.playReadyTurns(gm.now())
		}
	}
}

func (gm *GameManager) newRand() *rand.Rand {
	gm.seedMu.Lock()
	defer gm.seedMu.Unlock()
	return rand.New(rand.NewSource(gm.seeds.Int63()))
}

// CreateGame starts a session from the standard position, or from fen when it
// is not empty. computerColor is only used in ModeComputer.
func (gm *GameManager) CreateGame(gameID string, mode Mode, computerColor model.Color, fen string) (*Session, error) {
	game := model.NewGame()
	if fen != "" {
		var err error
		game, err = model.ParseFEN(fen)
		if err != nil {
			return nil, err
		}
	}

	var computer *opponent.Player
	switch mode {
	case ModeLocal:
	case ModeComputer:
		if !computerColor.Valid() {
			return nil, ErrInvalidColor
		}
		computer = opponent.New(computerColor, gm.newRand())
	default:
		return nil, ErrInvalidMode
	}

	s := newSession(gameID, game, mode, computer)

	gm.mu.Lock()
	gm.games[gameID] = s
	gm.mu.Unlock()

	gm.log.Info().Str("game", gameID).Str("mode", string(mode)).Str("fen", game.FEN()).Msg("game created")

	s.mu.Lock()
	gm.scheduleComputer(s)
	s.mu.Unlock()
	return s, nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return s, nil
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	s, exists := gm.games[gameID]
	if exists {
		delete(gm.games, gameID)
	}
	gm.mu.Unlock()

	if !exists {
		return ErrGameNotFound
	}
	gm.queue.Remove(gameID)
	s.connections.closeAll()
	gm.log.Info().Str("game", gameID).Msg("game deleted")
	return nil
}

func (gm *GameManager) GetGameState(gameID string) (GameState, error) {
	s, err := gm.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return s.State(), nil
}

func (gm *GameManager) ResetGame(gameID string) (GameState, error) {
	s, err := gm.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}

	s.mu.Lock()
	gm.queue.Remove(gameID)
	s.reset()
	gm.scheduleComputer(s)
	state := s.state()
	gm.log.Info().Str("game", gameID).Msg("game reset")
	gm.publish(s, state)
	return state, nil
}

func (gm *GameManager) ValidMoves(gameID string, sq model.Square) ([]model.Square, error) {
	s, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if !sq.InBounds() {
		return nil, ErrOutOfBounds
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.GetValidMoves(sq), nil
}

func (gm *GameManager) CheckStatus(gameID string, color model.Color) (CheckStatus, error) {
	s, err := gm.GetGame(gameID)
	if err != nil {
		return CheckStatus{}, err
	}
	if !color.Valid() {
		return CheckStatus{}, ErrInvalidColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := CheckStatus{Color: color, InCheck: s.game.IsKingInCheck(color)}
	if king, ok := s.game.FindKing(color); ok {
		status.King = &king
	}
	return status, nil
}

// MakeMove plays a human move. The engine only says yes or no, so the checks
// here exist to tell the caller why a move was refused.
func (gm *GameManager) MakeMove(gameID string, move model.Move) (GameState, error) {
	s, err := gm.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	if !move.From.InBounds() || !move.To.InBounds() {
		return GameState{}, ErrOutOfBounds
	}

	s.mu.Lock()
	if s.game.IsGameOver() {
		s.mu.Unlock()
		return GameState{}, ErrGameOver
	}
	mover := s.game.CurrentTurn()
	if s.seats.For(mover) == model.Computer {
		s.mu.Unlock()
		return GameState{}, ErrOpponentsTurn
	}
	board := s.game.Board()
	piece := board.At(move.From)
	if piece == nil {
		s.mu.Unlock()
		return GameState{}, ErrIllegalMove
	}
	if piece.Color != mover {
		s.mu.Unlock()
		return GameState{}, ErrNotYourTurn
	}
	if !s.game.MovePiece(move.From, move.To) {
		s.mu.Unlock()
		gm.log.Debug().Str("game", gameID).Str("move", move.String()).Msg("move rejected")
		return GameState{}, ErrIllegalMove
	}

	s.recordMove(mover, move)
	gm.logMove(s, mover, move)
	gm.scheduleComputer(s)
	state := s.state()
	gm.publish(s, state)
	return state, nil
}

// scheduleComputer queues a computer turn when one is due. Must be called with
// s.mu held.
func (gm *GameManager) scheduleComputer(s *Session) {
	if !s.computerToMove() {
		return
	}
	if err := gm.queue.Add(s.ID, gm.now()); err != nil {
		gm.log.Debug().Err(err).Str("game", s.ID).Msg("computer turn already queued")
	}
}

func (gm *GameManager) playReadyTurns(now time.Time) {
	for _, turn := range gm.queue.PopReady(now, gm.aiDelay) {
		s, err := gm.GetGame(turn.GameID)
		if err != nil {
			continue
		}
		gm.playComputerTurn(s)
	}
}

func (gm *GameManager) playComputerTurn(s *Session) {
	s.mu.Lock()
	if !s.computerToMove() {
		s.mu.Unlock()
		return
	}
	mover := s.computer.Color
	move, ok := s.computer.MakeMove(s.game)
	if !ok {
		s.mu.Unlock()
		gm.log.Info().Str("game", s.ID).Str("color", string(mover)).Msg("computer has no legal move")
		return
	}

	s.recordMove(mover, move)
	gm.logMove(s, mover, move)
	gm.publish(s, s.state())
}

// logMove must be called with s.mu held.
func (gm *GameManager) logMove(s *Session, mover model.Color, move model.Move) {
	controller := string(s.seats.For(mover))
	if s.computer != nil && s.computer.Color == mover {
		controller = s.computer.Name()
	}
	gm.log.Info().
		Str("game", s.ID).
		Str("color", string(mover)).
		Str("controller", controller).
		Str("move", move.String()).
		Msg("move accepted")

	if winner, over := s.game.Winner(); over {
		gm.log.Info().Str("game", s.ID).Str("winner", string(winner)).Msg("checkmate")
		return
	}
	if next := s.game.CurrentTurn(); s.game.IsKingInCheck(next) {
		gm.log.Info().Str("game", s.ID).Str("color", string(next)).Msg("check")
	}
}

func (gm *GameManager) RegisterConnection(gameID string, conn Conn) error {
	s, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.connections.add(conn)
	gm.log.Debug().Str("game", gameID).Int("connections", s.connections.count()).Msg("connection registered")
	gm.publish(s, s.state())
	return nil
}

func (gm *GameManager) UnregisterConnection(gameID string, conn Conn) {
	s, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	s.connections.remove(conn)
	gm.log.Debug().Str("game", gameID).Int("connections", s.connections.count()).Msg("connection unregistered")
}

// publish releases s.mu and broadcasts state. The send lock is taken before
// s.mu is released, so connections see states in the order they were taken.
// Must be called with s.mu held.
func (gm *GameManager) publish(s *Session, state GameState) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Unlock()

	gm.broadcast(s, state)
}

// broadcast pushes state to every connection of s, dropping the ones that
// fail. Callers hold s.sendMu but not s.mu.
func (gm *GameManager) broadcast(s *Session, state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		gm.log.Error().Err(err).Str("game", s.ID).Msg("marshal game state")
		return
	}
	for _, conn := range s.connections.snapshot() {
		if err := conn.WriteJSON(msg); err != nil {
			gm.log.Warn().Err(err).Str("game", s.ID).Msg("failed to send state, dropping connection")
			s.connections.remove(conn)
			_ = conn.Close()
		}
	}
}
