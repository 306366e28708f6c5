package service

import (
	"sync"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/opponent"
)

type Mode string

const (
	// ModeLocal is two humans sharing one board.
	ModeLocal    Mode = "pvp"
	ModeComputer Mode = "ai"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLocal, ModeComputer:
		return Mode(s), nil
	}
	return "", ErrInvalidMode
}

// Conn is the write side of a WebSocket as the session uses it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// The connections watching a specific game
type Connections struct {
	conns map[Conn]struct{}
	mu    sync.RWMutex
}

func newConnections() *Connections {
	return &Connections{
		conns: make(map[Conn]struct{}),
	}
}

// Session owns one game and everything the host keeps around it.
type Session struct {
	ID string

	mu sync.Mutex
	// sendMu orders broadcasts; it is taken while mu is held, never the reverse
	sendMu      sync.Mutex
	game        *model.Game
	mode        Mode
	seats       model.Seats
	computer    *opponent.Player
	lastMove    *model.Move
	whiteClock  *model.Clock
	blackClock  *model.Clock
	connections *Connections
}

type GameState struct {
	ID string `json:"gameId"`
	model.Status
	Mode     Mode        `json:"mode"`
	Seats    model.Seats `json:"seats"`
	LastMove *model.Move `json:"lastMove"`
	Clocks   Clocks      `json:"clocks"`
}

// Clocks holds each side's thinking time in milliseconds.
type Clocks struct {
	White int64 `json:"white"`
	Black int64 `json:"black"`
}

type CheckStatus struct {
	Color   model.Color   `json:"color"`
	InCheck bool          `json:"inCheck"`
	King    *model.Square `json:"king"`
}

func newSession(id string, game *model.Game, mode Mode, computer *opponent.Player) *Session {
	s := &Session{
		ID:          id,
		game:        game,
		mode:        mode,
		seats:       model.Seats{White: model.Human, Black: model.Human},
		computer:    computer,
		whiteClock:  model.NewClock(),
		blackClock:  model.NewClock(),
		connections: newConnections(),
	}
	if computer != nil {
		switch computer.Color {
		case model.White:
			s.seats.White = model.Computer
		case model.Black:
			s.seats.Black = model.Computer
		}
	}
	if !game.IsGameOver() {
		s.clock(game.CurrentTurn()).Start()
	}
	return s
}

func (s *Session) clock(c model.Color) *model.Clock {
	if c == model.White {
		return s.whiteClock
	}
	return s.blackClock
}

// computerToMove must be called with s.mu held.
func (s *Session) computerToMove() bool {
	return s.computer != nil && !s.game.IsGameOver() && s.game.CurrentTurn() == s.computer.Color
}

// recordMove updates clocks and the last-move marker after an accepted move.
// mover is the color that just played. Must be called with s.mu held.
func (s *Session) recordMove(mover model.Color, m model.Move) {
	s.lastMove = &m
	s.clock(mover).Stop()
	if s.game.IsGameOver() {
		s.clock(mover.Opponent()).Stop()
		return
	}
	s.clock(s.game.CurrentTurn()).Start()
}

// reset must be called with s.mu held.
func (s *Session) reset() {
	s.game.Reset()
	s.lastMove = nil
	s.whiteClock.Reset()
	s.blackClock.Reset()
	s.whiteClock.Start()
}

// state must be called with s.mu held.
func (s *Session) state() GameState {
	return GameState{
		ID:       s.ID,
		Status:   s.game.Status(),
		Mode:     s.mode,
		Seats:    s.seats,
		LastMove: s.lastMove,
		Clocks: Clocks{
			White: s.whiteClock.Elapsed().Milliseconds(),
			Black: s.blackClock.Elapsed().Milliseconds(),
		},
	}
}

func (s *Session) State() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

func (c *Connections) add(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[conn] = struct{}{}
}

func (c *Connections) remove(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, conn)
}

func (c *Connections) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for conn := range c.conns {
		_ = conn.Close()
		delete(c.conns, conn)
	}
}

func (c *Connections) count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.conns)
}

// snapshot copies the current connections so writes happen without the lock.
func (c *Connections) snapshot() []Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Conn, 0, len(c.conns))
	for conn := range c.conns {
		out = append(out, conn)
	}
	return out
}
