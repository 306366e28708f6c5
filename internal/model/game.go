package model

import (
	"sync"
)

// Game is a single chess session: the live board, the side to move and
// whether the game has ended. All exported methods are safe for concurrent
// use; speculative probes run entirely under the game's lock so no caller ever
// observes a half-made move.
type Game struct {
	mu          sync.Mutex
	board       *Board
	currentTurn Color
	isGameOver  bool
}

// Status is a consistent snapshot of everything a renderer needs.
type Status struct {
	Board       *Board  `json:"board"`
	ToMove      Color   `json:"toMove"`
	IsCheck     bool    `json:"isCheck"`
	KingInCheck *Square `json:"kingInCheck"`
	IsGameOver  bool    `json:"isGameOver"`
	Winner      *Color  `json:"winner"`
	FEN         string  `json:"fen"`
}

func NewGame() *Game {
	return &Game{
		board:       NewBoard(),
		currentTurn: White,
	}
}

func newGameFromBoard(board *Board, toMove Color) *Game {
	return &Game{
		board:       board,
		currentTurn: toMove,
	}
}

// Reset puts the game back to the standard starting position in place.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.board.setup()
	g.currentTurn = White
	g.isGameOver = false
}

// Board returns a deep copy of the current board.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Clone()
}

func (g *Game) CurrentTurn() Color {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.currentTurn
}

func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isGameOver
}

// Winner reports the color that delivered checkmate. The turn is not passed
// on the mating move, so the winner is whoever is still to move.
func (g *Game) Winner() (Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isGameOver {
		return "", false
	}
	return g.currentTurn, true
}

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	status := Status{
		Board:      g.board.Clone(),
		ToMove:     g.currentTurn,
		IsGameOver: g.isGameOver,
		FEN:        g.board.FEN(g.currentTurn),
	}
	if g.isGameOver {
		winner := g.currentTurn
		status.Winner = &winner
		// the loser is the one left in check
		if king, ok := g.board.FindKing(winner.Opponent()); ok {
			status.IsCheck = true
			status.KingInCheck = &king
		}
		return status
	}
	if g.isKingInCheck(g.currentTurn) {
		status.IsCheck = true
		if king, ok := g.board.FindKing(g.currentTurn); ok {
			status.KingInCheck = &king
		}
	}
	return status
}

func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.FEN(g.currentTurn)
}

// MovePiece plays from -> to for the side to move. It returns false and leaves
// the game untouched when the game is over, the mover is not the side to move,
// the move would leave the mover's king in check or the piece cannot move
// there.
func (g *Game) MovePiece(from, to Square) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isGameOver {
		return false
	}
	if !from.InBounds() || !to.InBounds() {
		return false
	}
	piece := g.board.At(from)
	if piece == nil || piece.Color != g.currentTurn {
		return false
	}

	mover := g.currentTurn
	if g.board.probe(from, to, func() bool { return g.isKingInCheck(mover) }) {
		return false
	}
	if !g.board.Move(from, to) {
		return false
	}

	if piece.Type == Pawn && to.Row == promotionRow(piece.Color) {
		g.board.Set(to, &Piece{Type: Queen, Color: piece.Color})
	}

	if g.checkmate(mover.Opponent()) {
		g.isGameOver = true
		return true
	}
	g.currentTurn = mover.Opponent()
	return true
}

func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return boardSize - 1
}

// GetValidMoves lists the legal destinations of the piece on sq in row-major
// order. Empty and off-board squares have none.
func (g *Game) GetValidMoves(sq Square) []Square {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.validMoves(sq)
}

func (g *Game) validMoves(sq Square) []Square {
	moves := []Square{}
	piece := g.board.At(sq)
	if piece == nil {
		return moves
	}

	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			to := Square{Row: row, Col: col}
			if !piece.CanMove(sq, to, g.board) {
				continue
			}
			if target := g.board.At(to); target != nil && target.Color == piece.Color {
				continue
			}
			leavesCheck := g.board.probe(sq, to, func() bool { return g.isKingInCheck(piece.Color) })
			if !leavesCheck {
				moves = append(moves, to)
			}
		}
	}
	return moves
}

// IsKingInCheck reports whether any piece of the other color could move onto
// color's king. A board without that king is never in check.
func (g *Game) IsKingInCheck(color Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isKingInCheck(color)
}

func (g *Game) isKingInCheck(color Color) bool {
	king, ok := g.board.FindKing(color)
	if !ok {
		return false
	}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			p := g.board.squares[row][col]
			if p == nil || p.Color == color {
				continue
			}
			if p.CanMove(Square{Row: row, Col: col}, king, g.board) {
				return true
			}
		}
	}
	return false
}

func (g *Game) FindKing(color Color) (Square, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.FindKing(color)
}

// Checkmate reports whether color is in check with no legal move to escape.
func (g *Game) Checkmate(color Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.checkmate(color)
}

func (g *Game) checkmate(color Color) bool {
	if !g.isKingInCheck(color) {
		return false
	}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			sq := Square{Row: row, Col: col}
			p := g.board.At(sq)
			if p == nil || p.Color != color {
				continue
			}
			if len(g.validMoves(sq)) > 0 {
				return false
			}
		}
	}
	return true
}
