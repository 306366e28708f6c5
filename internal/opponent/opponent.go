// Package opponent implements the computer player: a greedy picker that
// grabs the most valuable piece it can and otherwise plays a random legal
// move.
package opponent

import (
	"math/rand"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// Game is the part of the engine the opponent is allowed to use. It has no
// way to touch the board other than MovePiece.
type Game interface {
	Board() *model.Board
	CurrentTurn() model.Color
	IsGameOver() bool
	GetValidMoves(sq model.Square) []model.Square
	MovePiece(from, to model.Square) bool
}

type Player struct {
	Color model.Color

	mu  sync.Mutex
	rng *rand.Rand
}

func New(color model.Color, rng *rand.Rand) *Player {
	return &Player{
		Color: color,
		rng:   rng,
	}
}

func (p *Player) Name() string {
	return "greedy-capture"
}

// Choose picks the move the player would make now, without making it.
func (p *Player) Choose(g Game) (model.Move, bool) {
	if g.IsGameOver() || g.CurrentTurn() != p.Color {
		return model.Move{}, false
	}

	board := g.Board()
	candidates := []model.Move{}
	board.Pieces(func(sq model.Square, piece *model.Piece) {
		if piece.Color != p.Color {
			return
		}
		for _, to := range g.GetValidMoves(sq) {
			candidates = append(candidates, model.Move{From: sq, To: to})
		}
	})
	if len(candidates) == 0 {
		return model.Move{}, false
	}

	p.shuffle(candidates)

	captures := []model.Move{}
	for _, m := range candidates {
		if target := board.At(m.To); target != nil && target.Color != p.Color {
			captures = append(captures, m)
		}
	}
	if len(captures) > 0 {
		candidates = captures
	}

	best, bestScore := candidates[0], -1
	for _, m := range candidates {
		score := 0
		if target := board.At(m.To); target != nil {
			score = target.Type.Value()
		}
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, true
}

// MakeMove plays the chosen move through the same entry point a human uses.
// It does nothing when it is not this player's turn or no move is legal.
func (p *Player) MakeMove(g Game) (model.Move, bool) {
	m, ok := p.Choose(g)
	if !ok {
		return model.Move{}, false
	}
	if !g.MovePiece(m.From, m.To) {
		return model.Move{}, false
	}
	return m, true
}

func (p *Player) shuffle(moves []model.Move) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
}
