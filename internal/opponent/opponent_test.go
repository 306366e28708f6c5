package opponent

import (
	"math/rand"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/model"
)

func mustFEN(t *testing.T, fen string) *model.Game {
	t.Helper()
	g, err := model.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return g
}

func square(t *testing.T, s string) model.Square {
	t.Helper()
	sq, ok := model.ParseSquare(s)
	if !ok {
		t.Fatalf("bad square %q", s)
	}
	return sq
}

func isValid(g *model.Game, m model.Move) bool {
	for _, to := range g.GetValidMoves(m.From) {
		if to == m.To {
			return true
		}
	}
	return false
}

func TestChoosePrefersMostValuableCapture(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		to   string
	}{
		{"rook over pawn", "4k3/8/8/1r3p2/8/3B4/8/4K3 w", "d3", "b5"},
		{"rook over knight", "4k3/8/8/8/8/1n6/8/r2QK3 w", "d1", "a1"},
		{"black takes the queen", "4k3/8/8/3r1P2/8/8/3Q4/4K3 b", "d5", "d2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 10; seed++ {
				g := mustFEN(t, tt.fen)
				p := New(g.CurrentTurn(), rand.New(rand.NewSource(seed)))
				m, ok := p.Choose(g)
				if !ok {
					t.Fatal("no move chosen")
				}
				if m.From != square(t, tt.from) || m.To != square(t, tt.to) {
					t.Fatalf("seed %d: chose %s, want %s%s", seed, m, tt.from, tt.to)
				}
			}
		})
	}
}

func TestChooseNothingToDo(t *testing.T) {
	t.Run("not its turn", func(t *testing.T) {
		g := model.NewGame()
		p := New(model.Black, rand.New(rand.NewSource(1)))
		if _, ok := p.MakeMove(g); ok {
			t.Error("black moved on white's turn")
		}
		if g.FEN() != model.NewGame().FEN() {
			t.Error("board changed")
		}
	})

	t.Run("game over", func(t *testing.T) {
		g := mustFEN(t, "R5k1/5ppp/8/8/8/8/8/6K1 b")
		for _, c := range []model.Color{model.White, model.Black} {
			if _, ok := New(c, rand.New(rand.NewSource(1))).Choose(g); ok {
				t.Errorf("%s chose a move in a finished game", c)
			}
		}
	})
}

func TestSameSeedSameMove(t *testing.T) {
	a := New(model.White, rand.New(rand.NewSource(42)))
	b := New(model.White, rand.New(rand.NewSource(42)))
	ma, _ := a.Choose(model.NewGame())
	mb, _ := b.Choose(model.NewGame())
	if ma != mb {
		t.Errorf("same seed chose %s and %s", ma, mb)
	}
}

func TestSelfPlayOnlyLegalMoves(t *testing.T) {
	white := New(model.White, rand.New(rand.NewSource(3)))
	black := New(model.Black, rand.New(rand.NewSource(4)))

	for game := 0; game < 10; game++ {
		g := model.NewGame()
		for ply := 0; ply < 200 && !g.IsGameOver(); ply++ {
			p := white
			if g.CurrentTurn() == model.Black {
				p = black
			}
			m, ok := p.Choose(g)
			if !ok {
				// stalemate: no legal move and not in check
				if g.IsKingInCheck(g.CurrentTurn()) {
					t.Fatalf("no move while in check but game not over: %s", g.FEN())
				}
				break
			}
			if !isValid(g, m) {
				t.Fatalf("chose %s, not a valid move in %s", m, g.FEN())
			}
			if !g.MovePiece(m.From, m.To) {
				t.Fatalf("MovePiece rejected chosen %s in %s", m, g.FEN())
			}
		}
	}
}
