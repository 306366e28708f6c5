package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Value is the material value used by the opponent to rank captures.
// The king is never a legal capture target, so it is worth nothing.
func (p PieceType) Value() int {
	switch p {
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop, Knight:
		return 3
	case Pawn:
		return 1
	}
	return 0
}

func (p PieceType) fenLetter() byte {
	switch p {
	case King:
		return 'k'
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	case Pawn:
		return 'p'
	}
	return '?'
}

// Piece has no position; where it stands is the board slot holding it.
// HasMoved is only consulted for pawns.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// CanMove reports whether the piece's movement rule allows from -> to on b.
// It ignores whose turn it is and whether the destination holds a friendly
// piece. Moves that stay on the same square are always rejected.
func (p *Piece) CanMove(from, to Square, b *Board) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	dr, dc := to.Row-from.Row, to.Col-from.Col

	switch p.Type {
	case Pawn:
		return p.canPawnMove(from, to, dr, dc, b)
	case Knight:
		return (abs(dr) == 2 && abs(dc) == 1) || (abs(dr) == 1 && abs(dc) == 2)
	case Bishop:
		return abs(dr) == abs(dc) && b.pathClear(from, to)
	case Rook:
		return (dr == 0 || dc == 0) && b.pathClear(from, to)
	case Queen:
		return (dr == 0 || dc == 0 || abs(dr) == abs(dc)) && b.pathClear(from, to)
	case King:
		return abs(dr) <= 1 && abs(dc) <= 1
	}
	return false
}

func (p *Piece) canPawnMove(from, to Square, dr, dc int, b *Board) bool {
	fwd := p.Color.forward()
	switch {
	case dc == 0 && dr == fwd:
		return b.At(to) == nil
	case dc == 0 && dr == 2*fwd:
		// double step only from the unmoved state, over an empty square
		if p.HasMoved {
			return false
		}
		return b.At(Square{Row: from.Row + fwd, Col: from.Col}) == nil && b.At(to) == nil
	case abs(dc) == 1 && dr == fwd:
		target := b.At(to)
		return target != nil && target.Color != p.Color
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
