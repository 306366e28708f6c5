package model

import (
	"encoding/json"
	"fmt"
)

const boardSize = 8

type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < boardSize && s.Col >= 0 && s.Col < boardSize
}

// String renders the square in algebraic notation, row 0 being rank 8.
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", s.Col+'a', boardSize-s.Row)
}

// ParseSquare reads an algebraic square such as "e2".
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, false
	}
	return Square{Row: boardSize - int(s[1]-'0'), Col: int(s[0] - 'a')}, true
}

// Board owns every piece standing on it. Slots can be assigned directly with
// Set; Move is the validated relocation used for real moves.
type Board struct {
	squares [boardSize][boardSize]*Piece
}

var backRank = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func NewBoard() *Board {
	b := &Board{}
	b.setup()
	return b
}

func (b *Board) setup() {
	b.squares = [boardSize][boardSize]*Piece{}
	for col := 0; col < boardSize; col++ {
		b.squares[0][col] = &Piece{Type: backRank[col], Color: Black}
		b.squares[1][col] = &Piece{Type: Pawn, Color: Black}
		b.squares[6][col] = &Piece{Type: Pawn, Color: White}
		b.squares[7][col] = &Piece{Type: backRank[col], Color: White}
	}
}

// At returns the piece on sq, or nil for an empty or off-board square.
func (b *Board) At(sq Square) *Piece {
	if !sq.InBounds() {
		return nil
	}
	return b.squares[sq.Row][sq.Col]
}

// Set assigns a slot without any rule checks. Off-board squares are ignored.
func (b *Board) Set(sq Square, p *Piece) {
	if !sq.InBounds() {
		return
	}
	b.squares[sq.Row][sq.Col] = p
}

// Move relocates the piece on from to to when the destination is not held by
// a friendly piece and the piece's movement rule allows it. Any enemy piece on
// the destination is discarded.
func (b *Board) Move(from, to Square) bool {
	piece := b.At(from)
	if piece == nil {
		return false
	}
	if target := b.At(to); target != nil && target.Color == piece.Color {
		return false
	}
	if !piece.CanMove(from, to, b) {
		return false
	}

	b.squares[to.Row][to.Col] = piece
	b.squares[from.Row][from.Col] = nil
	if piece.Type == Pawn {
		piece.HasMoved = true
	}
	return true
}

// probe speculatively moves the piece on from to to, evaluates fn and puts
// both squares back before returning, whatever fn does.
func (b *Board) probe(from, to Square, fn func() bool) bool {
	moving, captured := b.At(from), b.At(to)
	defer func() {
		b.squares[from.Row][from.Col] = moving
		b.squares[to.Row][to.Col] = captured
	}()

	b.squares[to.Row][to.Col] = moving
	b.squares[from.Row][from.Col] = nil
	return fn()
}

// pathClear reports whether every square strictly between from and to is on
// the board and empty. from and to must share a row, a column or a diagonal.
func (b *Board) pathClear(from, to Square) bool {
	stepRow, stepCol := sign(to.Row-from.Row), sign(to.Col-from.Col)
	cur := Square{Row: from.Row + stepRow, Col: from.Col + stepCol}
	for cur != to {
		if !cur.InBounds() || b.squares[cur.Row][cur.Col] != nil {
			return false
		}
		cur = Square{Row: cur.Row + stepRow, Col: cur.Col + stepCol}
	}
	return true
}

func (b *Board) FindKing(color Color) (Square, bool) {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			p := b.squares[row][col]
			if p != nil && p.Type == King && p.Color == color {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// Clone returns a deep copy; pieces on the copy are distinct values.
func (b *Board) Clone() *Board {
	out := &Board{}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p := b.squares[row][col]; p != nil {
				cp := *p
				out.squares[row][col] = &cp
			}
		}
	}
	return out
}

// Pieces calls fn for every occupied square in row-major order.
func (b *Board) Pieces(fn func(sq Square, p *Piece)) {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p := b.squares[row][col]; p != nil {
				fn(Square{Row: row, Col: col}, p)
			}
		}
	}
}

// MarshalJSON renders the grid as rows of optional pieces.
func (b *Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, boardSize)
	for row := 0; row < boardSize; row++ {
		rows[row] = b.squares[row][:]
	}
	return json.Marshal(rows)
}
