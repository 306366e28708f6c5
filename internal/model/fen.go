package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidFEN = errors.New("invalid FEN")

var fenPieces = map[byte]PieceType{
	'k': King,
	'q': Queen,
	'r': Rook,
	'b': Bishop,
	'n': Knight,
	'p': Pawn,
}

// FEN encodes the board with turn as the side to move. The engine has no
// castling or en passant, so those fields are always "-".
func (b *Board) FEN(turn Color) string {
	var sb strings.Builder
	for row := 0; row < boardSize; row++ {
		empty := 0
		for col := 0; col < boardSize; col++ {
			p := b.squares[row][col]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := p.Type.fenLetter()
			if p.Color == White {
				letter -= 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < boardSize-1 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if turn == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s - - 0 1", side)
	return sb.String()
}

// ParseFEN builds a game from the placement and side-to-move fields of a FEN
// record; any further fields are ignored. Pawns away from their starting rank
// count as moved.
func ParseFEN(fen string) (*Game, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrInvalidFEN)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != boardSize {
		return nil, fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidFEN, boardSize, len(ranks))
	}

	board := &Board{}
	kings := map[Color]int{}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			color := Black
			lower := c
			if c >= 'A' && c <= 'Z' {
				color = White
				lower = c + ('a' - 'A')
			}
			kind, ok := fenPieces[lower]
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, c)
			}
			if col >= boardSize {
				return nil, fmt.Errorf("%w: rank %d is too long", ErrInvalidFEN, boardSize-row)
			}
			p := &Piece{Type: kind, Color: color}
			if kind == Pawn {
				if row == 0 || row == boardSize-1 {
					return nil, fmt.Errorf("%w: pawn on back rank", ErrInvalidFEN)
				}
				p.HasMoved = row != pawnStartRow(color)
			}
			if kind == King {
				kings[color]++
			}
			board.squares[row][col] = p
			col++
		}
		if col != boardSize {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, boardSize-row, col)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: need exactly one king per side", ErrInvalidFEN)
	}

	toMove := White
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			toMove = Black
		default:
			return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
		}
	}

	g := newGameFromBoard(board, toMove)
	// the mover could capture the king
	if g.isKingInCheck(toMove.Opponent()) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}
	// a position where the side to move is already mated is a finished game
	// won by the other side
	if g.checkmate(toMove) {
		g.isGameOver = true
		g.currentTurn = toMove.Opponent()
	}
	return g, nil
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}
