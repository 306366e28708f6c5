package model

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// forward is the row delta a pawn of this color advances by.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func ParseColor(s string) (Color, bool) {
	switch Color(s) {
	case White:
		return White, true
	case Black:
		return Black, true
	}
	return "", false
}

// Controller says who decides the moves for one side of a session.
type Controller string

const (
	Human    Controller = "human"
	Computer Controller = "computer"
)

type Seats struct {
	White Controller `json:"white"`
	Black Controller `json:"black"`
}

func (s Seats) For(c Color) Controller {
	if c == White {
		return s.White
	}
	return s.Black
}
