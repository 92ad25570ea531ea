package model

import (
	"fmt"
	"strings"
)

const BoardSize = 8

// Side is one of the two players. The zero value marks an empty cell.
type Side int8

const (
	First  Side = 1  // starts on rows 5-7 and moves toward row 0
	Second Side = -1 // starts on rows 0-2 and moves toward row 7
)

func (s Side) Opponent() Side {
	return -s
}

// forward is the row delta of a simple move for this side.
func (s Side) forward() int {
	return -int(s)
}

// promotionRow is the opponent's back rank.
func (s Side) promotionRow() int {
	if s == First {
		return 0
	}
	return BoardSize - 1
}

func (s Side) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	}
	return ""
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "first":
		*s = First
	case "second":
		*s = Second
	case "":
		*s = 0
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

type Rank uint8

const (
	Regular Rank = iota
	King
)

func (r Rank) String() string {
	if r == King {
		return "king"
	}
	return "regular"
}

type Piece struct {
	Side Side
	Rank Rank
}

func (p Piece) IsEmpty() bool {
	return p.Side == 0
}

func (p Piece) IsKing() bool {
	return p.Rank == King
}

func (p Piece) symbol() byte {
	switch {
	case p.Side == First && p.IsKing():
		return 'W'
	case p.Side == First:
		return 'w'
	case p.Side == Second && p.IsKing():
		return 'B'
	case p.Side == Second:
		return 'b'
	}
	return '.'
}

type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

func (s Square) Index() int {
	return s.Row*BoardSize + s.Col
}

func (s Square) step(d direction, n int) Square {
	return Square{Row: s.Row + d.row*n, Col: s.Col + d.col*n}
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

func squareAt(index int) Square {
	return Square{Row: index / BoardSize, Col: index % BoardSize}
}

// Board is the 8x8 position. It is a value: copies are independent.
type Board struct {
	cells [BoardSize * BoardSize]Piece
}

// NewBoard returns the starting arrangement: Second on rows 0-2, First on
// rows 5-7, dark squares only.
func NewBoard() Board {
	var b Board
	for row := 0; row < BoardSize; row++ {
		var side Side
		switch {
		case row < 3:
			side = Second
		case row >= BoardSize-3:
			side = First
		default:
			continue
		}
		for col := (row + 1) % 2; col < BoardSize; col += 2 {
			b.set(Square{Row: row, Col: col}, Piece{Side: side, Rank: Regular})
		}
	}
	return b
}

// Get returns the piece on sq and whether the square is occupied.
// It panics if sq is off the board.
func (b Board) Get(sq Square) (Piece, bool) {
	mustBeOnBoard(sq)
	p := b.cells[sq.Index()]
	return p, !p.IsEmpty()
}

func (b *Board) set(sq Square, p Piece) {
	mustBeOnBoard(sq)
	b.cells[sq.Index()] = p
}

func (b *Board) clear(sq Square) {
	b.set(sq, Piece{})
}

// Count returns the number of pieces owned by side.
func (b Board) Count(side Side) int {
	n := 0
	for _, p := range b.cells {
		if p.Side == side {
			n++
		}
	}
	return n
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sb.WriteByte(b.cells[row*BoardSize+col].symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func mustBeOnBoard(sq Square) {
	if !sq.Valid() {
		panic(fmt.Sprintf("square %v is off the board", sq))
	}
}
