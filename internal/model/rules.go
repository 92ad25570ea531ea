package model

import "fmt"

type direction struct {
	row, col int
}

// Fixed order keeps move enumeration deterministic.
var diagonals = [4]direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// PieceMoves enumerates the moves of the piece on sq if it belongs to side.
// Mandatory capture is not applied here. It panics if sq is off the board.
func PieceMoves(b Board, sq Square, side Side) []Move {
	piece, ok := b.Get(sq)
	if !ok || piece.Side != side {
		return []Move{}
	}
	if piece.IsKing() {
		return kingMoves(b, sq, side)
	}
	return regularMoves(b, sq, side)
}

// SideMoves is the union of PieceMoves over every piece of side, in
// row-major square order.
func SideMoves(b Board, side Side) []Move {
	moves := []Move{}
	for i, p := range b.cells {
		if p.Side == side {
			moves = append(moves, PieceMoves(b, squareAt(i), side)...)
		}
	}
	return moves
}

// FilterMandatory returns only the captures in moves when there is at least
// one, and moves unchanged otherwise.
func FilterMandatory(moves []Move) []Move {
	captures := captureMoves(moves)
	if len(captures) > 0 {
		return captures
	}
	return moves
}

// CanContinue reports whether the piece on sq has a capture available.
func CanContinue(b Board, sq Square, side Side) bool {
	return hasCapture(PieceMoves(b, sq, side))
}

func regularMoves(b Board, from Square, side Side) []Move {
	moves := []Move{}
	for _, d := range diagonals {
		if d.row != side.forward() {
			continue
		}
		to := from.step(d, 1)
		if to.Valid() && b.isEmpty(to) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	// Regular pieces capture backward too.
	for _, d := range diagonals {
		over, to := from.step(d, 1), from.step(d, 2)
		if !to.Valid() {
			continue
		}
		if b.ownedBy(over, side.Opponent()) && b.isEmpty(to) {
			moves = append(moves, Move{From: from, To: to, Capture: true})
		}
	}
	return moves
}

func kingMoves(b Board, from Square, side Side) []Move {
	moves := []Move{}
	for _, d := range diagonals {
		target := from.step(d, 1)
		for target.Valid() && b.isEmpty(target) {
			moves = append(moves, Move{From: from, To: target})
			target = target.step(d, 1)
		}
		if !target.Valid() || !b.ownedBy(target, side.Opponent()) {
			continue
		}
		landing := target.step(d, 1)
		for landing.Valid() && b.isEmpty(landing) {
			moves = append(moves, Move{From: from, To: landing, Capture: true})
			landing = landing.step(d, 1)
		}
	}
	return moves
}

// Apply validates m against the moving piece's own legal moves and returns
// the resulting board. The capture flag on m is ignored; the re-derived move
// is what gets applied. The receiver is left untouched.
func (b Board) Apply(m Move) (Board, Ply, error) {
	if !m.From.Valid() || !m.To.Valid() {
		return b, Ply{}, fmt.Errorf("move %v-%v: %w", m.From, m.To, ErrInvalidSquare)
	}
	piece, ok := b.Get(m.From)
	if !ok {
		return b, Ply{}, fmt.Errorf("move %v-%v: %w", m.From, m.To, ErrEmptySquare)
	}
	legal, ok := findMove(PieceMoves(b, m.From, piece.Side), m)
	if !ok {
		return b, Ply{}, fmt.Errorf("move %v-%v: %w", m.From, m.To, ErrIllegalMove)
	}
	next, ply := b.apply(legal)
	return next, ply, nil
}

// apply performs a move already known to be legal.
func (b Board) apply(m Move) (Board, Ply) {
	piece, _ := b.Get(m.From)
	ply := Ply{Move: m, Piece: piece}

	b.clear(m.From)
	b.set(m.To, piece)

	if m.Capture {
		captured := b.firstOccupiedBetween(m.From, m.To)
		ply.CapturedPiece, _ = b.Get(captured)
		ply.Captured = &captured
		b.clear(captured)
	}

	// Promotion happens on landing, even in the middle of a chain.
	if !piece.IsKing() && m.To.Row == piece.Side.promotionRow() {
		b.set(m.To, Piece{Side: piece.Side, Rank: King})
		ply.Promoted = true
	}
	return b, ply
}

// firstOccupiedBetween walks the diagonal from -> to and returns the first
// occupied square strictly between them. For a regular capture that is the
// midpoint; for a king capture it is the single enemy piece jumped.
func (b Board) firstOccupiedBetween(from, to Square) Square {
	d := direction{row: sign(to.Row - from.Row), col: sign(to.Col - from.Col)}
	for sq := from.step(d, 1); sq != to; sq = sq.step(d, 1) {
		if !b.isEmpty(sq) {
			return sq
		}
	}
	panic(fmt.Sprintf("capture %v-%v has no piece to remove", from, to))
}

func (b Board) isEmpty(sq Square) bool {
	_, ok := b.Get(sq)
	return !ok
}

func (b Board) ownedBy(sq Square, side Side) bool {
	p, ok := b.Get(sq)
	return ok && p.Side == side
}

func captureMoves(moves []Move) []Move {
	captures := []Move{}
	for _, m := range moves {
		if m.Capture {
			captures = append(captures, m)
		}
	}
	return captures
}

func hasCapture(moves []Move) bool {
	for _, m := range moves {
		if m.Capture {
			return true
		}
	}
	return false
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
