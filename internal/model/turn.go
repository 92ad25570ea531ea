package model

import "fmt"

type TurnState int

const (
	Idle TurnState = iota
	ChainActive
)

func (s TurnState) String() string {
	if s == ChainActive {
		return "chain"
	}
	return "idle"
}

// Turn tracks whose move it is and, while a capture chain is in progress,
// which piece must keep capturing. It is kept out of Board so the same
// position can be examined under different in-turn contexts.
type Turn struct {
	Side  Side
	chain *Square
}

func NewTurn(side Side) Turn {
	return Turn{Side: side}
}

// ChainTurn returns a turn in which the piece on sq is mid-chain.
func ChainTurn(side Side, sq Square) Turn {
	return Turn{Side: side, chain: &sq}
}

func (t Turn) State() TurnState {
	if t.chain != nil {
		return ChainActive
	}
	return Idle
}

// Chain returns the square of the piece that must keep capturing.
func (t Turn) Chain() (Square, bool) {
	if t.chain == nil {
		return Square{}, false
	}
	return *t.chain, true
}

// LegalMoves is the effective legal set: mandatory capture applied, and
// restricted to the chain piece's captures while a chain is active.
func (t Turn) LegalMoves(b Board) []Move {
	if sq, ok := t.Chain(); ok {
		return captureMoves(PieceMoves(b, sq, t.Side))
	}
	return FilterMandatory(SideMoves(b, t.Side))
}

type TurnResult struct {
	Ply            Ply
	ChainContinues bool
}

// Play applies m if it is in the effective legal set and returns the new
// board together with the turn that follows.
func (t Turn) Play(b Board, m Move) (Board, Turn, TurnResult, error) {
	legal, ok := findMove(t.LegalMoves(b), m)
	if !ok {
		return b, t, TurnResult{}, fmt.Errorf("move %v-%v for %s: %w", m.From, m.To, t.Side, ErrIllegalMove)
	}
	next, ply := b.apply(legal)

	// CanContinue sees the post-promotion rank.
	if legal.Capture && CanContinue(next, legal.To, t.Side) {
		return next, ChainTurn(t.Side, legal.To), TurnResult{Ply: ply, ChainContinues: true}, nil
	}
	return next, NewTurn(t.Side.Opponent()), TurnResult{Ply: ply}, nil
}
