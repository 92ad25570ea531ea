package model

// Outcome is the terminal state of a position for the side to move.
type Outcome int

const (
	Ongoing Outcome = iota
	NoMoves         // side to move has no moves and loses
	Draw            // neither side has a move
)

func (o Outcome) String() string {
	switch o {
	case NoMoves:
		return "noMoves"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Winner returns the side that won, given who was to move. It is zero for
// Ongoing and Draw.
func (o Outcome) Winner(toMove Side) Side {
	if o == NoMoves {
		return toMove.Opponent()
	}
	return 0
}

// Status checks the unfiltered move sets of both sides. Chain state never
// enters into it.
func Status(b Board, toMove Side) Outcome {
	if len(SideMoves(b, toMove)) > 0 {
		return Ongoing
	}
	if len(SideMoves(b, toMove.Opponent())) == 0 {
		return Draw
	}
	return NoMoves
}
