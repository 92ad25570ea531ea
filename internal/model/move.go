package model

// Move is a proposal until it is matched against a legal move set.
type Move struct {
	From    Square `json:"from"`
	To      Square `json:"to"`
	Capture bool   `json:"capture"`
}

// Ply records what applying a move actually did to the board.
type Ply struct {
	Move          Move    `json:"move"`
	Piece         Piece   `json:"-"`
	Captured      *Square `json:"captured"`
	CapturedPiece Piece   `json:"-"`
	Promoted      bool    `json:"promoted"`
}

// MoveDTO is the wire form of a move: four coordinates and a capture flag.
type MoveDTO struct {
	FromRow   int  `json:"fromRow"`
	FromCol   int  `json:"fromCol"`
	ToRow     int  `json:"toRow"`
	ToCol     int  `json:"toCol"`
	IsCapture bool `json:"isCapture"`
}

func (m Move) DTO() MoveDTO {
	return MoveDTO{
		FromRow:   m.From.Row,
		FromCol:   m.From.Col,
		ToRow:     m.To.Row,
		ToCol:     m.To.Col,
		IsCapture: m.Capture,
	}
}

func (d MoveDTO) Move() Move {
	return Move{
		From:    Square{Row: d.FromRow, Col: d.FromCol},
		To:      Square{Row: d.ToRow, Col: d.ToCol},
		Capture: d.IsCapture,
	}
}

func movesToDTO(moves []Move) []MoveDTO {
	out := make([]MoveDTO, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.DTO())
	}
	return out
}

// sameSquares reports whether a and b name the same from/to pair, ignoring
// the capture flag.
func sameSquares(a, b Move) bool {
	return a.From == b.From && a.To == b.To
}

func findMove(moves []Move, m Move) (Move, bool) {
	for _, legal := range moves {
		if sameSquares(legal, m) {
			return legal, true
		}
	}
	return Move{}, false
}
