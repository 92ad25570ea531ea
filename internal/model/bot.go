package model

// RandomSource is satisfied by *rand.Rand.
type RandomSource interface {
	Intn(n int) int
}

// ChooseMove picks uniformly among the captures in moves if there are any,
// otherwise among all of them. It reports false for an empty set.
func ChooseMove(moves []Move, src RandomSource) (Move, bool) {
	candidates := captureMoves(moves)
	if len(candidates) == 0 {
		candidates = moves
	}
	if len(candidates) == 0 {
		return Move{}, false
	}
	return candidates[src.Intn(len(candidates))], true
}

// PlayBotTurn plays a whole turn for t.Side, following any capture chain
// until the turn passes. It returns the plies in order.
func PlayBotTurn(b Board, t Turn, src RandomSource) (Board, Turn, []Ply) {
	plies := []Ply{}
	side := t.Side
	for t.Side == side {
		m, ok := ChooseMove(t.LegalMoves(b), src)
		if !ok {
			break
		}
		var res TurnResult
		var err error
		b, t, res, err = t.Play(b, m)
		if err != nil {
			// m came from t.LegalMoves.
			panic(err)
		}
		plies = append(plies, res.Ply)
	}
	return b, t, plies
}
