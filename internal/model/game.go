package model

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// The Game struct focuses on a single game's state and its observers.
// Lock order is Game.mu before GameConnections.mu.
type Game struct {
	ID          string
	Private     bool
	mu          sync.Mutex
	board       Board
	turn        Turn
	first       Player
	second      Player
	outcome     Outcome
	lastMove    *Ply
	sound       string
	connections *GameConnections
}

type CellDTO struct {
	Side Side `json:"side"`
	King bool `json:"king"`
}

type GameState struct {
	ID         string                         `json:"id"`
	Board      [BoardSize][BoardSize]*CellDTO `json:"board"`
	ToMove     Side                           `json:"toMove"`
	Chain      *Square                        `json:"chain"`
	LegalMoves []MoveDTO                      `json:"legalMoves"`
	Status     Outcome                        `json:"status"`
	Winner     Side                           `json:"winner"`
	Started    bool                           `json:"started"`
	Private    bool                           `json:"private"`
	Sound      string                         `json:"sound"`
	LastMove   *Ply                           `json:"lastMove"`
	Players    struct {
		First  ClientPlayer `json:"first"`
		Second ClientPlayer `json:"second"`
	} `json:"players"`
}

func NewGame(id string, private bool) *Game {
	return &Game{
		ID:          id,
		Private:     private,
		board:       NewBoard(),
		turn:        NewTurn(First),
		connections: NewGameConnections(),
	}
}

// AddPlayer seats playerID as First, or as Second if First is taken.
// A player already seated gets their existing side back.
func (g *Game) AddPlayer(playerID string) (Side, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seat(Player{ID: playerID})
}

// AddBot seats an automated opponent in the next free seat.
func (g *Game) AddBot(botID string) (Side, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seat(Player{ID: botID, Bot: true})
}

func (g *Game) seat(p Player) (Side, error) {
	if side, ok := g.sideOf(p.ID); ok {
		return side, nil
	}
	switch {
	case g.first.ID == "":
		p.Side = First
		g.first = p
	case g.second.ID == "":
		p.Side = Second
		g.second = p
	default:
		return 0, fmt.Errorf("game %s: %w", g.ID, ErrGameFull)
	}
	log.Debugw("player seated", "game", g.ID, "player", p.ID, "side", p.Side, "bot", p.Bot)
	return p.Side, nil
}

func (g *Game) sideOf(playerID string) (Side, bool) {
	switch {
	case playerID == "":
		return 0, false
	case g.first.ID == playerID:
		return First, true
	case g.second.ID == playerID:
		return Second, true
	}
	return 0, false
}

func (g *Game) SideOf(playerID string) (Side, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sideOf(playerID)
}

func (g *Game) player(side Side) Player {
	if side == First {
		return g.first
	}
	return g.second
}

// Host is the player who created the room.
func (g *Game) Host() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.first.ID
}

// Opponent returns the player seated against playerID.
func (g *Game) Opponent(playerID string) (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	side, ok := g.sideOf(playerID)
	if !ok {
		return Player{}, false
	}
	opp := g.player(side.Opponent())
	return opp, opp.ID != ""
}

func (g *Game) IsFull() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isFull()
}

func (g *Game) isFull() bool {
	return g.first.ID != "" && g.second.ID != ""
}

func (g *Game) HasBot() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.first.Bot || g.second.Bot
}

// BotToMove reports whether the side to move is an automated player and
// the game is still running.
func (g *Game) BotToMove() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isFull() && g.outcome == Ongoing && g.player(g.turn.Side).Bot
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := GameState{
		ID:         g.ID,
		ToMove:     g.turn.Side,
		LegalMoves: []MoveDTO{},
		Status:     g.outcome,
		Winner:     g.outcome.Winner(g.turn.Side),
		Started:    g.isFull(),
		Private:    g.Private,
		Sound:      g.sound,
	}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if p, ok := g.board.Get(Square{Row: row, Col: col}); ok {
				state.Board[row][col] = &CellDTO{Side: p.Side, King: p.IsKing()}
			}
		}
	}
	if sq, ok := g.turn.Chain(); ok {
		state.Chain = &sq
	}
	if g.outcome == Ongoing {
		state.LegalMoves = movesToDTO(g.turn.LegalMoves(g.board))
	}
	if g.lastMove != nil {
		last := *g.lastMove
		state.LastMove = &last
	}
	state.Players.First = g.first.client()
	state.Players.Second = g.second.client()
	return state
}

// Board returns a copy of the current position.
func (g *Game) Board() Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

// MakeMove validates and plays a move for playerID, then pushes the new
// state to both players and relays the applied move to the opponent.
func (g *Game) MakeMove(playerID string, move Move) (TurnResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("making move", "game", g.ID, "player", playerID, "move", move)

	side, ok := g.sideOf(playerID)
	switch {
	case !ok:
		return TurnResult{}, fmt.Errorf("game %s: %w", g.ID, ErrNotInGame)
	case !g.isFull():
		return TurnResult{}, fmt.Errorf("game %s: %w", g.ID, ErrGameNotStarted)
	case g.outcome != Ongoing:
		return TurnResult{}, fmt.Errorf("game %s: %w", g.ID, ErrGameOver)
	case side != g.turn.Side:
		return TurnResult{}, fmt.Errorf("game %s: %w", g.ID, ErrNotYourTurn)
	case !move.From.Valid() || !move.To.Valid():
		return TurnResult{}, fmt.Errorf("game %s: %w", g.ID, ErrInvalidSquare)
	}

	result, err := g.play(move)
	if err != nil {
		return TurnResult{}, fmt.Errorf("game %s: %w", g.ID, err)
	}

	g.sendLocked(g.player(side.Opponent()).ID, ws.MustMessage(ws.MessageTypeOpponentMove, result.Ply.Move.DTO()))
	g.broadcastStateLocked()
	return result, nil
}

// PlayBot plays the automated side's whole turn if it is to move.
func (g *Game) PlayBot(src RandomSource) []Ply {
	g.mu.Lock()
	defer g.mu.Unlock()

	bot := g.player(g.turn.Side)
	if !g.isFull() || g.outcome != Ongoing || !bot.Bot {
		return nil
	}
	board, turn, plies := PlayBotTurn(g.board, g.turn, src)
	g.board, g.turn = board, turn
	human := g.player(bot.Side.Opponent()).ID
	for _, ply := range plies {
		g.recordPly(ply)
		g.sendLocked(human, ws.MustMessage(ws.MessageTypeOpponentMove, ply.Move.DTO()))
	}
	g.outcome = Status(g.board, g.turn.Side)
	log.Debugw("bot played", "game", g.ID, "plies", len(plies), "status", g.outcome)

	g.broadcastStateLocked()
	return plies
}

func (g *Game) play(move Move) (TurnResult, error) {
	board, turn, result, err := g.turn.Play(g.board, move)
	if err != nil {
		return TurnResult{}, err
	}
	g.board, g.turn = board, turn
	g.recordPly(result.Ply)
	if !result.ChainContinues {
		g.outcome = Status(g.board, g.turn.Side)
	}
	return result, nil
}

func (g *Game) recordPly(ply Ply) {
	g.lastMove = &ply
	switch {
	case ply.Promoted:
		g.sound = "promote"
	case ply.Move.Capture:
		g.sound = "capture"
	default:
		g.sound = "move"
	}
}

// RegisterConnection attaches a player's socket. A second socket for the
// same player is closed and the first one kept.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	connID := fmt.Sprintf("%p", conn)

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.sideOf(playerID); !ok {
		return fmt.Errorf("game %s: %w", g.ID, ErrNotInGame)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugw("registered connection", "game", g.ID, "player", playerID, "conn", connID)

	g.broadcastStateLocked()
	return nil
}

// UnregisterConnection detaches conn if it is still the player's current
// socket and reports whether it was.
func (g *Game) UnregisterConnection(playerID string, conn Conn) bool {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	current, exists := g.connections.connections[playerID]
	if !exists || current != conn {
		return false
	}
	delete(g.connections.connections, playerID)
	return true
}

// Send writes msg to playerID's socket if they have one.
func (g *Game) Send(playerID string, msg ws.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sendLocked(playerID, msg)
}

// Broadcast writes msg to every connected player.
func (g *Game) Broadcast(msg ws.Message) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID := range g.connections.connections {
		g.writeLocked(playerID, msg)
	}
}

// CloseConnections closes every socket attached to the game.
func (g *Game) CloseConnections() {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		conn.Close()
		delete(g.connections.connections, playerID)
	}
}

func (g *Game) sendLocked(playerID string, msg ws.Message) {
	if playerID == "" {
		return
	}
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	g.writeLocked(playerID, msg)
}

// broadcastStateLocked must be called with g.mu held.
func (g *Game) broadcastStateLocked() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.snapshot())
	if err != nil {
		log.Errorw("failed to marshal state", "game", g.ID, "error", err)
		return
	}
	g.Broadcast(msg)
}

// writeLocked must be called with g.connections.mu held. Failed sockets
// are dropped.
func (g *Game) writeLocked(playerID string, msg ws.Message) {
	conn, ok := g.connections.connections[playerID]
	if !ok {
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Warnw("failed to send message", "game", g.ID, "player", playerID, "type", msg.Type, "error", err)
		delete(g.connections.connections, playerID)
	}
}
