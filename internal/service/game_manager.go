// service/game_manager.go
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const roomIDLength = 5

type Options struct {
	BotDelay            time.Duration
	MatchmakingInterval time.Duration
	// Random drives the bot. Defaults to a time-seeded source.
	Random model.RandomSource
}

// LobbyEntry is a public room waiting for a second player.
type LobbyEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
}

type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Side   string `json:"side"`
}

type GameManager struct {
	games         map[string]*model.Game
	queue         *model.Queue
	lobbyChannels map[string]chan ws.Message // playerID -> lobby subscriber
	mu            sync.RWMutex

	botDelay            time.Duration
	matchmakingInterval time.Duration
	random              *lockedSource
	schedule            func(time.Duration, func())
	newID               func() string
}

// lockedSource serialises access to a RandomSource shared by bot games.
type lockedSource struct {
	mu  sync.Mutex
	src model.RandomSource
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

func NewGameManager(opts Options) *GameManager {
	if opts.Random == nil {
		opts.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.MatchmakingInterval <= 0 {
		opts.MatchmakingInterval = time.Second
	}
	return &GameManager{
		games:               make(map[string]*model.Game),
		queue:               model.NewQueue(),
		lobbyChannels:       make(map[string]chan ws.Message),
		botDelay:            opts.BotDelay,
		matchmakingInterval: opts.MatchmakingInterval,
		random:              &lockedSource{src: opts.Random},
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		newID: func() string {
			return uuid.New().String()
		},
	}
}

// Run pairs queued players until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(gm.matchmakingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

func (gm *GameManager) processMatchmaking() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		// Matched games never appear in the lobby.
		game := model.NewGame(gm.roomIDLocked(), true)
		p1Side, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorw("failed to seat matched player", "player", player1.ID, "error", err)
			continue
		}
		p2Side, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorw("failed to seat matched player", "player", player2.ID, "error", err)
			continue
		}
		gm.games[game.ID] = game
		log.Infow("match found", "game", game.ID, "first", player1.ID, "second", player2.ID)

		sent1 := gm.sendLobbyLocked(player1.ID, ws.MustMessage(ws.MessageTypeMatchFound, MatchFoundEvent{GameID: game.ID, Side: p1Side.String()}))
		sent2 := gm.sendLobbyLocked(player2.ID, ws.MustMessage(ws.MessageTypeMatchFound, MatchFoundEvent{GameID: game.ID, Side: p2Side.String()}))
		if !sent1 || !sent2 {
			log.Warnw("failed to notify all players of match", "game", game.ID)
		}
	}
}

// roomIDLocked returns an unused short room id. gm.mu must be held.
func (gm *GameManager) roomIDLocked() string {
	for {
		id := strings.ToUpper(gm.newID()[:roomIDLength])
		if _, exists := gm.games[id]; !exists {
			return id
		}
	}
}

// CreateGame opens a room hosted by hostID. A room the host already holds
// is closed first and its guest told the opponent left.
func (gm *GameManager) CreateGame(hostID string, private bool) (string, error) {
	gm.mu.Lock()
	for id, existing := range gm.games {
		if existing.Host() == hostID && !existing.HasBot() {
			gm.closeGameLocked(id, hostID)
		}
	}
	game := model.NewGame(gm.roomIDLocked(), private)
	if _, err := game.AddPlayer(hostID); err != nil {
		gm.mu.Unlock()
		return "", err
	}
	gm.games[game.ID] = game
	gm.mu.Unlock()

	log.Infow("game created", "game", game.ID, "host", hostID, "private", private)
	gm.notifyLobbyChanged()
	return game.ID, nil
}

// CreateBotGame opens a private room where playerID plays First against
// the bot.
func (gm *GameManager) CreateBotGame(playerID string) (string, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, existing := range gm.games {
		if existing.Host() == playerID && existing.HasBot() {
			gm.closeGameLocked(id, playerID)
		}
	}

	game := model.NewGame(gm.roomIDLocked(), true)
	if _, err := game.AddPlayer(playerID); err != nil {
		return "", err
	}
	if _, err := game.AddBot("bot-" + gm.newID()); err != nil {
		return "", err
	}
	gm.games[game.ID] = game
	log.Infow("bot game created", "game", game.ID, "player", playerID)
	return game.ID, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[normalizeID(gameID)]
	if !exists {
		return nil, fmt.Errorf("%s: %w", gameID, model.ErrGameNotFound)
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Side, error) {
	gm.mu.Lock()
	game, exists := gm.games[normalizeID(gameID)]
	if !exists {
		gm.mu.Unlock()
		return 0, fmt.Errorf("%s: %w", gameID, model.ErrGameNotFound)
	}
	_, seated := game.SideOf(playerID)
	side, err := game.AddPlayer(playerID)
	gm.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if seated {
		return side, nil
	}

	log.Infow("player joined", "game", game.ID, "player", playerID, "side", side)
	host := game.Host()
	started := ws.MustMessage(ws.MessageTypeGameStarted, ws.GameStartedPayload{GameID: game.ID, Side: model.First.String()})
	gm.sendLobby(host, started)
	game.Send(host, started)
	gm.sendLobby(playerID, ws.MustMessage(ws.MessageTypeGameStarted, ws.GameStartedPayload{GameID: game.ID, Side: side.String()}))
	game.Broadcast(ws.MustMessage(ws.MessageTypeGameState, game.GetState()))
	gm.notifyLobbyChanged()
	return side, nil
}

// ListLobbies returns the public rooms still waiting for an opponent,
// excluding those hosted by playerID.
func (gm *GameManager) ListLobbies(playerID string) []LobbyEntry {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	entries := []LobbyEntry{}
	for id, game := range gm.games {
		if game.Private || game.IsFull() || game.Host() == playerID {
			continue
		}
		entries = append(entries, LobbyEntry{ID: id, Name: "Room " + id, IsPrivate: game.Private})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		log.Warnw("failed to join matchmaking", "player", playerID, "error", err)
		return err
	}
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// MakeMove plays a move and, once the human's turn is over, schedules the
// bot's reply in bot games.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.Move) (model.TurnResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.TurnResult{}, err
	}
	result, err := game.MakeMove(playerID, move)
	if err != nil {
		return model.TurnResult{}, err
	}
	if !result.ChainContinues && game.BotToMove() {
		gm.schedule(gm.botDelay, func() {
			game.PlayBot(gm.random)
		})
	}
	return result, nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.RegisterConnection(playerID, conn); err != nil {
		return err
	}
	if !game.IsFull() {
		game.Send(playerID, ws.MustMessage(ws.MessageTypeWaiting, ws.WaitingPayload{GameID: game.ID}))
	}
	return nil
}

// UnregisterConnection handles a closed game socket. Leaving ends the room:
// the opponent is told and the room disappears from the lobby.
func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gm.mu.Lock()
	id := normalizeID(gameID)
	game, exists := gm.games[id]
	if !exists || !game.UnregisterConnection(playerID, conn) {
		gm.mu.Unlock()
		return
	}
	gm.closeGameLocked(id, playerID)
	gm.mu.Unlock()

	gm.notifyLobbyChanged()
}

// closeGameLocked removes a room and tells everyone but leaverID.
// gm.mu must be held.
func (gm *GameManager) closeGameLocked(gameID, leaverID string) {
	game, exists := gm.games[gameID]
	if !exists {
		return
	}
	delete(gm.games, gameID)
	log.Infow("game closed", "game", gameID, "leaver", leaverID)

	if opp, ok := game.Opponent(leaverID); ok && !opp.Bot {
		msg := ws.MustMessage(ws.MessageTypeOpponentDisconnected, nil)
		game.Send(opp.ID, msg)
		gm.sendLobbyLocked(opp.ID, msg)
	}
	game.CloseConnections()
}

// RegisterLobbyChannel subscribes playerID to lobby and matchmaking events.
// An older channel for the same player is closed.
func (gm *GameManager) RegisterLobbyChannel(playerID string, ch chan ws.Message) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.lobbyChannels[playerID]; exists {
		delete(gm.lobbyChannels, playerID)
		close(existing)
	}
	gm.lobbyChannels[playerID] = ch
}

// UnregisterLobbyChannel closes ch if it is still playerID's subscription
// and reports whether it was.
func (gm *GameManager) UnregisterLobbyChannel(playerID string, ch chan ws.Message) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	existing, exists := gm.lobbyChannels[playerID]
	if !exists || existing != ch {
		return false
	}
	delete(gm.lobbyChannels, playerID)
	close(ch)
	return true
}

func (gm *GameManager) notifyLobbyChanged() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	msg := ws.MustMessage(ws.MessageTypeLobbyChanged, nil)
	for playerID := range gm.lobbyChannels {
		gm.sendLobbyLocked(playerID, msg)
	}
}

func (gm *GameManager) sendLobby(playerID string, msg ws.Message) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.sendLobbyLocked(playerID, msg)
}

// sendLobbyLocked never blocks; a full subscriber misses the event.
func (gm *GameManager) sendLobbyLocked(playerID string, msg ws.Message) bool {
	ch, ok := gm.lobbyChannels[playerID]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		log.Warnw("lobby subscriber is not keeping up", "player", playerID, "type", msg.Type)
		return false
	}
}

func normalizeID(gameID string) string {
	return strings.ToUpper(strings.TrimSpace(gameID))
}
