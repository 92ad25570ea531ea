package service

import (
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Side, error) {
	side, err := gs.gameManager.AddPlayerToGame(gameID, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to join game: %w", err)
	}
	return side, nil
}

func (gs *GameService) CreateGame(hostID string, private bool) (string, error) {
	gameID, err := gs.gameManager.CreateGame(hostID, private)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) CreateBotGame(playerID string) (string, error) {
	gameID, err := gs.gameManager.CreateBotGame(playerID)
	if err != nil {
		return "", fmt.Errorf("failed to create bot game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) ListLobbies(playerID string) []LobbyEntry {
	return gs.gameManager.ListLobbies(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// HandleMove converts a wire move and plays it. The capture flag sent by the
// client is not trusted; the engine re-derives it.
func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveDTO) (model.TurnResult, error) {
	result, err := gs.gameManager.MakeMove(gameID, playerID, move.Move())
	if err != nil {
		return model.TurnResult{}, fmt.Errorf("move rejected: %w", err)
	}
	return result, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterLobbyChannel(playerID string, ch chan ws.Message) {
	gs.gameManager.RegisterLobbyChannel(playerID, ch)
}

func (gs *GameService) UnregisterLobbyChannel(playerID string, ch chan ws.Message) bool {
	return gs.gameManager.UnregisterLobbyChannel(playerID, ch)
}

// SendError reports a failure on playerID's game socket. Writes go through
// the game so they never race its broadcasts.
func (gs *GameService) SendError(gameID string, playerID string, errorMsg string) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.Send(playerID, ws.MustMessage(ws.MessageTypeError, ws.ErrorPayload{Error: errorMsg}))
}
