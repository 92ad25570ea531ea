package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

const lobbyBuffer = 16

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
// on a game socket.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnw("failed to register connection", "game", gameID, "player", playerID, "error", err)
		wsc.sendError(c, err.Error())
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugw("read error", "game", gameID, "player", playerID, "error", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugw("parse error", "game", gameID, "player", playerID, "error", err)
			wsc.gameService.SendError(gameID, playerID, "malformed message")
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugw("handle error", "game", gameID, "player", playerID, "error", err)
			wsc.gameService.SendError(gameID, playerID, err.Error())
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveDTO
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleLobby streams lobby and matchmaking events to a player until the
// socket closes.
func (wsc *WebSocketController) HandleLobby(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)
	events := make(chan ws.Message, lobbyBuffer)
	wsc.gameService.RegisterLobbyChannel(playerID, events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range events {
			if err := c.WriteJSON(msg); err != nil {
				log.Debugw("lobby write error", "player", playerID, "error", err)
				return
			}
		}
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	// A newer lobby socket for the same player keeps the queue entry.
	if wsc.gameService.UnregisterLobbyChannel(playerID, events) {
		wsc.gameService.LeaveMatchmaking(playerID)
	}
	<-done
}

// Helper method to send error messages on a socket no game owns
func (wsc *WebSocketController) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(ws.MustMessage(ws.MessageTypeError, ws.ErrorPayload{Error: errorMsg}))
}
