package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeMove MessageType = "move"

	// server -> client
	MessageTypeGameState            MessageType = "gameState"
	MessageTypeGameStarted          MessageType = "gameStarted"
	MessageTypeWaiting              MessageType = "waitingForOpponent"
	MessageTypeOpponentMove         MessageType = "opponentMove"
	MessageTypeOpponentDisconnected MessageType = "opponentDisconnected"
	MessageTypeLobbyChanged         MessageType = "lobbyChanged"
	MessageTypeMatchFound           MessageType = "matchFound"
	MessageTypeError                MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a message of type t. A nil payload
// produces a message without one.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// MustMessage is NewMessage for payloads that always marshal.
func MustMessage(t MessageType, payload interface{}) Message {
	msg, err := NewMessage(t, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type GameStartedPayload struct {
	GameID string `json:"gameId"`
	Side   string `json:"side"`
}

type WaitingPayload struct {
	GameID string `json:"gameId"`
}
