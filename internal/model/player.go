package model

// Conn is the part of a WebSocket connection a game writes to.
// *websocket.Conn from gofiber/websocket satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Player struct {
	ID   string
	Side Side
	Bot  bool
}

type ClientPlayer struct {
	ID   string `json:"name"`
	Side Side   `json:"side"`
	Bot  bool   `json:"bot"`
}

func (p Player) client() ClientPlayer {
	return ClientPlayer{ID: p.ID, Side: p.Side, Bot: p.Bot}
}
