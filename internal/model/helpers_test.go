package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/benbeisheim/checkers-backend/internal/ws"
)

// parseBoard builds a position from eight rows of eight characters:
// '.' empty, 'w'/'W' First regular/king, 'b'/'B' Second regular/king.
func parseBoard(t *testing.T, rows ...string) Board {
	t.Helper()
	if len(rows) != BoardSize {
		t.Fatalf("parseBoard: got %d rows, want %d", len(rows), BoardSize)
	}
	var b Board
	for row, line := range rows {
		if len(line) != BoardSize {
			t.Fatalf("parseBoard: row %d has %d columns, want %d", row, len(line), BoardSize)
		}
		for col := 0; col < BoardSize; col++ {
			var p Piece
			switch line[col] {
			case '.':
				continue
			case 'w':
				p = Piece{Side: First, Rank: Regular}
			case 'W':
				p = Piece{Side: First, Rank: King}
			case 'b':
				p = Piece{Side: Second, Rank: Regular}
			case 'B':
				p = Piece{Side: Second, Rank: King}
			default:
				t.Fatalf("parseBoard: unknown symbol %q at %d,%d", line[col], row, col)
			}
			b.set(Square{Row: row, Col: col}, p)
		}
	}
	return b
}

func sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func simple(fr, fc, tr, tc int) Move {
	return Move{From: sq(fr, fc), To: sq(tr, tc)}
}

func capture(fr, fc, tr, tc int) Move {
	return Move{From: sq(fr, fc), To: sq(tr, tc), Capture: true}
}

// scriptedSource returns its values in order, wrapped into range.
type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

// fakeConn records every message written to it.
type fakeConn struct {
	mu       sync.Mutex
	messages []ws.Message
	closed   bool
	failing  bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return fmt.Errorf("broken pipe")
	}
	msg, ok := v.(ws.Message)
	if !ok {
		return fmt.Errorf("unexpected value %T", v)
	}
	c.messages = append(c.messages, msg)
	return nil
}

func (c *fakeConn) WriteMessage(int, []byte) error {
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) types() []ws.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []ws.MessageType{}
	for _, m := range c.messages {
		out = append(out, m.Type)
	}
	return out
}

func (c *fakeConn) last(t *testing.T, typ ws.MessageType, into interface{}) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Type == typ {
			if err := json.Unmarshal(c.messages[i].Payload, into); err != nil {
				t.Fatalf("unmarshal %s: %v", typ, err)
			}
			return
		}
	}
	t.Fatalf("no %s message received", typ)
}
