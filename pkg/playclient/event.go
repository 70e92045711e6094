// Package playclient implements the streaming client to the remote play
// service: a websocket JSON-lines event feed driving a pool of concurrent
// engine.Engine instances, one goroutine per active game. This is the
// spec's "external collaborator" surface (§1, §9): the engine package
// itself stays synchronous and single-threaded-per-search, and this
// package is the piece that owns the concurrency around it.
package playclient

import "encoding/json"

// EventType discriminates the shape of a streamed event, the way a
// lichess-style bot API's "game started"/"game state"/"chat"/"game
// finished" stream does.
type EventType string

const (
	EventGameStarted  EventType = "gameStarted"
	EventGameState    EventType = "gameState"
	EventChatMessage  EventType = "chatMessage"
	EventGameFinished EventType = "gameFinished"
)

// Event is one line of the JSON-lines event feed. Fields not relevant to
// the event's Type are left zero.
type Event struct {
	Type EventType `json:"type"`

	GameID string `json:"gameId"`

	// GameStarted / GameState
	FEN        string   `json:"fen,omitempty"`
	Moves      []string `json:"moves,omitempty"` // long-algebraic, from game start
	WhiteTime  int64    `json:"whiteTimeMs,omitempty"`
	BlackTime  int64    `json:"blackTimeMs,omitempty"`
	WhiteInc   int64    `json:"whiteIncMs,omitempty"`
	BlackInc   int64    `json:"blackIncMs,omitempty"`
	PlayingAs  string   `json:"playingAs,omitempty"` // "white" or "black"

	// ChatMessage
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`

	// GameFinished
	Winner string `json:"winner,omitempty"`
	Status string `json:"status,omitempty"`
}

func decodeEvent(line []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(line, &e)
	return e, err
}
