package playclient

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
)

// Token reads a bearer token from a credentials file, stripping
// surrounding whitespace, the way cmd/talon-live's config names a
// token_file rather than embedding the secret in talon.toml directly.
func Token(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("playclient: read token file %v: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Client maintains one websocket connection to the remote play service's
// event feed and fans out decoded Events to per-game subscribers.
type Client struct {
	url   string
	token string

	mu   sync.Mutex
	subs map[string]chan<- Event // gameID -> subscriber
}

// New dials the play service's event feed at url, authenticating with
// token as a bearer header.
func New(ctx context.Context, url, token string) (*Client, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("playclient: dial %v: %w", url, err)
	}

	c := &Client{
		url:   url,
		token: token,
		subs:  map[string]chan<- Event{},
	}
	go c.readLoop(ctx, conn)
	return c, nil
}

// Lobby registers a channel to receive every GameStarted event, regardless
// of which game it announces -- the feed's equivalent of a challenge/new-
// game notification stream, as opposed to Subscribe's per-game state feed.
func (c *Client) Lobby(ch chan<- Event) func() {
	return c.Subscribe("", ch)
}

// Subscribe registers a channel to receive every Event for gameID,
// including the terminal GameFinished event. The returned unsubscribe
// func must be called once the caller is done to avoid leaking the
// channel reference. An empty gameID subscribes to the lobby feed of
// GameStarted events instead (see Lobby).
func (c *Client) Subscribe(gameID string, ch chan<- Event) func() {
	c.mu.Lock()
	c.subs[gameID] = ch
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, gameID)
		c.mu.Unlock()
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logw.Errorf(ctx, "playclient: feed read failed, closing: %v", err)
			c.closeAll()
			return
		}

		for _, line := range splitLines(data) {
			if len(line) == 0 {
				continue
			}
			event, err := decodeEvent(line)
			if err != nil {
				logw.Warningf(ctx, "playclient: malformed event %q: %v", line, err)
				continue
			}
			c.dispatch(event)
		}
	}
}

// splitLines supports both a single JSON object per websocket frame (the
// common case) and a frame containing several newline-delimited JSON
// documents batched together.
func splitLines(data []byte) [][]byte {
	if i := indexByte(data, '\n'); i < 0 {
		return [][]byte{data}
	}

	var out [][]byte
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		out = append(out, []byte(scanner.Text()))
	}
	return out
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func (c *Client) dispatch(e Event) {
	c.mu.Lock()
	ch, ok := c.subs[e.GameID]
	lobby, hasLobby := c.subs[""]
	c.mu.Unlock()

	if ok {
		ch <- e
	}
	if hasLobby && e.Type == EventGameStarted && e.GameID != "" {
		lobby <- e
	}
}

func (c *Client) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
}
