package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/keylab/storefront/internal/domain/model"
)

// Subscriber receives live events. Called synchronously from the dispatch
// loop; long work belongs elsewhere.
type Subscriber func(model.LiveEvent)

// Channel multiplexes one WebSocket connection to any number of subscribers.
// Events are dispatched strictly in arrival order; each event reaches every
// subscriber registered at dispatch time, in subscription order, before the
// next frame is read.
//
// A dropped connection does not reconnect. Teardown clears all subscribers;
// callers needing current data re-fetch it after reopening.
type Channel struct {
	wsURL  string
	logger *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	subs   []subscription
	nextID int64
	done   chan struct{}
}

type subscription struct {
	id int64
	fn Subscriber
}

// New creates a closed channel pointing at wsURL.
func New(wsURL string, logger *slog.Logger) (*Channel, error) {
	parsed, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse ws url: %w", err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return nil, fmt.Errorf("ws url must use ws or wss scheme")
	}
	return &Channel{wsURL: wsURL, logger: logger}, nil
}

// Open dials the backend with the credential as a connection parameter and
// starts the dispatch loop. Opening an already-open channel is an error.
func (c *Channel) Open(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return fmt.Errorf("live channel already open")
	}

	endpoint, err := url.Parse(c.wsURL)
	if err != nil {
		return fmt.Errorf("parse ws url: %w", err)
	}
	query := endpoint.Query()
	query.Set("token", token)
	endpoint.RawQuery = query.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("dial live channel: %w", err)
	}

	c.conn = conn
	c.done = make(chan struct{})
	go c.readLoop(conn, c.done)
	return nil
}

// Close tears the connection down and clears all subscribers.
func (c *Channel) Close() {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	c.conn = nil
	c.done = nil
	c.subs = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}
}

// IsOpen reports whether a connection is live.
func (c *Channel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Subscribe registers a callback for every subsequent event. Safe to call at
// any time, including from inside a callback; it does not affect the event
// currently being dispatched. The returned function unsubscribes.
func (c *Channel) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				break
			}
		}
	}
}

// readLoop reads frames one at a time and dispatches each fully before the
// next read, giving strict FIFO delivery.
func (c *Channel) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.teardown(conn)
			return
		}

		var event model.LiveEvent
		if err := json.Unmarshal(data, &event); err != nil || event.Type == "" {
			// Malformed frames are dropped, the connection stays up.
			continue
		}
		c.dispatch(event)
	}
}

// dispatch snapshots the subscriber list so unsubscribing mid-dispatch never
// affects delivery of the event in flight.
func (c *Channel) dispatch(event model.LiveEvent) {
	c.mu.Lock()
	snapshot := append([]subscription(nil), c.subs...)
	c.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(event)
	}
}

// teardown runs when the read loop exits on error or deliberate close.
func (c *Channel) teardown(conn *websocket.Conn) {
	c.mu.Lock()
	closedHere := c.conn == conn
	if closedHere {
		c.conn = nil
		c.done = nil
		c.subs = nil
	}
	c.mu.Unlock()

	if closedHere {
		conn.Close()
		c.logger.Info("live channel closed")
	}
}
