package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsConn wraps one socket with a write lock. gorilla/websocket allows a
// single concurrent writer per connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// wsHub tracks open sockets per user email and pushes JSON events to all of
// a user's connections.
type wsHub struct {
	logger *slog.Logger

	mu    sync.Mutex
	conns map[string][]*wsConn
}

func newWSHub(logger *slog.Logger) *wsHub {
	return &wsHub{logger: logger, conns: make(map[string][]*wsConn)}
}

func (h *wsHub) add(email string, conn *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[email] = append(h.conns[email], conn)
}

func (h *wsHub) remove(email string, conn *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.conns[email]
	for i, c := range conns {
		if c == conn {
			h.conns[email] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[email]) == 0 {
		delete(h.conns, email)
	}
}

func (h *wsHub) push(email string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal live event failed", slog.String("error", err.Error()))
		return
	}
	h.pushRaw(email, data)
}

func (h *wsHub) pushRaw(email string, payload []byte) {
	h.mu.Lock()
	conns := append([]*wsConn(nil), h.conns[email]...)
	h.mu.Unlock()
	for _, conn := range conns {
		if err := conn.write(payload); err != nil {
			h.remove(email, conn)
		}
	}
}

// PushRaw sends an arbitrary text frame to all of a user's sockets. Tests
// use it to exercise malformed payload handling.
func (s *Server) PushRaw(email string, payload []byte) {
	s.hub.pushRaw(email, payload)
}

// Push delivers an event to all of a user's sockets.
func (s *Server) Push(email string, event any) {
	s.hub.push(email, event)
}

// CloseUserSockets drops every socket of one user, simulating a network cut.
func (s *Server) CloseUserSockets(email string) {
	s.hub.mu.Lock()
	conns := append([]*wsConn(nil), s.hub.conns[email]...)
	delete(s.hub.conns, email)
	s.hub.mu.Unlock()
	for _, conn := range conns {
		conn.conn.Close()
	}
}

// handleWS authenticates via the token query parameter and keeps the socket
// open until the peer goes away.
func (s *Server) handleWS(c *gin.Context) {
	rec := s.userByToken(c.Query("token"))
	if rec == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	wc := &wsConn{conn: conn}
	s.hub.add(rec.Email, wc)
	defer func() {
		s.hub.remove(rec.Email, wc)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
