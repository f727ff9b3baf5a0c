package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/topicmaps/pkg/push"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 32
)

type conn struct {
	clientID string
	wc       *websocket.Conn
	send     chan []byte
}

// hub fans push messages out to connected websocket clients.
type hub struct {
	mu     sync.Mutex
	conns  map[*conn]bool
	upgr   websocket.Upgrader
	logger *log.Logger
}

func newHub(logger *log.Logger) *hub {
	return &hub{conns: make(map[*conn]bool), logger: logger}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// broadcast sends m to every client except the one with id except.
// Slow clients whose buffer is full miss the message.
func (h *hub) broadcast(m push.Message, except string) {
	data, err := json.Marshal(m)
	if err != nil {
		h.logger.Error("encode push message", "type", m.Type, "err", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if except != "" && c.clientID == except {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("push buffer full, dropping message", "client", c.clientID, "type", m.Type)
		}
	}
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	wc, err := h.upgr.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &conn{clientID: r.Header.Get(push.HeaderClientID), wc: wc, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
	h.logger.Debug("push client connected", "client", c.clientID)

	go c.writeAll()
	c.readAll()

	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	close(c.send)
	h.logger.Debug("push client disconnected", "client", c.clientID)
}

// closeAll closes every connection with a normal close frame.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	for c := range h.conns {
		_ = c.wc.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
	}
}

// readAll discards client input until the connection closes.
func (c *conn) readAll() {
	for {
		if _, _, err := c.wc.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *conn) writeAll() {
	defer c.wc.Close()
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.wc.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-t.C:
			c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.wc.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
