// Package feed streams settlement events to websocket subscribers. Every
// subscription belongs to one owner and only sees that owner's events.
package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

// Event is one message pushed to subscribers
type Event struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Hub fans events out to the subscribers of each owner
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu   sync.RWMutex
	subs map[string]map[*client]struct{}
}

type client struct {
	hub   *Hub
	owner string
	conn  *websocket.Conn
	send  chan []byte
	once  sync.Once
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.Named("feed"),
		subs:   make(map[string]map[*client]struct{}),
	}
}

// Serve upgrades the request and subscribes the connection to owner's events.
// It returns once the connection is registered; pumps run in the background.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, owner string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{hub: h, owner: owner, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go c.writePump()
	go c.readPump()
	return nil
}

// Publish sends an event to every subscriber of owner. Slow subscribers
// whose buffer is full miss the event.
func (h *Hub) Publish(owner, kind string, data interface{}) {
	msg, err := json.Marshal(Event{Kind: kind, Data: data, At: time.Now().UTC()})
	if err != nil {
		h.logger.Error("failed to encode feed event", zap.String("kind", kind), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.subs[owner] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("feed buffer full, dropping event", zap.String("owner_id", owner), zap.String("kind", kind))
		}
	}
}

// Subscribers returns the number of open connections for owner
func (h *Hub) Subscribers(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[owner])
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*client
	for _, set := range h.subs {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[c.owner] == nil {
		h.subs[c.owner] = make(map[*client]struct{})
	}
	h.subs[c.owner][c] = struct{}{}
	h.logger.Debug("feed subscriber connected", zap.String("owner_id", c.owner))
}

func (h *Hub) unregister(c *client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.subs[c.owner], c)
		if len(h.subs[c.owner]) == 0 {
			delete(h.subs, c.owner)
		}
		h.mu.Unlock()
		close(c.send)
		h.logger.Debug("feed subscriber disconnected", zap.String("owner_id", c.owner))
	})
}

// readPump only watches for close and pong frames; subscribers never send data
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("feed connection error", zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
