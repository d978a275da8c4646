package stream

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"station-dashboard/internal/logging"
	"station-dashboard/internal/metrics"
	"station-dashboard/internal/models"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// ErrTooManyConnections is returned by Add when the hub is full.
var ErrTooManyConnections = errors.New("too many stream connections")

// Frame is one message pushed to dashboard clients.
type Frame struct {
	Type        string                  `json:"type"`
	Seq         uint64                  `json:"seq"`
	GeneratedAt time.Time               `json:"generated_at"`
	Summary     models.Dashboard        `json:"summary"`
	Stations    []models.Station        `json:"stations"`
	AtRisk      []models.RiskAssessment `json:"at_risk"`
}

// NewFrame builds the snapshot frame for snap.
func NewFrame(snap *models.Snapshot) Frame {
	return Frame{
		Type:        "snapshot",
		Seq:         snap.Seq,
		GeneratedAt: snap.GeneratedAt,
		Summary:     metrics.Summarize(snap),
		Stations:    snap.Stations,
		AtRisk:      metrics.RankAtRisk(snap.Stations, metrics.DefaultRankLimit),
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshot frames out to every connected WebSocket client.
type Hub struct {
	mutex   sync.Mutex
	clients map[*websocket.Conn]*client
	max     int
	last    []byte
	logger  *logging.Logger
}

func NewHub(maxConnections int, logger *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		max:     maxConnections,
		logger:  logger,
	}
}

// Observe encodes snap once and broadcasts it.
func (h *Hub) Observe(snap *models.Snapshot) {
	msg, err := json.Marshal(NewFrame(snap))
	if err != nil {
		h.logger.Errorf("Failed to encode snapshot %d: %v", snap.Seq, err)
		return
	}
	h.Broadcast(msg)
}

// Broadcast queues msg for every client. A client that cannot keep up is
// disconnected.
func (h *Hub) Broadcast(msg []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.last = msg
	for conn, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warnf("Stream client %s too slow, dropping", conn.RemoteAddr())
			h.removeLocked(conn)
		}
	}
}

// Add registers conn and starts its writer. The latest frame, if any, is sent
// first.
func (h *Hub) Add(conn *websocket.Conn) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.clients) >= h.max {
		h.logger.Warnf("Max stream connections reached (%d)", h.max)
		return ErrTooManyConnections
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if h.last != nil {
		c.send <- h.last
	}
	h.clients[conn] = c
	go h.writer(c)
	h.logger.Infof("Added stream connection %s (total: %d)", conn.RemoteAddr(), len(h.clients))
	return nil
}

// Remove unregisters conn and closes it.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(conn)
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Full reports whether another client would be refused.
func (h *Hub) Full() bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients) >= h.max
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		h.removeLocked(conn)
	}
}

func (h *Hub) removeLocked(conn *websocket.Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)
	h.logger.Infof("Removed stream connection %s (remaining: %d)", conn.RemoteAddr(), len(h.clients))
}

func (h *Hub) writer(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Errorf("Failed to send stream frame to %s: %v", c.conn.RemoteAddr(), err)
			h.Remove(c.conn)
			// drain until Remove closes the channel
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
