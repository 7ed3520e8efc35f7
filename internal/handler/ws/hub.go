package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 512
)

// Hub fans fresh signals out to connected dashboard clients. Slow clients
// are dropped rather than waited on.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	l        *applogger.Logger
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	symbol string // empty subscribes to every symbol
}

// streamMessage is the frame sent to dashboard clients.
type streamMessage struct {
	Type string      `json:"type"` // signal | error
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard is served from arbitrary origins in dev
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetLogger injects a structured logger.
func (h *Hub) SetLogger(l *applogger.Logger) { h.l = l }

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/signals", h.Serve)
}

// Serve upgrades the connection and starts the client pumps. An optional
// ?symbol= query narrows the stream to one symbol.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		if h.l != nil {
			h.l.Warn("ws upgrade_error", applogger.Error(err))
		}
		return err
	}
	cl := &client{
		conn:   conn,
		send:   make(chan []byte, 16),
		symbol: strings.ToUpper(strings.TrimSpace(c.QueryParam("symbol"))),
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	if h.l != nil {
		h.l.Info("ws client_connected",
			applogger.String("symbol", cl.symbol),
			applogger.Int("clients", n),
		)
	}

	go h.writeLoop(cl)
	go h.readLoop(cl)
	return nil
}

// Broadcast sends a fresh signal to every subscribed client.
func (h *Hub) Broadcast(s *models.TradingSignal) {
	if s == nil {
		return
	}
	b, err := json.Marshal(streamMessage{Type: "signal", Data: s})
	if err != nil {
		return
	}
	h.mu.RLock()
	for cl := range h.clients {
		if cl.symbol != "" && cl.symbol != s.Symbol {
			continue
		}
		select {
		case cl.send <- b:
		default:
			// drop on backpressure
		}
	}
	h.mu.RUnlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()
	for _, cl := range clients {
		h.remove(cl)
	}
}

func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.remove(cl)
	}()
	for {
		select {
		case b, ok := <-cl.send:
			if !ok {
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readLoop(cl *client) {
	defer h.remove(cl)
	cl.conn.SetReadLimit(readLimit)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && h.l != nil {
				h.l.Debug("ws read_error", applogger.Error(err))
			}
			return
		}
	}
}

// remove is idempotent: both pumps defer it.
func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	_ = cl.conn.Close()
	if h.l != nil {
		h.l.Debug("ws client_disconnected", applogger.Int("clients", n))
	}
}

var _ domrepo.Broadcaster = (*Hub)(nil)
