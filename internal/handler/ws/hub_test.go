package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/domain/models"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := NewHub()
	e := echo.New()
	h.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return h, srv
}

func dialHub(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("clients = %d, want %d", h.ClientCount(), want)
}

func readFrame(t *testing.T, conn *websocket.Conn) (string, string) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Type string `json:"type"`
		Data struct {
			Symbol string
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return msg.Type, msg.Data.Symbol
}

func TestHubBroadcast(t *testing.T) {
	h, srv := startHub(t)
	conn := dialHub(t, srv, "/ws/signals")
	waitClients(t, h, 1)

	h.Broadcast(&models.TradingSignal{
		Symbol:      "AAPL",
		Action:      models.ActionBuy,
		GeneratedAt: time.Now().UTC(),
	})

	typ, symbol := readFrame(t, conn)
	if typ != "signal" || symbol != "AAPL" {
		t.Fatalf("unexpected frame type=%q symbol=%q", typ, symbol)
	}
}

func TestHubSymbolFilter(t *testing.T) {
	h, srv := startHub(t)
	conn := dialHub(t, srv, "/ws/signals?symbol=msft")
	waitClients(t, h, 1)

	// AAPL must be skipped for a MSFT-only subscriber, so the first
	// frame observed is the MSFT one.
	h.Broadcast(&models.TradingSignal{Symbol: "AAPL", Action: models.ActionBuy, GeneratedAt: time.Now()})
	h.Broadcast(&models.TradingSignal{Symbol: "MSFT", Action: models.ActionSell, GeneratedAt: time.Now()})

	_, symbol := readFrame(t, conn)
	if symbol != "MSFT" {
		t.Fatalf("filter leaked, got %q", symbol)
	}
}

func TestHubClose(t *testing.T) {
	h, srv := startHub(t)
	conn := dialHub(t, srv, "/ws/signals")
	waitClients(t, h, 1)

	h.Close()
	waitClients(t, h, 0)

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected closed connection")
	}
}
