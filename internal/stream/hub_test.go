package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"station-dashboard/internal/logging"
	"station-dashboard/internal/models"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if err := hub.Add(conn); err != nil {
			conn.Close()
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Remove(conn)
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func snapshot(seq uint64) *models.Snapshot {
	return &models.Snapshot{
		Seq: seq,
		Stations: []models.Station{
			{ID: "KA-100", Department: models.DepartmentPress, TargetKg: 900, CompletedKg: 300, RemainingKg: 600, LastLogMinutes: 20},
			{ID: "KA-101", Department: models.DepartmentPress, TargetKg: 900, CompletedKg: 890, RemainingKg: 10},
		},
	}
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub := NewHub(10, logging.Discard())
	srv := newTestServer(t, hub)
	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.Observe(snapshot(4))
	f := readFrame(t, conn)
	if f.Type != "snapshot" || f.Seq != 4 {
		t.Fatalf("unexpected frame header %+v", f)
	}
	if len(f.Stations) != 2 || len(f.AtRisk) != 1 || f.AtRisk[0].Station.ID != "KA-100" {
		t.Fatalf("unexpected frame body %+v", f)
	}
	if f.Summary.Completion.TargetKg != 1800 {
		t.Fatalf("unexpected summary %+v", f.Summary)
	}
}

func TestHubSendsLatestFrameOnConnect(t *testing.T) {
	hub := NewHub(10, logging.Discard())
	hub.Observe(snapshot(9))

	srv := newTestServer(t, hub)
	conn := dial(t, srv)
	if f := readFrame(t, conn); f.Seq != 9 {
		t.Fatalf("expected current frame seq 9, got %d", f.Seq)
	}
}

func TestHubRejectsBeyondMax(t *testing.T) {
	hub := NewHub(1, logging.Discard())
	srv := newTestServer(t, hub)
	dial(t, srv)
	waitForClients(t, hub, 1)

	if err := hub.Add(spareConn(t)); !errors.Is(err, ErrTooManyConnections) {
		t.Fatalf("expected ErrTooManyConnections, got %v", err)
	}
}

func TestHubRemovesClosedClients(t *testing.T) {
	hub := NewHub(10, logging.Discard())
	srv := newTestServer(t, hub)
	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

// spareConn returns a server-side connection that is not registered with the hub.
func spareConn(t *testing.T) *websocket.Conn {
	t.Helper()
	ch := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ch <- conn
	}))
	t.Cleanup(srv.Close)
	dial(t, srv)
	select {
	case server := <-ch:
		t.Cleanup(func() { server.Close() })
		return server
	case <-time.After(2 * time.Second):
		t.Fatalf("server side connection not established")
	}
	return nil
}
