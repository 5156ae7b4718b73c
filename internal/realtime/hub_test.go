package realtime

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEmitRoutesByReceiver(t *testing.T) {
	hub := NewHub(log.New(io.Discard, "", 0))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.URL.Query().Get("user")
		_ = hub.Serve(w, r, user, user == "admin")
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	admin := dial(t, wsURL+"?user=admin")
	employee := dial(t, wsURL+"?user=emp-1")

	waitConnected(t, hub, 2)

	hub.Emit(nil, "notification", map[string]string{"text": "new loan request"})
	receiver := "emp-1"
	hub.Emit(&receiver, "notification", map[string]string{"text": "loan approved"})

	if got := readText(t, admin); got != "new loan request" {
		t.Fatalf("admin expected broadcast, got %q", got)
	}
	if got := readText(t, employee); got != "loan approved" {
		t.Fatalf("employee expected direct message, got %q", got)
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitConnected(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected() < want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.Connected())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var message struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	if err := json.Unmarshal(raw, &message); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if message.Event != "notification" {
		t.Fatalf("unexpected event %q", message.Event)
	}
	return message.Data["text"]
}
