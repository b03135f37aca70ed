package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	e := echo.New()
	e.GET("/ws", hub.Serve)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.Len() == 1 })

	hub.Broadcast(EventTaskCreated, map[string]string{"id": "t1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var evt Event
	if err := json.Unmarshal(msg, &evt); err != nil {
		t.Fatal(err)
	}
	if evt.Type != EventTaskCreated || string(evt.Data) != `{"id":"t1"}` {
		t.Fatalf("event = %s %s", evt.Type, evt.Data)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.Len() == 0 })
}

func TestBroadcastDropsStalledSubscriber(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	stalled := &subscriber{send: make(chan []byte, sendBuffer)}
	hub.register(stalled)

	done := make(chan struct{})
	go func() {
		for i := 0; i <= sendBuffer; i++ {
			hub.Broadcast(EventTaskUpdated, map[string]int{"n": i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a subscriber that never drains")
	}

	if hub.Len() != 0 {
		t.Fatalf("subscribers = %d, want stalled one dropped", hub.Len())
	}
	queued := 0
	for range stalled.send {
		queued++
	}
	if queued != sendBuffer {
		t.Fatalf("queued = %d, want %d", queued, sendBuffer)
	}
	hub.unregister(stalled)
}
