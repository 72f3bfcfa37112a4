package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Preethiroja/StudyVault-MERN/collab/event"
	"github.com/Preethiroja/StudyVault-MERN/collab/orchestrator"
	"github.com/Preethiroja/StudyVault-MERN/collab/registry"
	"github.com/Preethiroja/StudyVault-MERN/collab/room"
)

func newTestHub() *Hub {
	reg := registry.New()
	rooms := room.NewManager()
	return NewHub(orchestrator.New(reg, rooms))
}

func TestNewHub(t *testing.T) {
	hub := newTestHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}

	if hub.inbound == nil {
		t.Error("Hub inbound channel is nil")
	}

	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

// startTestServer spins up the hub and an HTTP server exposing it on /ws.
func startTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := newTestHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r)
	}))
	t.Cleanup(server.Close)

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, eventName string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal %s data: %v", eventName, err)
	}
	if err := conn.WriteJSON(event.Envelope{Event: eventName, Data: payload}); err != nil {
		t.Fatalf("Failed to send %s: %v", eventName, err)
	}
}

// readEvent reads frames until one with the wanted event name arrives.
func readEvent(t *testing.T, conn *websocket.Conn, want string) event.Envelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Reading for %s event: %v", want, err)
		}

		var env event.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("Failed to unmarshal frame: %v", err)
		}
		if env.Event == want {
			return env
		}
	}
}

func TestWebSocketJoinBroadcastsPresence(t *testing.T) {
	_, server := startTestServer(t)

	alice := dial(t, server)
	bob := dial(t, server)

	send(t, alice, event.TypeJoin, event.Join{User: "Alice"})
	env := readEvent(t, alice, event.TypeOnlineUsers)

	var users []string
	if err := json.Unmarshal(env.Data, &users); err != nil {
		t.Fatalf("Failed to unmarshal online-users: %v", err)
	}
	if len(users) != 1 || users[0] != "Alice" {
		t.Errorf("Expected [Alice], got %v", users)
	}

	send(t, bob, event.TypeJoin, event.Join{User: "Bob"})
	env = readEvent(t, bob, event.TypeOnlineUsers)

	if err := json.Unmarshal(env.Data, &users); err != nil {
		t.Fatalf("Failed to unmarshal online-users: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 online users, got %v", users)
	}
}

func TestWebSocketRoomMessageRoundtrip(t *testing.T) {
	_, server := startTestServer(t)

	alice := dial(t, server)
	bob := dial(t, server)

	send(t, alice, event.TypeJoin, event.Join{User: "Alice"})
	send(t, bob, event.TypeJoin, event.Join{User: "Bob"})
	send(t, alice, event.TypeJoinRoom, event.JoinRoom{RoomID: "public-hall", User: "Alice"})
	send(t, bob, event.TypeJoinRoom, event.JoinRoom{RoomID: "public-hall", User: "Bob"})

	// Alice should see the system notice about Bob
	env := readEvent(t, alice, event.TypeSystemMessage)
	var notice event.SystemMessage
	if err := json.Unmarshal(env.Data, &notice); err != nil {
		t.Fatalf("Failed to unmarshal system notice: %v", err)
	}
	if notice.User != "System" || !strings.Contains(notice.Text, "Bob") {
		t.Errorf("Unexpected system notice: %+v", notice)
	}

	send(t, alice, event.TypeSendMessage, event.SendMessage{
		RoomID:  "public-hall",
		User:    "Alice",
		Message: "hi",
	})

	// Both members receive the message, including the sender
	for name, conn := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		env := readEvent(t, conn, event.TypeReceiveMessage)

		var msg event.ReceiveMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			t.Fatalf("%s: failed to unmarshal message: %v", name, err)
		}
		if msg.User != "Alice" || msg.Message != "hi" || msg.RoomID != "public-hall" {
			t.Errorf("%s: unexpected message: %+v", name, msg)
		}
		if msg.Time == "" {
			t.Errorf("%s: message is missing its server timestamp", name)
		}
	}
}

func TestWebSocketDrawNeverEchoesToSender(t *testing.T) {
	_, server := startTestServer(t)

	alice := dial(t, server)
	bob := dial(t, server)

	send(t, alice, event.TypeJoin, event.Join{User: "Alice"})
	send(t, bob, event.TypeJoin, event.Join{User: "Bob"})
	send(t, alice, event.TypeJoinRoom, event.JoinRoom{RoomID: "public-hall", User: "Alice"})
	send(t, bob, event.TypeJoinRoom, event.JoinRoom{RoomID: "public-hall", User: "Bob"})

	// Wait for the system notice about Bob so his membership is in place
	// before the stroke goes out
	readEvent(t, alice, event.TypeSystemMessage)

	if err := alice.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"draw","data":{"roomId":"public-hall","x0":1,"y0":2,"x1":3,"y1":4}}`)); err != nil {
		t.Fatalf("Failed to send draw: %v", err)
	}

	// Bob receives the segment without the routing field
	env := readEvent(t, bob, event.TypeDraw)
	var segment map[string]any
	if err := json.Unmarshal(env.Data, &segment); err != nil {
		t.Fatalf("Failed to unmarshal draw segment: %v", err)
	}
	if _, ok := segment["roomId"]; ok {
		t.Error("draw relay should strip roomId")
	}
	if segment["x0"] != float64(1) {
		t.Errorf("Unexpected segment: %v", segment)
	}

	// Alice must not get the stroke back; the next frame she could see is
	// something else or nothing at all
	alice.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	for {
		_, data, err := alice.ReadMessage()
		if err != nil {
			break // timeout: nothing echoed
		}
		var got event.Envelope
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Failed to unmarshal frame: %v", err)
		}
		if got.Event == event.TypeDraw {
			t.Fatal("draw event echoed back to sender")
		}
	}
}

func TestWebSocketDisconnectUpdatesPresence(t *testing.T) {
	_, server := startTestServer(t)

	alice := dial(t, server)
	bob := dial(t, server)

	send(t, alice, event.TypeJoin, event.Join{User: "Alice"})
	send(t, bob, event.TypeJoin, event.Join{User: "Bob"})
	readEvent(t, bob, event.TypeOnlineUsers)

	alice.Close()

	// Bob eventually sees a snapshot without Alice
	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("never saw presence without Alice")
		}

		env := readEvent(t, bob, event.TypeOnlineUsers)
		var users []string
		if err := json.Unmarshal(env.Data, &users); err != nil {
			t.Fatalf("Failed to unmarshal online-users: %v", err)
		}
		if len(users) == 1 && users[0] == "Bob" {
			break
		}
	}
}
