package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Preethiroja/StudyVault-MERN/collab/event"
	"github.com/Preethiroja/StudyVault-MERN/collab/orchestrator"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Draw frames carry stroke
	// coordinates and style, so this is roomier than a chat line needs.
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client represents one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// frame is one raw inbound message tagged with its origin connection.
type frame struct {
	connID string
	data   []byte
}

// Hub maintains the set of active clients and drives the session
// orchestrator from a single goroutine.
type Hub struct {
	orch *orchestrator.Orchestrator

	// Registered clients by connection id
	clients map[string]*Client

	// Inbound frames from clients
	inbound chan frame

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a hub driving the given orchestrator.
func NewHub(orch *orchestrator.Orchestrator) *Hub {
	return &Hub{
		orch:       orch,
		clients:    make(map[string]*Client),
		inbound:    make(chan frame),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop. All registry/room mutations happen here,
// one event at a time.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.id] = client
			log.Printf("Connection %s established (total: %d)", client.id, len(h.clients))

		case client := <-h.unregister:
			h.dropClient(client)

		case f := <-h.inbound:
			h.deliver(h.orch.HandleFrame(f.connID, f.data))
		}
	}
}

// ServeWS handles a WebSocket upgrade request, assigns the connection its id,
// and starts the per-connection goroutines.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.NewString(),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// deliver fans the orchestrator's deliveries out to the addressed clients.
// A target that is gone is skipped; a target whose send buffer is full is
// dropped after the loop, which triggers its own teardown.
func (h *Hub) deliver(outs []event.Outbound) {
	var stale []*Client

	for _, out := range outs {
		client, ok := h.clients[out.To]
		if !ok {
			continue
		}

		env := event.Envelope{Event: out.Event}
		if out.Data != nil {
			payload, err := json.Marshal(out.Data)
			if err != nil {
				log.Printf("Failed to marshal %s payload: %v", out.Event, err)
				continue
			}
			env.Data = payload
		}

		data, err := json.Marshal(env)
		if err != nil {
			log.Printf("Failed to marshal %s envelope: %v", out.Event, err)
			continue
		}

		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}

	for _, client := range stale {
		h.dropClient(client)
	}
}

// dropClient removes a client and runs session teardown for it. Teardown
// produces deliveries of its own (presence rebroadcast), which go out before
// the next inbound event is processed.
func (h *Hub) dropClient(client *Client) {
	if _, ok := h.clients[client.id]; !ok {
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	log.Printf("Connection %s closed (remaining: %d)", client.id, len(h.clients))

	h.deliver(h.orch.Disconnect(client.id))
}

// readPump pumps frames from the WebSocket connection into the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.hub.inbound <- frame{connID: c.id, data: message}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
