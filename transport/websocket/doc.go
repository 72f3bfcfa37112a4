// Package websocket provides the WebSocket transport for the StudyVault
// collaboration server.
//
// Architecture:
//
// The package uses a hub-and-spoke model. Each connection gets a generated id
// and a dedicated read/write goroutine pair; the central Hub owns the client
// table and runs a single event loop that feeds every inbound frame through
// the session orchestrator and fans its (target, payload) deliveries back out
// over the clients' send channels.
//
// Because registration, disconnects, and frames all pass through that one
// loop, registry and room mutations are serialized: one inbound event is
// handled to completion before the next, with no locking inside the handlers
// themselves.
//
// Message Protocol:
//
// Frames are JSON envelopes {"event": "...", "data": {...}} in both
// directions; see the collab/event package for the event catalog.
//
// Usage:
//
//	hub := websocket.NewHub(orch)
//	go hub.Run()
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Client connects and is assigned a connection id
// 2. Client claims a display name with a join event
// 3. Frames are dispatched, deliveries fanned out
// 4. Disconnection triggers session teardown and a presence rebroadcast
package websocket
