// Package orchestrator implements the real-time session core: presence
// broadcasting, room-scoped chat and drawing relay, the whiteboard/chat
// invite handshake, and disconnect teardown.
//
// The orchestrator performs no I/O. Each handler mutates the in-memory
// registry/room state and returns the explicit list of (target, payload)
// deliveries the transport should make, which keeps every protocol rule
// testable without a live connection.
//
// Handlers are written to be driven from a single goroutine (the hub's run
// loop), so each inbound event is processed to completion before the next one:
// effectively atomic dispatch, per the concurrency model of the server.
//
// Error handling is deliberately best-effort relay, not request/response: a
// malformed frame, an unknown invite target, or a room action from a
// non-member is dropped silently and never escalated. No inbound frame can
// take down the dispatch loop or affect other connections.
package orchestrator
