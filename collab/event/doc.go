// Package event defines the wire protocol for the collaboration server.
//
// Every frame, in both directions, is a JSON envelope:
//
//	{"event": "<name>", "data": { ... }}
//
// Inbound events form a closed set (see the Type* constants). Decode parses a
// raw frame into an Inbound value with exactly one payload pointer set, and
// validates required fields before the caller touches any state. A frame that
// names an unknown event or is missing a required field is rejected with an
// error; the dispatch layer drops such frames silently.
//
// Outbound events are (target, payload) pairs produced by the orchestrator.
// The transport is responsible for wrapping them back into envelopes.
package event
