// Package mcp exposes the collaboration server's introspection API as MCP
// tools.
//
// The Client here is a thin proxy: every tool call is translated into a
// request against the REST API, so the MCP surface can never observe state
// the HTTP surface would not show, and it works equally against an external
// server or the in-process one.
//
// Tools are read-only. Session state is only ever mutated through the
// WebSocket event protocol.
package mcp
