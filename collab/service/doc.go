// Package service exposes read-only introspection over the live collaboration
// state for the REST API and the MCP surface.
//
// CollabService is the main interface. It sits between the transports and the
// registry/room state the orchestrator mutates; everything it returns is a
// snapshot, never a live reference, so callers on other goroutines cannot
// perturb dispatch.
package service
