// Package api provides the HTTP surface of the StudyVault collaboration
// server.
//
// Endpoints:
//
//	GET /api/presence          deduplicated online display names
//	GET /api/rooms             live rooms with kind and member count
//	GET /api/rooms/{id}        members of one room
//	GET /api/stats             aggregate connection/room counters
//	GET /api/health            liveness check
//	    /ws                    WebSocket upgrade for the event protocol
//	    /                      static frontend build, if present
//
// Everything under /api is observational: the only way to mutate session
// state is the event protocol over /ws. The server implements http.Handler
// so callers can mount it wherever they need.
package api
