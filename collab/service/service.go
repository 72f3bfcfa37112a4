package service

import (
	"context"

	"github.com/Preethiroja/StudyVault-MERN/collab/room"
)

// CollabService defines the observational queries over live state.
type CollabService interface {
	// OnlineUsers returns the deduplicated display names of everyone online.
	OnlineUsers(ctx context.Context) []string

	// ListRooms returns every live room with its kind and member count.
	ListRooms(ctx context.Context) []room.Info

	// RoomMembers returns the current members of a room.
	RoomMembers(ctx context.Context, roomID string) ([]Member, error)

	// Stats returns aggregate counters for health/monitoring.
	Stats(ctx context.Context) Stats
}

// Member identifies one room member: the transport connection and the display
// name it registered, which may be empty for connections that never joined.
type Member struct {
	ConnID string `json:"conn_id"`
	User   string `json:"user"`
}

// Stats summarizes the live state.
type Stats struct {
	Connections int `json:"connections"`
	OnlineUsers int `json:"online_users"`
	Rooms       int `json:"rooms"`
}
