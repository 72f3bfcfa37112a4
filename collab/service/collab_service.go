package service

import (
	"context"
	"fmt"

	"github.com/Preethiroja/StudyVault-MERN/collab/registry"
	"github.com/Preethiroja/StudyVault-MERN/collab/room"
)

// collabServiceImpl implements CollabService over the live registry and room
// tables. All reads go through their own locks.
type collabServiceImpl struct {
	registry *registry.Registry
	rooms    *room.Manager
}

// NewCollabService creates the introspection service.
func NewCollabService(reg *registry.Registry, rooms *room.Manager) CollabService {
	return &collabServiceImpl{registry: reg, rooms: rooms}
}

func (s *collabServiceImpl) OnlineUsers(ctx context.Context) []string {
	return s.registry.Names()
}

func (s *collabServiceImpl) ListRooms(ctx context.Context) []room.Info {
	return s.rooms.List()
}

func (s *collabServiceImpl) RoomMembers(ctx context.Context, roomID string) ([]Member, error) {
	if _, ok := s.rooms.Kind(roomID); !ok {
		return nil, fmt.Errorf("room %q: %w", roomID, room.ErrRoomNotFound)
	}

	connIDs := s.rooms.Members(roomID)
	members := make([]Member, 0, len(connIDs))
	for _, id := range connIDs {
		members = append(members, Member{ConnID: id, User: s.registry.Name(id)})
	}
	return members, nil
}

func (s *collabServiceImpl) Stats(ctx context.Context) Stats {
	return Stats{
		Connections: s.registry.Len(),
		OnlineUsers: len(s.registry.Names()),
		Rooms:       len(s.rooms.List()),
	}
}
