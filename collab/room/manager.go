// Package room manages named, ephemeral rooms and their member sets. Rooms
// live only in process memory: a restart drops every room and clients are
// expected to re-join.
package room

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Kind classifies a room. The kind is fixed when the room is created.
type Kind string

const (
	// Public rooms are shared halls; anyone may sit in them alongside any
	// other membership.
	Public Kind = "public"
	// Chat rooms are private study rooms. A connection holds at most one
	// chat-room membership; joining another chat room supersedes it.
	Chat Kind = "chat"
	// Whiteboard rooms are provisioned by the pairing handshake and are
	// deleted only by explicit teardown.
	Whiteboard Kind = "whiteboard"
)

var ErrRoomNotFound = errors.New("room not found")

// Info describes a room for introspection.
type Info struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Members int    `json:"members"`
}

type room struct {
	kind    Kind
	members map[string]struct{}
}

// Manager owns the room table.
//
// Mutations arrive from the single dispatch goroutine; the mutex exists for
// the introspection readers on other goroutines.
type Manager struct {
	mu         sync.RWMutex
	rooms      map[string]*room
	chatRoomOf map[string]string // connID -> its one chat room, if any
}

// NewManager creates an empty room manager.
func NewManager() *Manager {
	return &Manager{
		rooms:      make(map[string]*room),
		chatRoomOf: make(map[string]string),
	}
}

// Join adds connID to roomID, creating the room with the given kind if it does
// not exist. Joining a room twice is a no-op. For chat rooms it returns the id
// of the previously held chat room that this join superseded, or "".
func (m *Manager) Join(connID, roomID string, kind Kind) (superseded string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.rooms[roomID]
	if !ok {
		rm = &room{kind: kind, members: make(map[string]struct{})}
		m.rooms[roomID] = rm
	}

	if rm.kind == Chat {
		if prev, held := m.chatRoomOf[connID]; held && prev != roomID {
			if prevRoom, ok := m.rooms[prev]; ok {
				delete(prevRoom.members, connID)
			}
			superseded = prev
		}
		m.chatRoomOf[connID] = roomID
	}

	rm.members[connID] = struct{}{}
	return superseded
}

// Leave removes connID from roomID. Emptied rooms are retained: chat and
// public rooms hold no server-side content, and whiteboard rooms are deleted
// only by explicit teardown so an in-flight join cannot race room deletion.
func (m *Manager) Leave(connID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leave(connID, roomID)
}

func (m *Manager) leave(connID, roomID string) {
	rm, ok := m.rooms[roomID]
	if !ok {
		return
	}
	delete(rm.members, connID)
	if m.chatRoomOf[connID] == roomID {
		delete(m.chatRoomOf, connID)
	}
}

// LeaveAll removes connID from every room and returns the ids of the rooms it
// was a member of. Used on disconnect.
func (m *Manager) LeaveAll(connID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var left []string
	for id, rm := range m.rooms {
		if _, member := rm.members[connID]; member {
			delete(rm.members, connID)
			left = append(left, id)
		}
	}
	delete(m.chatRoomOf, connID)
	return left
}

// Members returns the current member set of roomID, empty if the room does
// not exist. The result is sorted for deterministic fan-out and testing.
func (m *Manager) Members(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rm, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	members := make([]string, 0, len(rm.members))
	for id := range rm.members {
		members = append(members, id)
	}
	sort.Strings(members)
	return members
}

// IsMember reports whether connID currently belongs to roomID.
func (m *Manager) IsMember(connID, roomID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rm, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	_, member := rm.members[connID]
	return member
}

// Kind returns the kind of roomID.
func (m *Manager) Kind(roomID string) (Kind, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rm, ok := m.rooms[roomID]
	if !ok {
		return "", false
	}
	return rm.kind, true
}

// Delete evicts every member of roomID and removes the room, returning the
// prior member set. This is the explicit teardown path for whiteboard rooms.
func (m *Manager) Delete(roomID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	members := make([]string, 0, len(rm.members))
	for id := range rm.members {
		members = append(members, id)
		if m.chatRoomOf[id] == roomID {
			delete(m.chatRoomOf, id)
		}
	}
	sort.Strings(members)
	delete(m.rooms, roomID)
	return members, nil
}

// List returns an Info for every room, sorted by id.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.rooms))
	for id, rm := range m.rooms {
		infos = append(infos, Info{ID: id, Kind: rm.kind, Members: len(rm.members)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// ClassifyJoin maps a join-room target onto a room kind: ids beginning with
// "public" are shared halls, everything else is a private chat room.
func ClassifyJoin(roomID string) Kind {
	if strings.HasPrefix(roomID, "public") {
		return Public
	}
	return Chat
}

// DeriveWhiteboardRoomID builds the deterministic room id for a whiteboard
// pairing. The names are sorted first so both acceptance orders yield the
// same id.
func DeriveWhiteboardRoomID(a, b string) string {
	names := []string{a, b}
	sort.Strings(names)
	return "WB_" + strings.Join(names, "_")
}
