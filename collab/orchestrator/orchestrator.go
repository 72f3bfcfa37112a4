package orchestrator

import (
	"time"

	"github.com/Preethiroja/StudyVault-MERN/collab/event"
	"github.com/Preethiroja/StudyVault-MERN/collab/registry"
	"github.com/Preethiroja/StudyVault-MERN/collab/room"
)

// Orchestrator routes decoded client events through the registry and room
// state and produces the outbound deliveries they cause.
type Orchestrator struct {
	registry *registry.Registry
	rooms    *room.Manager
	decoder  *event.Decoder
	clock    func() time.Time
}

// New creates an orchestrator over the given state. State is injected rather
// than package-global so tests can construct a fresh world per case.
func New(reg *registry.Registry, rooms *room.Manager) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		rooms:    rooms,
		decoder:  event.NewDecoder(),
		clock:    time.Now,
	}
}

// NewWithClock is New with a fixed clock, used by tests to pin message
// timestamps.
func NewWithClock(reg *registry.Registry, rooms *room.Manager, clock func() time.Time) *Orchestrator {
	o := New(reg, rooms)
	o.clock = clock
	return o
}

// HandleFrame decodes one raw frame from connID and dispatches it. Frames
// that fail to decode or validate are dropped before any state mutation.
func (o *Orchestrator) HandleFrame(connID string, raw []byte) []event.Outbound {
	in, err := o.decoder.Decode(raw)
	if err != nil {
		return nil
	}
	return o.Dispatch(connID, in)
}

// Dispatch routes one decoded event to its handler and returns the deliveries
// it produced.
func (o *Orchestrator) Dispatch(connID string, in *event.Inbound) []event.Outbound {
	switch in.Type {
	case event.TypeJoin:
		return o.handleJoin(connID, in.Join)
	case event.TypeJoinRoom:
		return o.handleJoinRoom(connID, in.JoinRoom)
	case event.TypeSendMessage:
		return o.handleSendMessage(connID, in.SendMessage)
	case event.TypeTyping:
		return o.handleTyping(connID, in.Typing)
	case event.TypeDraw:
		return o.handleDraw(connID, in.Draw)
	case event.TypeRequestWhiteboard:
		return o.handleRequestWhiteboard(in.RequestWhiteboard)
	case event.TypeAcceptWhiteboard:
		return o.handleAcceptWhiteboard(in.AcceptWhiteboard)
	case event.TypeEndWhiteboard:
		return o.handleEndWhiteboard(in.EndWhiteboard)
	case event.TypeRequestChatInvite:
		return o.handleRequestChatInvite(in.RequestChatInvite)
	}
	return nil
}

// Disconnect tears down all state held for connID: membership in every room,
// the registry entry, and a fresh presence snapshot for everyone left. An
// in-flight invite aimed at the leaving connection simply never resolves.
func (o *Orchestrator) Disconnect(connID string) []event.Outbound {
	o.rooms.LeaveAll(connID)
	if _, ok := o.registry.Unregister(connID); !ok {
		// Never identified itself; nothing to announce.
		return nil
	}
	return o.presenceSnapshot()
}

// handleJoin attaches a display name to the connection. Last join wins.
func (o *Orchestrator) handleJoin(connID string, p *event.Join) []event.Outbound {
	o.registry.Register(connID, p.User)
	return o.presenceSnapshot()
}

// presenceSnapshot recomputes the deduplicated online-user list and addresses
// it to every registered connection.
func (o *Orchestrator) presenceSnapshot() []event.Outbound {
	names := o.registry.Names()
	conns := o.registry.ConnIDs()

	out := make([]event.Outbound, 0, len(conns))
	for _, id := range conns {
		out = append(out, event.Outbound{To: id, Event: event.TypeOnlineUsers, Data: names})
	}
	return out
}

// handleJoinRoom adds the connection to a room, creating it on first join.
// Superseding a previous chat room is silent: the old room's members are not
// told. Other members of the joined room get a system notice.
func (o *Orchestrator) handleJoinRoom(connID string, p *event.JoinRoom) []event.Outbound {
	o.rooms.Join(connID, p.RoomID, room.ClassifyJoin(p.RoomID))

	user := p.User
	if user == "" {
		user = o.registry.Name(connID)
	}

	notice := event.SystemMessage{
		User: "System",
		Text: user + " has joined the study session.",
	}

	var out []event.Outbound
	for _, member := range o.rooms.Members(p.RoomID) {
		if member == connID {
			continue
		}
		out = append(out, event.Outbound{To: member, Event: event.TypeSystemMessage, Data: notice})
	}
	return out
}

// handleSendMessage relays a chat message to every member of the room,
// including the sender, who does not render its own message locally. The
// message is stamped with the sender's registered name and the server clock.
func (o *Orchestrator) handleSendMessage(connID string, p *event.SendMessage) []event.Outbound {
	if !o.rooms.IsMember(connID, p.RoomID) {
		return nil
	}

	msg := event.ReceiveMessage{
		RoomID:  p.RoomID,
		User:    o.registry.Name(connID),
		Message: p.Message,
		Context: p.Context,
		Time:    o.clock().Format("15:04"),
	}

	var out []event.Outbound
	for _, member := range o.rooms.Members(p.RoomID) {
		out = append(out, event.Outbound{To: member, Event: event.TypeReceiveMessage, Data: msg})
	}
	return out
}

// handleTyping relays a typing indicator to the other members of the room.
// The server keeps no typing state; receivers own the display timeout.
func (o *Orchestrator) handleTyping(connID string, p *event.Typing) []event.Outbound {
	if !o.rooms.IsMember(connID, p.RoomID) {
		return nil
	}

	user := p.User
	if user == "" {
		user = o.registry.Name(connID)
	}

	var out []event.Outbound
	for _, member := range o.rooms.Members(p.RoomID) {
		if member == connID {
			continue
		}
		out = append(out, event.Outbound{To: member, Event: event.TypeTyping, Data: user})
	}
	return out
}

// handleDraw relays an opaque drawing action to the other members of the
// room, never back to the sender, who already rendered the stroke locally.
func (o *Orchestrator) handleDraw(connID string, p *event.Draw) []event.Outbound {
	if !o.rooms.IsMember(connID, p.RoomID) {
		return nil
	}

	var out []event.Outbound
	for _, member := range o.rooms.Members(p.RoomID) {
		if member == connID {
			continue
		}
		out = append(out, event.Outbound{To: member, Event: event.TypeDraw, Data: p.Segment})
	}
	return out
}

// handleRequestWhiteboard forwards a pairing request to the connection
// holding the target name. An unknown target drops the request silently; the
// requester is not told.
func (o *Orchestrator) handleRequestWhiteboard(p *event.RequestWhiteboard) []event.Outbound {
	target, ok := o.registry.FindByName(p.ToUser)
	if !ok {
		return nil
	}
	return []event.Outbound{{
		To:    target,
		Event: event.TypeWhiteboardRequest,
		Data:  event.WhiteboardRequestReceived{From: p.From},
	}}
}

// handleAcceptWhiteboard provisions the deterministic pairing room, joins
// both parties' current connections, and announces the room to its members.
func (o *Orchestrator) handleAcceptWhiteboard(p *event.AcceptWhiteboard) []event.Outbound {
	roomID := room.DeriveWhiteboardRoomID(p.From, p.To)

	if conn, ok := o.registry.FindByName(p.From); ok {
		o.rooms.Join(conn, roomID, room.Whiteboard)
	}
	if conn, ok := o.registry.FindByName(p.To); ok {
		o.rooms.Join(conn, roomID, room.Whiteboard)
	}

	approved := event.WhiteboardApproved{RoomID: roomID}
	var out []event.Outbound
	for _, member := range o.rooms.Members(roomID) {
		out = append(out, event.Outbound{To: member, Event: event.TypeWhiteboardApproved, Data: approved})
	}
	return out
}

// handleEndWhiteboard notifies every member of the room that the session is
// over, then evicts them all and deletes the room.
func (o *Orchestrator) handleEndWhiteboard(p *event.EndWhiteboard) []event.Outbound {
	members, err := o.rooms.Delete(p.RoomID)
	if err != nil {
		return nil
	}

	out := make([]event.Outbound, 0, len(members))
	for _, member := range members {
		out = append(out, event.Outbound{To: member, Event: event.TypeWhiteboardEnded, Data: nil})
	}
	return out
}

// handleRequestChatInvite forwards a chat invite carrying the inviter-chosen
// room id. The inviter is expected to already be in that room; acceptance is
// the target sending join-room with the same id.
func (o *Orchestrator) handleRequestChatInvite(p *event.RequestChatInvite) []event.Outbound {
	target, ok := o.registry.FindByName(p.ToUser)
	if !ok {
		return nil
	}
	return []event.Outbound{{
		To:    target,
		Event: event.TypeChatInviteReceived,
		Data:  event.ChatInviteReceived{From: p.From, RoomID: p.RoomID},
	}}
}
