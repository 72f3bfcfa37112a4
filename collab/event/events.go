package event

import "encoding/json"

// Inbound event names.
const (
	TypeJoin              = "join"
	TypeJoinRoom          = "join-room"
	TypeSendMessage       = "send-message"
	TypeTyping            = "typing"
	TypeDraw              = "draw"
	TypeRequestWhiteboard = "request-whiteboard"
	TypeAcceptWhiteboard  = "accept-whiteboard"
	TypeEndWhiteboard     = "end-whiteboard"
	TypeRequestChatInvite = "request-chat-invite"
)

// Outbound event names.
const (
	TypeOnlineUsers        = "online-users"
	TypeReceiveMessage     = "receive-message"
	TypeSystemMessage      = "message"
	TypeWhiteboardRequest  = "whiteboard-request-received"
	TypeWhiteboardApproved = "whiteboard-approved"
	TypeWhiteboardEnded    = "whiteboard-ended"
	TypeChatInviteReceived = "chat-invite-received"
)

// Envelope is the frame exchanged over the wire in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound is the decoded form of a client frame. Exactly one payload pointer
// is non-nil, matching Type.
type Inbound struct {
	Type string

	Join              *Join
	JoinRoom          *JoinRoom
	SendMessage       *SendMessage
	Typing            *Typing
	Draw              *Draw
	RequestWhiteboard *RequestWhiteboard
	AcceptWhiteboard  *AcceptWhiteboard
	EndWhiteboard     *EndWhiteboard
	RequestChatInvite *RequestChatInvite
}

// Join claims a display name for the sending connection.
type Join struct {
	User string `json:"user" validate:"required"`
}

// JoinRoom adds the sending connection to a room.
type JoinRoom struct {
	RoomID string `json:"roomId" validate:"required"`
	User   string `json:"user"`
}

// SendMessage is a chat message scoped to a room. Context is an optional tag
// the client attaches (e.g. a subject channel); it is relayed verbatim.
type SendMessage struct {
	RoomID  string `json:"roomId" validate:"required"`
	User    string `json:"user"`
	Message string `json:"message" validate:"required"`
	Context string `json:"context,omitempty"`
}

// Typing is a transient typing indicator for a room.
type Typing struct {
	RoomID string `json:"roomId" validate:"required"`
	User   string `json:"user"`
}

// Draw is an incremental drawing action. The server never interprets the
// stroke itself: everything except roomId is kept opaque in Segment and
// relayed as-is.
type Draw struct {
	RoomID  string `json:"roomId" validate:"required"`
	Segment map[string]json.RawMessage
}

// UnmarshalJSON splits a draw frame into the routing field (roomId) and the
// opaque remainder.
func (d *Draw) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if raw, ok := fields["roomId"]; ok {
		if err := json.Unmarshal(raw, &d.RoomID); err != nil {
			return err
		}
		delete(fields, "roomId")
	}
	d.Segment = fields
	return nil
}

// RequestWhiteboard asks to pair with another user by display name.
type RequestWhiteboard struct {
	From   string `json:"from" validate:"required"`
	ToUser string `json:"toUser" validate:"required"`
}

// AcceptWhiteboard accepts a pending whiteboard request, naming both parties.
type AcceptWhiteboard struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// EndWhiteboard tears down a whiteboard room for all members.
type EndWhiteboard struct {
	RoomID string `json:"roomId" validate:"required"`
}

// RequestChatInvite invites another user into a chat room the inviter has
// already created and joined.
type RequestChatInvite struct {
	From   string `json:"from" validate:"required"`
	ToUser string `json:"toUser" validate:"required"`
	RoomID string `json:"roomId" validate:"required"`
}

// Outbound is one delivery produced by the orchestrator: the payload for
// Event, addressed to the connection To.
type Outbound struct {
	To    string
	Event string
	Data  any
}

// ReceiveMessage is the payload of a relayed chat message. Time is stamped by
// the server when the message is accepted.
type ReceiveMessage struct {
	RoomID  string `json:"roomId"`
	User    string `json:"user"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
	Time    string `json:"time"`
}

// SystemMessage is a server-originated room notice.
type SystemMessage struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// WhiteboardRequestReceived notifies the target of a pairing request.
type WhiteboardRequestReceived struct {
	From string `json:"from"`
}

// WhiteboardApproved tells both parties which room their session lives in.
type WhiteboardApproved struct {
	RoomID string `json:"roomId"`
}

// ChatInviteReceived notifies the target of a chat invite and the room to join.
type ChatInviteReceived struct {
	From   string `json:"from"`
	RoomID string `json:"roomId"`
}
