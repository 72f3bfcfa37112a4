package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Decoder parses and validates inbound frames.
type Decoder struct {
	validate *validator.Validate
}

// NewDecoder creates a Decoder with struct-tag validation enabled.
func NewDecoder() *Decoder {
	return &Decoder{validate: validator.New()}
}

// Decode parses a raw frame into an Inbound event. It returns an error if the
// envelope is not valid JSON, the event name is unknown, or a required payload
// field is missing. No state may be touched before Decode succeeds.
func (d *Decoder) Decode(raw []byte) (*Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	in := &Inbound{Type: env.Event}

	var payload any
	switch env.Event {
	case TypeJoin:
		in.Join = &Join{}
		payload = in.Join
	case TypeJoinRoom:
		in.JoinRoom = &JoinRoom{}
		payload = in.JoinRoom
	case TypeSendMessage:
		in.SendMessage = &SendMessage{}
		payload = in.SendMessage
	case TypeTyping:
		in.Typing = &Typing{}
		payload = in.Typing
	case TypeDraw:
		in.Draw = &Draw{}
		payload = in.Draw
	case TypeRequestWhiteboard:
		in.RequestWhiteboard = &RequestWhiteboard{}
		payload = in.RequestWhiteboard
	case TypeAcceptWhiteboard:
		in.AcceptWhiteboard = &AcceptWhiteboard{}
		payload = in.AcceptWhiteboard
	case TypeEndWhiteboard:
		in.EndWhiteboard = &EndWhiteboard{}
		payload = in.EndWhiteboard
	case TypeRequestChatInvite:
		in.RequestChatInvite = &RequestChatInvite{}
		payload = in.RequestChatInvite
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	if err := d.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return in, nil
}
