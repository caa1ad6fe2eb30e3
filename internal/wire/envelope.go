// Package wire implements the binary socket envelope: a one-byte
// MessageType tag followed by the protobuf-encoded payload for that tag.
package wire

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyEnvelope      = errors.New("empty envelope")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMalformedPayload   = errors.New("malformed payload")
)

// schemas binds each tag to the record its payload decodes into.
// SOUGHT_GAME_PROCESS_EVENT is never sent to clients and has no entry.
var schemas = map[MessageType]func() Message{
	TypeSeekRequest:                func() Message { return new(SeekRequest) },
	TypeMatchRequest:               func() Message { return new(MatchRequest) },
	TypeClientGameplayEvent:        func() Message { return new(ClientGameplayEvent) },
	TypeServerGameplayEvent:        func() Message { return new(ServerGameplayEvent) },
	TypeGameEndedEvent:             func() Message { return new(GameEndedEvent) },
	TypeGameHistoryRefresher:       func() Message { return new(GameHistoryRefresher) },
	TypeErrorMessage:               func() Message { return new(ErrorMessage) },
	TypeNewGameEvent:               func() Message { return new(NewGameEvent) },
	TypeServerChallengeResultEvent: func() Message { return new(ServerChallengeResultEvent) },
	TypeSeekRequests:               func() Message { return new(SeekRequests) },
	TypeRegisterRealm:              func() Message { return new(RegisterRealm) },
	TypeDeregisterRealm:            func() Message { return new(DeregisterRealm) },
	TypeGameAcceptedEvent:          func() Message { return new(GameAcceptedEvent) },
	TypeTimedOut:                   func() Message { return new(TimedOut) },
}

// Known reports whether t has a payload schema.
func Known(t MessageType) bool {
	_, ok := schemas[t]
	return ok
}

// DecodePayload decodes payload with the schema bound to t.
func DecodePayload(t MessageType, payload []byte) (Message, error) {
	newMsg, ok := schemas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMessageType, uint8(t))
	}
	msg := newMsg()
	if err := msg.unmarshal(payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, t, err)
	}
	return msg, nil
}

// Decode splits an envelope into its tag and decoded payload.
func Decode(envelope []byte) (MessageType, Message, error) {
	if len(envelope) == 0 {
		return 0, nil, ErrEmptyEnvelope
	}
	t := MessageType(envelope[0])
	msg, err := DecodePayload(t, envelope[1:])
	if err != nil {
		return t, nil, err
	}
	return t, msg, nil
}

// Encode renders msg as an envelope.
func Encode(msg Message) []byte {
	e := encoder{b: []byte{byte(msg.Type())}}
	msg.marshal(&e)
	return e.b
}
