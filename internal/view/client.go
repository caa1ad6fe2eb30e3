package view

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/DoyleJ11/wordgame-client/internal/wire"
	"github.com/DoyleJ11/wordgame-client/pkg/types"
)

var (
	ErrUnknownClientType = errors.New("unknown type")
	ErrBadClientMessage  = errors.New("bad message")
)

var clientEvents = map[string]wire.ClientEventType{
	"tile_placement": wire.ClientTilePlacement,
	"pass":           wire.ClientPass,
	"exchange":       wire.ClientExchange,
	"challenge":      wire.ClientChallengePlay,
	"resign":         wire.ClientResign,
}

// ToWireMessage translates a viewer request into the message sent upstream.
// Seeks and matches get a fresh request id.
func ToWireMessage(m types.ClientMessage) (wire.Message, error) {
	switch m.Type {
	case "seek":
		gr, err := gameRequest(m)
		if err != nil {
			return nil, err
		}
		return &wire.SeekRequest{GameRequest: gr}, nil

	case "match":
		if m.ReceivingUser == "" {
			return nil, fmt.Errorf("%w: match needs receiving_user", ErrBadClientMessage)
		}
		gr, err := gameRequest(m)
		if err != nil {
			return nil, err
		}
		return &wire.MatchRequest{
			GameRequest:   gr,
			ReceivingUser: &wire.User{Username: m.ReceivingUser},
		}, nil

	case "register_realm":
		if m.Realm == "" {
			return nil, fmt.Errorf("%w: missing realm", ErrBadClientMessage)
		}
		return &wire.RegisterRealm{Realm: m.Realm}, nil

	case "deregister_realm":
		if m.Realm == "" {
			return nil, fmt.Errorf("%w: missing realm", ErrBadClientMessage)
		}
		return &wire.DeregisterRealm{Realm: m.Realm}, nil

	case "gameplay":
		evt, ok := clientEvents[m.Event]
		if !ok {
			return nil, fmt.Errorf("%w: gameplay event %q", ErrBadClientMessage, m.Event)
		}
		if m.GameID == "" {
			return nil, fmt.Errorf("%w: missing game_id", ErrBadClientMessage)
		}
		return &wire.ClientGameplayEvent{
			EventType:      evt,
			GameID:         m.GameID,
			PositionCoords: m.Position,
			Tiles:          m.Tiles,
		}, nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownClientType, m.Type)
	}
}

func gameRequest(m types.ClientMessage) (*wire.GameRequest, error) {
	rule := wire.ChallengeRuleVoid
	if m.ChallengeRule != "" {
		r, ok := wire.ParseChallengeRule(m.ChallengeRule)
		if !ok {
			return nil, fmt.Errorf("%w: challenge_rule %q", ErrBadClientMessage, m.ChallengeRule)
		}
		rule = r
	}
	if m.Lexicon == "" || m.InitialTimeSeconds <= 0 {
		return nil, fmt.Errorf("%w: seek needs lexicon and initial_time_seconds", ErrBadClientMessage)
	}
	return &wire.GameRequest{
		Lexicon:            m.Lexicon,
		InitialTimeSeconds: m.InitialTimeSeconds,
		IncrementSeconds:   m.IncrementSeconds,
		ChallengeRule:      rule,
		Rated:              m.Rated,
		RequestID:          uuid.NewString(),
		MaxOvertimeMinutes: m.MaxOvertimeMinutes,
	}, nil
}
