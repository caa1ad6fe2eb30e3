// Package action defines the records the socket router hands to the store.
package action

import "github.com/DoyleJ11/wordgame-client/internal/wire"

type Type string

const (
	AddSoughtGame    Type = "AddSoughtGame"
	AddSoughtGames   Type = "AddSoughtGames"
	RemoveSoughtGame Type = "RemoveSoughtGame"
	RefreshHistory   Type = "RefreshHistory"
	AddGameEvent     Type = "AddGameEvent"
)

// Action is a tagged payload. The payload shape depends on Type:
//
//	AddSoughtGame    SoughtGame
//	AddSoughtGames   []SoughtGame
//	RemoveSoughtGame string (seek id)
//	RefreshHistory   *wire.GameHistoryRefresher
//	AddGameEvent     *wire.ServerGameplayEvent
type Action struct {
	Type    Type
	Payload any
}

// SoughtGame is the lobby's summary of an open seek.
type SoughtGame struct {
	Seeker          string
	Lexicon         string
	InitialTimeSecs int32
	ChallengeRule   wire.ChallengeRule
	SeekID          string
}

type ChatEntityType string

const (
	ChatUser   ChatEntityType = "user"
	ChatServer ChatEntityType = "server"
	ChatError  ChatEntityType = "error"
)

type ChatEntry struct {
	EntityType ChatEntityType
	Sender     string
	Message    string
}
