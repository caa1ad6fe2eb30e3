package types

import "time"

// StateView is the JSON form of a session's store snapshot pushed to viewers.
type StateView struct {
	Lobby        []SoughtGameView `json:"lobby"`
	Game         *GameView        `json:"game,omitempty"`
	Chat         []ChatView       `json:"chat"`
	RedirectGame string           `json:"redirect_game,omitempty"`
}

type SoughtGameView struct {
	SeekID          string `json:"seek_id"`
	Seeker          string `json:"seeker"`
	Lexicon         string `json:"lexicon"`
	InitialTimeSecs int32  `json:"initial_time_secs"`
	ChallengeRule   string `json:"challenge_rule"`
}

type ChatView struct {
	EntityType string `json:"entity_type"` // "user" | "server" | "error"
	Sender     string `json:"sender,omitempty"`
	Message    string `json:"message"`
}

// JournalChatView is one persisted chat line served from the journal.
type JournalChatView struct {
	EntityType string    `json:"entity_type"`
	Sender     string    `json:"sender,omitempty"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

type GameView struct {
	GameID        string           `json:"game_id"`
	Lexicon       string           `json:"lexicon,omitempty"`
	Players       []string         `json:"players"`
	Rack          string           `json:"rack,omitempty"`
	Clocks        map[string]int32 `json:"clocks_ms"`
	ClockRunning  bool             `json:"clock_running"`
	GameOver      bool             `json:"game_over"`
	Turns         []TurnView       `json:"turns"`
	LastChallenge *ChallengeView   `json:"last_challenge,omitempty"`
}

// TurnView is one scorecard row.
type TurnView struct {
	Avatar        string `json:"avatar"`
	Nickname      string `json:"nickname"`
	Coords        string `json:"coords,omitempty"`
	TimeRemaining string `json:"time_remaining"`
	Rack          string `json:"rack,omitempty"`
	Play          string `json:"play"`
	Score         string `json:"score"`
	OldScore      int32  `json:"old_score"`
	Cumulative    int32  `json:"cumulative"`
}

type ChallengeView struct {
	Valid         bool   `json:"valid"`
	Challenger    string `json:"challenger"`
	ChallengeRule string `json:"challenge_rule"`
	ReturnedTiles string `json:"returned_tiles,omitempty"`
}
