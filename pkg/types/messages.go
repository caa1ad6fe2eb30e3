package types

// Viewer -> server
//
//	seek:             lexicon, initial_time_seconds, increment_seconds,
//	                  challenge_rule, rated, max_overtime_minutes
//	match:            seek fields plus receiving_user
//	register_realm:   realm
//	deregister_realm: realm
//	gameplay:         game_id, event ("tile_placement" | "pass" | "exchange" |
//	                  "challenge" | "resign"), position, tiles
type ClientMessage struct {
	Type string `json:"type"`

	Realm string `json:"realm,omitempty"`

	Lexicon            string `json:"lexicon,omitempty"`
	InitialTimeSeconds int32  `json:"initial_time_seconds,omitempty"`
	IncrementSeconds   int32  `json:"increment_seconds,omitempty"`
	ChallengeRule      string `json:"challenge_rule,omitempty"`
	Rated              bool   `json:"rated,omitempty"`
	MaxOvertimeMinutes int32  `json:"max_overtime_minutes,omitempty"`
	ReceivingUser      string `json:"receiving_user,omitempty"`

	GameID   string `json:"game_id,omitempty"`
	Event    string `json:"event,omitempty"`
	Position string `json:"position,omitempty"`
	Tiles    string `json:"tiles,omitempty"`
}

// Server -> viewer
type ServerMessage struct {
	Type    string     `json:"type"` // "StateSnapshot" | "Error"
	Version int        `json:"version,omitempty"`
	State   *StateView `json:"state,omitempty"`
	Error   string     `json:"error,omitempty"`
}
