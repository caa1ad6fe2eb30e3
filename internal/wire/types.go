package wire

import (
	"fmt"
	"strings"
)

// MessageType is the one-byte tag that prefixes every socket envelope.
type MessageType uint8

const (
	TypeSeekRequest MessageType = iota
	TypeMatchRequest
	TypeSoughtGameProcessEvent
	TypeClientGameplayEvent
	TypeServerGameplayEvent
	TypeGameEndedEvent
	TypeGameHistoryRefresher
	TypeErrorMessage
	TypeNewGameEvent
	TypeServerChallengeResultEvent
	TypeSeekRequests
	TypeRegisterRealm
	TypeDeregisterRealm
	TypeGameAcceptedEvent
	TypeTimedOut
)

var typeNames = [...]string{
	TypeSeekRequest:                "SEEK_REQUEST",
	TypeMatchRequest:               "MATCH_REQUEST",
	TypeSoughtGameProcessEvent:     "SOUGHT_GAME_PROCESS_EVENT",
	TypeClientGameplayEvent:        "CLIENT_GAMEPLAY_EVENT",
	TypeServerGameplayEvent:        "SERVER_GAMEPLAY_EVENT",
	TypeGameEndedEvent:             "GAME_ENDED_EVENT",
	TypeGameHistoryRefresher:       "GAME_HISTORY_REFRESHER",
	TypeErrorMessage:               "ERROR_MESSAGE",
	TypeNewGameEvent:               "NEW_GAME_EVENT",
	TypeServerChallengeResultEvent: "SERVER_CHALLENGE_RESULT_EVENT",
	TypeSeekRequests:               "SEEK_REQUESTS",
	TypeRegisterRealm:              "REGISTER_REALM",
	TypeDeregisterRealm:            "DEREGISTER_REALM",
	TypeGameAcceptedEvent:          "GAME_ACCEPTED_EVENT",
	TypeTimedOut:                   "TIMED_OUT",
}

func (t MessageType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("MessageType(%d)", uint8(t))
}

type ChallengeRule int32

const (
	ChallengeRuleVoid ChallengeRule = iota
	ChallengeRuleSingle
	ChallengeRuleDouble
	ChallengeRuleFivePoint
	ChallengeRuleTenPoint
	ChallengeRuleTriple
)

var challengeRuleNames = [...]string{
	ChallengeRuleVoid:      "VOID",
	ChallengeRuleSingle:    "SINGLE",
	ChallengeRuleDouble:    "DOUBLE",
	ChallengeRuleFivePoint: "FIVE_POINT",
	ChallengeRuleTenPoint:  "TEN_POINT",
	ChallengeRuleTriple:    "TRIPLE",
}

func (r ChallengeRule) String() string {
	if r >= 0 && int(r) < len(challengeRuleNames) {
		return challengeRuleNames[r]
	}
	return fmt.Sprintf("ChallengeRule(%d)", int32(r))
}

// ParseChallengeRule accepts the names String produces, in any case.
func ParseChallengeRule(s string) (ChallengeRule, bool) {
	for i, name := range challengeRuleNames {
		if strings.EqualFold(s, name) {
			return ChallengeRule(i), true
		}
	}
	return 0, false
}

// GameEventType mirrors the kinds of events a game history records.
type GameEventType int32

const (
	EventTilePlacementMove GameEventType = iota
	EventPhonyTilesReturned
	EventPass
	EventChallengeBonus
	EventExchange
	EventEndRackPoints
	EventTimePenalty
	EventEndRackPenalty
	EventUnsuccessfulChallengeTurnLoss
	EventChallenge
)

var eventNames = [...]string{
	EventTilePlacementMove:             "TILE_PLACEMENT_MOVE",
	EventPhonyTilesReturned:            "PHONY_TILES_RETURNED",
	EventPass:                          "PASS",
	EventChallengeBonus:                "CHALLENGE_BONUS",
	EventExchange:                      "EXCHANGE",
	EventEndRackPoints:                 "END_RACK_PTS",
	EventTimePenalty:                   "TIME_PENALTY",
	EventEndRackPenalty:                "END_RACK_PENALTY",
	EventUnsuccessfulChallengeTurnLoss: "UNSUCCESSFUL_CHALLENGE_TURN_LOSS",
	EventChallenge:                     "CHALLENGE",
}

func (t GameEventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("GameEventType(%d)", int32(t))
}

type GameEndReason int32

const (
	EndReasonNone GameEndReason = iota
	EndReasonTime
	EndReasonStandard
	EndReasonConsecutiveZeroes
	EndReasonResigned
	EndReasonAborted
	EndReasonTripleChallenge
	EndReasonCancelled
)

type PlayState int32

const (
	PlayStatePlaying PlayState = iota
	PlayStateWaitingForFinalPass
	PlayStateGameOver
)

type ClientEventType int32

const (
	ClientTilePlacement ClientEventType = iota
	ClientPass
	ClientExchange
	ClientChallengePlay
	ClientResign
)
