package store

import (
	"errors"
	"maps"
	"slices"

	"github.com/DoyleJ11/wordgame-client/internal/action"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

var ErrUnknownAction = errors.New("unknown action")
var ErrBadPayload = errors.New("bad action payload")

type LobbyState struct {
	SoughtGames []action.SoughtGame
}

// GameState is the client's view of the game it is watching or playing.
// Turns are never mutated in place; reducers build new slices so snapshots
// already handed out stay valid.
type GameState struct {
	GameID        string
	Lexicon       string
	Players       []*wire.PlayerInfo
	Turns         []*wire.GameTurn
	Rack          string
	Clocks        map[string]int32
	ClockRunning  bool
	Playing       wire.PlayState
	LastChallenge *wire.ServerChallengeResultEvent
}

func isLobbyAction(t action.Type) bool {
	switch t {
	case action.AddSoughtGame, action.AddSoughtGames, action.RemoveSoughtGame:
		return true
	}
	return false
}

func ReduceLobby(s LobbyState, a action.Action) (LobbyState, error) {
	switch a.Type {
	case action.AddSoughtGame:
		sg, ok := a.Payload.(action.SoughtGame)
		if !ok {
			return s, ErrBadPayload
		}
		games := slices.DeleteFunc(slices.Clone(s.SoughtGames), func(g action.SoughtGame) bool {
			return g.SeekID == sg.SeekID
		})
		return LobbyState{SoughtGames: append(games, sg)}, nil

	case action.AddSoughtGames:
		games, ok := a.Payload.([]action.SoughtGame)
		if !ok {
			return s, ErrBadPayload
		}
		return LobbyState{SoughtGames: slices.Clone(games)}, nil

	case action.RemoveSoughtGame:
		id, ok := a.Payload.(string)
		if !ok {
			return s, ErrBadPayload
		}
		games := slices.DeleteFunc(slices.Clone(s.SoughtGames), func(g action.SoughtGame) bool {
			return g.SeekID == id
		})
		return LobbyState{SoughtGames: games}, nil

	default:
		return s, ErrUnknownAction
	}
}

func ReduceGame(s GameState, a action.Action) (GameState, error) {
	switch a.Type {
	case action.RefreshHistory:
		ghr, ok := a.Payload.(*wire.GameHistoryRefresher)
		if !ok || ghr == nil {
			return s, ErrBadPayload
		}
		return refresh(ghr), nil

	case action.AddGameEvent:
		sge, ok := a.Payload.(*wire.ServerGameplayEvent)
		if !ok || sge == nil || sge.Event == nil {
			return s, ErrBadPayload
		}
		return addEvent(s, sge), nil

	default:
		return s, ErrUnknownAction
	}
}

func refresh(ghr *wire.GameHistoryRefresher) GameState {
	h := ghr.History
	if h == nil {
		h = &wire.GameHistory{}
	}
	s := GameState{
		GameID:       h.UID,
		Lexicon:      h.Lexicon,
		Players:      slices.Clone(h.Players),
		Turns:        slices.Clone(h.Turns),
		Clocks:       map[string]int32{},
		ClockRunning: len(h.FinalScores) == 0,
	}
	if len(h.FinalScores) > 0 {
		s.Playing = wire.PlayStateGameOver
	}
	times := []int32{ghr.TimePlayer1, ghr.TimePlayer2}
	for i, p := range s.Players {
		if i < len(times) && p != nil {
			s.Clocks[p.Nickname] = times[i]
		}
	}
	return s
}

// addEvent extends the last turn when the same player is still acting,
// otherwise starts a new turn.
func addEvent(s GameState, sge *wire.ServerGameplayEvent) GameState {
	evt := sge.Event
	next := s
	next.Turns = slices.Clone(s.Turns)

	if n := len(next.Turns); n > 0 && sameActor(next.Turns[n-1], evt) {
		last := next.Turns[n-1]
		next.Turns[n-1] = &wire.GameTurn{Events: append(slices.Clone(last.Events), evt)}
	} else {
		next.Turns = append(next.Turns, &wire.GameTurn{Events: []*wire.GameEvent{evt}})
	}

	if sge.GameID != "" {
		next.GameID = sge.GameID
	}
	if sge.NewRack != "" {
		next.Rack = sge.NewRack
	}
	next.Clocks = maps.Clone(s.Clocks)
	if next.Clocks == nil {
		next.Clocks = map[string]int32{}
	}
	next.Clocks[evt.Nickname] = sge.TimeRemaining

	next.Playing = sge.Playing
	next.ClockRunning = sge.Playing != wire.PlayStateGameOver
	return next
}

func sameActor(t *wire.GameTurn, evt *wire.GameEvent) bool {
	return t != nil && len(t.Events) > 0 && t.Events[0].Nickname == evt.Nickname
}
