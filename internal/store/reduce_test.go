package store

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/wordgame-client/internal/action"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

func sought(id, seeker string) action.SoughtGame {
	return action.SoughtGame{Seeker: seeker, Lexicon: "CSW21", InitialTimeSecs: 600, SeekID: id}
}

func seekIDs(s LobbyState) []string {
	ids := make([]string, 0, len(s.SoughtGames))
	for _, g := range s.SoughtGames {
		ids = append(ids, g.SeekID)
	}
	return ids
}

func TestReduceLobby(t *testing.T) {
	base := LobbyState{SoughtGames: []action.SoughtGame{sought("a", "amy"), sought("b", "bo")}}

	cases := []struct {
		name    string
		setup   LobbyState
		act     action.Action
		wantIDs []string
		wantErr error
	}{
		{
			name:    "add appends",
			setup:   base,
			act:     action.Action{Type: action.AddSoughtGame, Payload: sought("c", "cy")},
			wantIDs: []string{"a", "b", "c"},
		},
		{
			name:    "add replaces same seek id",
			setup:   base,
			act:     action.Action{Type: action.AddSoughtGame, Payload: sought("a", "amy")},
			wantIDs: []string{"b", "a"},
		},
		{
			name:    "add many replaces the list",
			setup:   base,
			act:     action.Action{Type: action.AddSoughtGames, Payload: []action.SoughtGame{sought("x", "x"), sought("y", "y")}},
			wantIDs: []string{"x", "y"},
		},
		{
			name:    "remove filters by id",
			setup:   base,
			act:     action.Action{Type: action.RemoveSoughtGame, Payload: "a"},
			wantIDs: []string{"b"},
		},
		{
			name:    "remove unknown id is harmless",
			setup:   base,
			act:     action.Action{Type: action.RemoveSoughtGame, Payload: "zzz"},
			wantIDs: []string{"a", "b"},
		},
		{
			name:    "wrong payload",
			setup:   base,
			act:     action.Action{Type: action.RemoveSoughtGame, Payload: 7},
			wantIDs: []string{"a", "b"},
			wantErr: ErrBadPayload,
		},
		{
			name:    "game action is not a lobby action",
			setup:   base,
			act:     action.Action{Type: action.RefreshHistory},
			wantIDs: []string{"a", "b"},
			wantErr: ErrUnknownAction,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReduceLobby(tc.setup, tc.act)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want err %v, got %v", tc.wantErr, err)
			}
			ids := seekIDs(got)
			if len(ids) != len(tc.wantIDs) {
				t.Fatalf("want ids %v, got %v", tc.wantIDs, ids)
			}
			for i := range ids {
				if ids[i] != tc.wantIDs[i] {
					t.Fatalf("want ids %v, got %v", tc.wantIDs, ids)
				}
			}
		})
	}
}

func TestReduceLobby_DoesNotMutateInput(t *testing.T) {
	base := LobbyState{SoughtGames: []action.SoughtGame{sought("a", "amy"), sought("b", "bo")}}
	_, _ = ReduceLobby(base, action.Action{Type: action.RemoveSoughtGame, Payload: "a"})

	if base.SoughtGames[0].SeekID != "a" || base.SoughtGames[1].SeekID != "b" {
		t.Fatalf("input state was mutated: %+v", base.SoughtGames)
	}
}

func placement(nick string, score, cum int32) *wire.GameEvent {
	return &wire.GameEvent{Nickname: nick, Type: wire.EventTilePlacementMove, Score: score, Cumulative: cum}
}

func TestReduceGame_RefreshHistory(t *testing.T) {
	ghr := &wire.GameHistoryRefresher{
		History: &wire.GameHistory{
			UID:     "g1",
			Lexicon: "NWL20",
			Players: []*wire.PlayerInfo{{Nickname: "mina"}, {Nickname: "josh"}},
			Turns:   []*wire.GameTurn{{Events: []*wire.GameEvent{placement("mina", 20, 20)}}},
		},
		TimePlayer1: 60000,
		TimePlayer2: 55000,
	}

	s, err := ReduceGame(GameState{}, action.Action{Type: action.RefreshHistory, Payload: ghr})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.GameID != "g1" || len(s.Turns) != 1 || len(s.Players) != 2 {
		t.Fatalf("unexpected state after refresh: %+v", s)
	}
	if s.Clocks["mina"] != 60000 || s.Clocks["josh"] != 55000 {
		t.Fatalf("unexpected clocks: %+v", s.Clocks)
	}
	if !s.ClockRunning {
		t.Fatalf("expected clock running for an unfinished game")
	}
}

func TestReduceGame_RefreshFinishedGameStopsClock(t *testing.T) {
	ghr := &wire.GameHistoryRefresher{History: &wire.GameHistory{FinalScores: []int32{400, 350}}}

	s, err := ReduceGame(GameState{}, action.Action{Type: action.RefreshHistory, Payload: ghr})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.ClockRunning || s.Playing != wire.PlayStateGameOver {
		t.Fatalf("finished game should not run clock: %+v", s)
	}
}

func TestReduceGame_AddGameEventGroupsTurns(t *testing.T) {
	s := GameState{}
	events := []*wire.ServerGameplayEvent{
		{Event: placement("mina", 20, 20), TimeRemaining: 59000, GameID: "g1", NewRack: "AEIRST?"},
		{Event: placement("josh", 30, 30), TimeRemaining: 58000},
		{Event: &wire.GameEvent{Nickname: "josh", Type: wire.EventPhonyTilesReturned, Cumulative: 0}, TimeRemaining: 57000},
		{Event: placement("mina", 12, 32), TimeRemaining: 50000},
	}

	for _, sge := range events {
		var err error
		s, err = ReduceGame(s, action.Action{Type: action.AddGameEvent, Payload: sge})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	if len(s.Turns) != 3 {
		t.Fatalf("want 3 turns, got %d", len(s.Turns))
	}
	if len(s.Turns[1].Events) != 2 {
		t.Fatalf("phony return should join josh's turn, got %d events", len(s.Turns[1].Events))
	}
	if s.Clocks["josh"] != 57000 || s.Clocks["mina"] != 50000 {
		t.Fatalf("unexpected clocks: %+v", s.Clocks)
	}
	if s.GameID != "g1" || s.Rack != "AEIRST?" {
		t.Fatalf("unexpected game id / rack: %q %q", s.GameID, s.Rack)
	}
	if !s.ClockRunning {
		t.Fatalf("clock should be running mid-game")
	}
}

func TestReduceGame_AddEventDoesNotMutatePreviousTurns(t *testing.T) {
	s, _ := ReduceGame(GameState{}, action.Action{Type: action.AddGameEvent, Payload: &wire.ServerGameplayEvent{Event: placement("mina", 20, 20)}})
	before := s.Turns[0]

	_, err := ReduceGame(s, action.Action{Type: action.AddGameEvent, Payload: &wire.ServerGameplayEvent{
		Event: &wire.GameEvent{Nickname: "mina", Type: wire.EventEndRackPoints, EndRackPoints: 8, Cumulative: 28},
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(before.Events) != 1 {
		t.Fatalf("previous turn was mutated: %d events", len(before.Events))
	}
}

func TestReduceGame_GameOverStopsClock(t *testing.T) {
	s, err := ReduceGame(GameState{ClockRunning: true}, action.Action{Type: action.AddGameEvent, Payload: &wire.ServerGameplayEvent{
		Event:   placement("mina", 20, 420),
		Playing: wire.PlayStateGameOver,
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.ClockRunning {
		t.Fatalf("clock should stop on game over")
	}
}

func TestReduceGame_Errors(t *testing.T) {
	cases := []struct {
		name    string
		act     action.Action
		wantErr error
	}{
		{name: "refresh wrong payload", act: action.Action{Type: action.RefreshHistory, Payload: "nope"}, wantErr: ErrBadPayload},
		{name: "refresh nil payload", act: action.Action{Type: action.RefreshHistory, Payload: (*wire.GameHistoryRefresher)(nil)}, wantErr: ErrBadPayload},
		{name: "event without game event", act: action.Action{Type: action.AddGameEvent, Payload: &wire.ServerGameplayEvent{}}, wantErr: ErrBadPayload},
		{name: "lobby action", act: action.Action{Type: action.AddSoughtGame}, wantErr: ErrUnknownAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReduceGame(GameState{}, tc.act)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}
