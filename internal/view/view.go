// Package view converts store state to the JSON shapes in pkg/types and
// viewer requests back into wire messages.
package view

import (
	"github.com/DoyleJ11/wordgame-client/internal/scorecard"
	"github.com/DoyleJ11/wordgame-client/internal/store"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
	"github.com/DoyleJ11/wordgame-client/pkg/types"
)

func State(snap store.Snapshot) types.StateView {
	v := types.StateView{
		Lobby:        make([]types.SoughtGameView, 0, len(snap.Lobby.SoughtGames)),
		Chat:         make([]types.ChatView, 0, len(snap.Chat)),
		RedirectGame: snap.RedirectGame,
	}
	for _, sg := range snap.Lobby.SoughtGames {
		v.Lobby = append(v.Lobby, types.SoughtGameView{
			SeekID:          sg.SeekID,
			Seeker:          sg.Seeker,
			Lexicon:         sg.Lexicon,
			InitialTimeSecs: sg.InitialTimeSecs,
			ChallengeRule:   sg.ChallengeRule.String(),
		})
	}
	for _, c := range snap.Chat {
		v.Chat = append(v.Chat, types.ChatView{
			EntityType: string(c.EntityType),
			Sender:     c.Sender,
			Message:    c.Message,
		})
	}
	if snap.Game.GameID != "" || len(snap.Game.Turns) > 0 {
		g := Game(snap.Game)
		v.Game = &g
	}
	return v
}

func Game(gs store.GameState) types.GameView {
	g := types.GameView{
		GameID:       gs.GameID,
		Lexicon:      gs.Lexicon,
		Players:      make([]string, 0, len(gs.Players)),
		Rack:         gs.Rack,
		Clocks:       gs.Clocks,
		ClockRunning: gs.ClockRunning,
		GameOver:     gs.Playing == wire.PlayStateGameOver,
		Turns:        Scorecard(gs.Turns),
	}
	if g.Clocks == nil {
		g.Clocks = map[string]int32{}
	}
	for _, p := range gs.Players {
		if p != nil {
			g.Players = append(g.Players, p.Nickname)
		}
	}
	if c := gs.LastChallenge; c != nil {
		g.LastChallenge = &types.ChallengeView{
			Valid:         c.Valid,
			Challenger:    c.Challenger,
			ChallengeRule: c.ChallengeRule.String(),
			ReturnedTiles: c.ReturnedTiles,
		}
	}
	return g
}

func Scorecard(turns []*wire.GameTurn) []types.TurnView {
	rows := scorecard.Build(turns)
	out := make([]types.TurnView, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.TurnView{
			Avatar:        r.Avatar,
			Nickname:      r.Nickname,
			Coords:        r.Coords,
			TimeRemaining: r.TimeRemaining,
			Rack:          r.Rack,
			Play:          r.Play,
			Score:         r.Score,
			OldScore:      r.OldScore,
			Cumulative:    r.Cumulative,
		})
	}
	return out
}
