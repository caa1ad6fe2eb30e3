// Package scorecard folds a game's event history into one row per turn.
package scorecard

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

type Turn struct {
	Avatar        string
	Nickname      string
	Coords        string
	TimeRemaining string
	Rack          string
	Play          string
	Score         string
	OldScore      int32
	Cumulative    int32
}

var upper = cases.Upper(language.Und)

// Build summarizes every non-empty turn, in order.
func Build(turns []*wire.GameTurn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if row, ok := Summarize(t); ok {
			out = append(out, row)
		}
	}
	return out
}

// Summarize reports false for a turn with no events.
func Summarize(t *wire.GameTurn) (Turn, bool) {
	if t == nil || len(t.Events) == 0 {
		return Turn{}, false
	}
	evts := t.Events
	first := evts[0]

	turn := Turn{
		Avatar:        avatar(first.Nickname),
		Nickname:      first.Nickname,
		Coords:        first.Position,
		TimeRemaining: MillisToTimeStr(first.MillisRemaining),
		Rack:          first.Rack,
		Play:          summary(first),
		Score:         strconv.Itoa(int(first.Score)),
		Cumulative:    first.Cumulative,
		OldScore:      first.Cumulative - first.Score,
	}
	if len(evts) == 1 {
		return turn, true
	}

	if evts[1].Type == wire.EventPhonyTilesReturned {
		turn.Score = "0"
		turn.Cumulative = evts[1].Cumulative
		turn.Play = "(" + turn.Play + ")"
		return turn, true
	}

	for _, evt := range evts[1:] {
		switch evt.Type {
		case wire.EventChallengeBonus:
			turn.Score = fmt.Sprintf("%s+%d", turn.Score, evt.Bonus)
		case wire.EventEndRackPenalty, wire.EventTimePenalty:
			turn.Score = fmt.Sprintf("%s-%d", turn.Score, evt.LostScore)
		case wire.EventEndRackPoints:
			turn.Score = fmt.Sprintf("%s+%d", turn.Score, evt.EndRackPoints)
		}
		turn.Cumulative = evt.Cumulative
	}
	return turn, true
}

func summary(evt *wire.GameEvent) string {
	switch evt.Type {
	case wire.EventExchange:
		return "Exch. " + evt.Exchanged
	case wire.EventPass:
		return "Passed."
	case wire.EventTilePlacementMove:
		return evt.PlayedTiles
	case wire.EventUnsuccessfulChallengeTurnLoss:
		return "Challenged!"
	}
	return ""
}

func avatar(nickname string) string {
	r, size := utf8.DecodeRuneInString(nickname)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return upper.String(string(r))
}

// MillisToTimeStr renders a clock as MM:SS. Positive times round up to the
// next second and negative (overtime) times are prefixed with "-".
func MillisToTimeStr(ms int32) string {
	neg := ms < 0
	abs := int64(ms)
	if neg {
		abs = -abs
	}
	secs := abs / 1000
	if !neg && abs%1000 != 0 {
		secs++
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%02d:%02d", sign, secs/60, secs%60)
}

// Render writes the scorecard as an aligned text table.
func Render(w io.Writer, turns []Turn) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Turn %d\n", len(turns)+1)
	for _, t := range turns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d+%s\t%d\n",
			t.Avatar, t.Coords, t.TimeRemaining, t.Play, t.Rack, t.OldScore, t.Score, t.Cumulative)
	}
	return tw.Flush()
}
