// Package endgame renders the chat line announcing a finished game.
package endgame

import (
	"fmt"
	"slices"
	"strings"

	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

// Message describes how the game ended, who won, the final scores and any
// rating changes.
func Message(evt *wire.GameEndedEvent) string {
	if evt == nil {
		return ""
	}
	parts := []string{reason(evt)}

	switch {
	case evt.Tie:
		parts = append(parts, "The game ended in a tie.")
	case evt.Winner != "":
		parts = append(parts, evt.Winner+" wins.")
	}

	if len(evt.Scores) > 0 {
		parts = append(parts, "Final scores: "+joinScores(evt.Scores, true)+".")
	}
	if len(evt.NewRatings) > 0 {
		parts = append(parts, "New ratings: "+joinScores(evt.NewRatings, false)+".")
	}
	return strings.Join(parts, " ")
}

func reason(evt *wire.GameEndedEvent) string {
	switch evt.EndReason {
	case wire.EndReasonTime:
		return evt.Loser + " ran out of time."
	case wire.EndReasonResigned:
		return evt.Loser + " resigned."
	case wire.EndReasonConsecutiveZeroes:
		return "Game ended after six consecutive scoreless turns."
	case wire.EndReasonAborted:
		return "Game was aborted."
	case wire.EndReasonCancelled:
		return "Game was cancelled."
	case wire.EndReasonTripleChallenge:
		return evt.Loser + " lost a triple challenge."
	default:
		return "Game is over."
	}
}

// joinScores lists "name value" pairs. byValue orders by value descending,
// otherwise by name; ties always break on name.
func joinScores(m map[string]int32, byValue bool) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if byValue && m[a] != m[b] {
			return int(m[b]) - int(m[a])
		}
		return strings.Compare(a, b)
	})

	out := make([]string, len(names))
	for i, name := range names {
		out[i] = fmt.Sprintf("%s %d", name, m[name])
	}
	return strings.Join(out, ", ")
}
