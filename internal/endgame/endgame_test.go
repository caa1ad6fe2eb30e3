package endgame

import (
	"testing"

	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

func TestMessage(t *testing.T) {
	cases := []struct {
		name string
		evt  *wire.GameEndedEvent
		want string
	}{
		{
			name: "standard win",
			evt: &wire.GameEndedEvent{
				EndReason: wire.EndReasonStandard,
				Winner:    "mina",
				Loser:     "josh",
				Scores:    map[string]int32{"josh": 377, "mina": 402},
			},
			want: "Game is over. mina wins. Final scores: mina 402, josh 377.",
		},
		{
			name: "time loss with ratings",
			evt: &wire.GameEndedEvent{
				EndReason:  wire.EndReasonTime,
				Winner:     "josh",
				Loser:      "mina",
				Scores:     map[string]int32{"josh": 300, "mina": 350},
				NewRatings: map[string]int32{"mina": 1490, "josh": 1510},
			},
			want: "mina ran out of time. josh wins. Final scores: mina 350, josh 300. New ratings: josh 1510, mina 1490.",
		},
		{
			name: "tie orders equal scores by name",
			evt: &wire.GameEndedEvent{
				EndReason: wire.EndReasonStandard,
				Tie:       true,
				Scores:    map[string]int32{"zed": 400, "amy": 400},
			},
			want: "Game is over. The game ended in a tie. Final scores: amy 400, zed 400.",
		},
		{
			name: "resignation",
			evt:  &wire.GameEndedEvent{EndReason: wire.EndReasonResigned, Winner: "mina", Loser: "josh"},
			want: "josh resigned. mina wins.",
		},
		{
			name: "aborted",
			evt:  &wire.GameEndedEvent{EndReason: wire.EndReasonAborted},
			want: "Game was aborted.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Message(tc.evt); got != tc.want {
				t.Fatalf("Message:\n got %q\nwant %q", got, tc.want)
			}
		})
	}
}

func TestMessage_Nil(t *testing.T) {
	if got := Message(nil); got != "" {
		t.Fatalf("want empty message for nil event, got %q", got)
	}
}
