package phh

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/poker"
)

func cards(s string) []poker.Card { return poker.MustParseCards(s) }

// threeWaySummary is a hand where the button raises, the small blind folds
// and the big blind moves in on the flop and loses at showdown.
func threeWaySummary() game.HandSummary {
	return game.HandSummary{
		HandNumber: 7,
		HandID:     "hand-7",
		TableID:    "lab",
		Button:     2,
		SmallBlind: 1,
		BigBlind:   2,
		PotAwarded: 53,
		Board:      cards("Th 9h 3c 6d 9c"),
		Awards:     map[int]int{2: 53},
		Revealed:   []int{1, 2},
		Players: []game.PlayerResult{
			{Seat: 0, Name: "Tesla", Cards: cards("As Kd"), StartingChips: 100, FinalChips: 99, Contributed: 1, Folded: true},
			{Seat: 1, Name: "Edison", Cards: cards("Qc Qd"), StartingChips: 26, FinalChips: 0, Contributed: 26, Revealed: true},
			{Seat: 2, Name: "Marconi", Cards: cards("3s 3d"), StartingChips: 200, FinalChips: 227, Contributed: 26, Won: 53, Revealed: true},
		},
		Actions: []game.ActionRecord{
			{Seat: 2, Phase: game.Preflop, Action: game.Raise, Amount: 6, BetTo: 6},
			{Seat: 0, Phase: game.Preflop, Action: game.Fold},
			{Seat: 1, Phase: game.Preflop, Action: game.Call, Amount: 4, BetTo: 6},
			{Seat: 1, Phase: game.Flop, Action: game.Check},
			{Seat: 2, Phase: game.Flop, Action: game.Raise, Amount: 6, BetTo: 6},
			{Seat: 1, Phase: game.Flop, Action: game.AllIn, Amount: 20, BetTo: 20},
			{Seat: 2, Phase: game.Flop, Action: game.Call, Amount: 14, BetTo: 20},
		},
		Showdown:    true,
		CompletedAt: time.Date(2026, time.July, 10, 13, 6, 9, 0, time.FixedZone("EST", -5*3600)),
	}
}

func TestFromSummary(t *testing.T) {
	t.Parallel()
	cfg := game.Config{Name: "Tesla's Laboratory", MaxSeats: 9, SmallBlind: 1, BigBlind: 2}
	h := FromSummary(cfg, threeWaySummary())

	assert.Equal(t, NoLimitTexas, h.Variant)
	assert.Equal(t, "Tesla's Laboratory", h.Table)
	assert.Equal(t, 9, h.SeatCount)
	assert.Equal(t, "hand-7", h.HandID)
	assert.Equal(t, []int{1, 2, 3}, h.Seats)
	assert.Equal(t, []int{0, 0, 0}, h.Antes)
	assert.Equal(t, []int{1, 2, 0}, h.BlindsOrStraddles)
	assert.Equal(t, 2, h.MinBet)
	assert.Equal(t, []int{100, 26, 200}, h.StartingStacks)
	assert.Equal(t, []int{99, 0, 227}, h.FinishingStacks)
	assert.Equal(t, []int{0, 0, 53}, h.Winnings)
	assert.Equal(t, []string{"Tesla", "Edison", "Marconi"}, h.Players)
	assert.Equal(t, []string{
		"d dh p1 AsKd",
		"d dh p2 QcQd",
		"d dh p3 3s3d",
		"p3 cbr 6",
		"p1 f",
		"p2 cc",
		"d db Th9h3c",
		"p2 cc",
		"p3 cbr 6",
		"p2 cbr 20",
		"p3 cc",
		"d db 6d",
		"d db 9c",
		"p2 sm QcQd",
		"p3 sm 3s3d",
	}, h.Actions)

	assert.Equal(t, "18:06:09", h.Time)
	assert.Equal(t, "UTC", h.TimeZone)
	assert.Equal(t, 10, h.Day)
	assert.Equal(t, 7, h.Month)
	assert.Equal(t, 2026, h.Year)
}

func TestFromSummaryHeadsUpOrdersFromButton(t *testing.T) {
	t.Parallel()
	s := game.HandSummary{
		HandID:     "hu",
		Button:     4,
		SmallBlind: 5,
		BigBlind:   10,
		PotAwarded: 15,
		Awards:     map[int]int{1: 15},
		Players: []game.PlayerResult{
			{Seat: 1, Name: "bb", Cards: cards("9s 6s"), StartingChips: 1000, FinalChips: 1005, Contributed: 10, Won: 15},
			{Seat: 4, Name: "button", Cards: cards("2c 7d"), StartingChips: 3, FinalChips: 0, Contributed: 3, Folded: true},
		},
		Actions: []game.ActionRecord{
			{Seat: 4, Phase: game.Preflop, Action: game.Fold, Timeout: true},
		},
	}
	h := FromSummary(game.Config{Name: "hu", MaxSeats: 6}, s)

	assert.Equal(t, []string{"button", "bb"}, h.Players)
	assert.Equal(t, []int{5, 2}, h.Seats)
	assert.Equal(t, []int{3, 10}, h.BlindsOrStraddles, "short blind is capped at the stack")
	assert.Equal(t, []string{"d dh p1 2c7d", "d dh p2 9s6s", "p1 f # timeout"}, h.Actions)
	assert.Empty(t, h.Time)
}

func TestFromSummaryShortAllInIsACall(t *testing.T) {
	t.Parallel()
	s := game.HandSummary{
		SmallBlind: 1,
		BigBlind:   2,
		Board:      cards("2c 3c 4c 5d 6d"),
		Players: []game.PlayerResult{
			{Seat: 0, Name: "a", Cards: cards("As Ad"), StartingChips: 50},
			{Seat: 1, Name: "b", Cards: cards("Ks Kd"), StartingChips: 50},
			{Seat: 2, Name: "c", Cards: cards("Qs Qd"), StartingChips: 4},
		},
		Actions: []game.ActionRecord{
			{Seat: 2, Phase: game.Preflop, Action: game.Raise, Amount: 2, BetTo: 8},
			{Seat: 0, Phase: game.Preflop, Action: game.AllIn, Amount: 3, BetTo: 4},
			{Seat: 1, Phase: game.Preflop, Action: game.Call, Amount: 6, BetTo: 8},
			{Seat: 1, Phase: game.River, Action: game.Check},
		},
	}
	h := FromSummary(game.Config{}, s)
	assert.Equal(t, []string{
		"d dh p1 AsAd", "d dh p2 KsKd", "d dh p3 QsQd",
		"p3 cbr 8",
		"p1 cc",
		"p2 cc",
		"d db 2c3c4c",
		"d db 5d",
		"d db 6d",
		"p2 cc",
	}, h.Actions)
}

func TestEncodeAllRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := game.Config{Name: "Wardenclyffe Tower", MaxSeats: 6, SmallBlind: 1, BigBlind: 2}
	first := FromSummary(cfg, threeWaySummary())
	second := FromSummary(cfg, threeWaySummary())
	second.HandID = "hand-8"

	var buf bytes.Buffer
	require.NoError(t, EncodeAll(&buf, []*HandHistory{first, second}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[1]\n"))
	assert.Contains(t, out, "\n[2]\n")
	assert.Contains(t, out, `variant = "NT"`)

	hands, err := DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, hands, 2)
	assert.Equal(t, first, hands[0])
	assert.Equal(t, second, hands[1])
}

func TestDecodeAllOrdersSectionsNumerically(t *testing.T) {
	t.Parallel()
	in := `
[10]
variant = "NT"
hand = "ten"
antes = []
blinds_or_straddles = []
min_bet = 2
starting_stacks = []
actions = []

[9]
variant = "NT"
hand = "nine"
antes = []
blinds_or_straddles = []
min_bet = 2
starting_stacks = []
actions = []
`
	hands, err := DecodeAll(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, hands, 2)
	assert.Equal(t, "nine", hands[0].HandID)
	assert.Equal(t, "ten", hands[1].HandID)

	_, err = DecodeAll(strings.NewReader("[first]\nvariant = \"NT\"\n"))
	assert.Error(t, err)
}

func TestEncodeNil(t *testing.T) {
	t.Parallel()
	assert.Error(t, Encode(&bytes.Buffer{}, nil))
}

func TestWriteAndReadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "hands.phhs")
	h := FromSummary(game.Config{Name: "lab", MaxSeats: 9}, threeWaySummary())
	require.NoError(t, WriteFile(path, []*HandHistory{h}))

	hands, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, hands, 1)
	assert.Equal(t, h, hands[0])

	board, err := hands[0].Board()
	require.NoError(t, err)
	assert.Equal(t, cards("Th 9h 3c 6d 9c"), board)

	shown, err := hands[0].Shown()
	require.NoError(t, err)
	assert.Equal(t, map[int][]poker.Card{2: cards("Qc Qd"), 3: cards("3s 3d")}, shown)
}

func TestFromPlayedHands(t *testing.T) {
	t.Parallel()
	cfg := game.Config{Name: "Colorado Springs", MaxSeats: 9, SmallBlind: 25, BigBlind: 50}
	table, err := game.NewTable(cfg, game.WithSeed(369))
	require.NoError(t, err)
	for i, name := range []string{"tesla", "edison", "westinghouse"} {
		_, err := table.AddPlayer(game.NewPlayer(name, name, 5000), i)
		require.NoError(t, err)
	}

	for hand := 0; hand < 5; hand++ {
		require.NoError(t, table.StartNewHand())
		for table.Phase().Betting() {
			seat := table.State(game.Spectator).CurrentPlayer
			require.NoError(t, table.Act(seat, game.Call, 0))
		}
	}

	var hands []*HandHistory
	for _, s := range table.History() {
		h := FromSummary(table.Config(), s)
		hands = append(hands, h)

		total := 0
		for _, won := range h.Winnings {
			total += won
		}
		assert.Equal(t, s.PotAwarded, total)
		assert.Equal(t, []int{25, 50, 0}, h.BlindsOrStraddles)

		board, err := h.Board()
		require.NoError(t, err)
		assert.Equal(t, s.Board, board)
		assert.Equal(t, "d dh p1 "+FormatCards(s.Players[0].Cards), h.Actions[0])
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeAll(&buf, hands))
	decoded, err := DecodeAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, hands, decoded)
}
