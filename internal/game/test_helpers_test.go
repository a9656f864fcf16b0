package game

import (
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/threesixnine/poker"
)

// newTestTable seats one player per stack in seats 0..n-1 with blinds 1/2 and
// no decision deadline unless opts say otherwise.
func newTestTable(t *testing.T, stacks []int, opts ...Option) *Table {
	t.Helper()
	cfg := Config{Name: "test", MaxSeats: 6, SmallBlind: 1, BigBlind: 2}
	base := []Option{
		WithSeed(42),
		WithLogger(log.New(io.Discard)),
		WithClock(quartz.NewMock(t)),
		WithID("test-table"),
	}
	table, err := NewTable(cfg, append(base, opts...)...)
	require.NoError(t, err)
	for i, chips := range stacks {
		seat, err := table.AddPlayer(NewPlayer(playerID(i), strings.ToUpper(playerID(i)), chips), i)
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
	return table
}

func playerID(i int) string {
	return string(rune('a' + i))
}

// stackedDeck returns a deck factory dealing holes round-robin in the given
// order (clockwise from the dealer's left), then the board with burn cards in
// front of each street.
func stackedDeck(t *testing.T, holes []string, board string) Option {
	t.Helper()
	var used poker.Hand
	hands := make([][]poker.Card, len(holes))
	for i, h := range holes {
		hands[i] = poker.MustParseCards(h)
		require.Len(t, hands[i], 2)
		for _, c := range hands[i] {
			used.AddCard(c)
		}
	}
	boardCards := poker.MustParseCards(board)
	for _, c := range boardCards {
		used.AddCard(c)
	}

	var burns []poker.Card
	for suit := poker.Clubs; suit <= poker.Spades && len(burns) < 3; suit++ {
		for rank := poker.Two; rank <= poker.Ace && len(burns) < 3; rank++ {
			c := poker.NewCard(rank, suit)
			if !used.HasCard(c) {
				used.AddCard(c)
				burns = append(burns, c)
			}
		}
	}

	var top []poker.Card
	for round := 0; round < 2; round++ {
		for _, h := range hands {
			top = append(top, h[round])
		}
	}
	streets := [][]poker.Card{boardCards[:min(3, len(boardCards))]}
	if len(boardCards) > 3 {
		streets = append(streets, boardCards[3:4])
	}
	if len(boardCards) > 4 {
		streets = append(streets, boardCards[4:5])
	}
	for i, street := range streets {
		top = append(top, burns[i])
		top = append(top, street...)
	}

	return WithDeckFactory(func(*rand.Rand) (*poker.Deck, error) {
		return poker.NewStackedDeck(top...)
	})
}

// requirePotInvariant checks that the pot equals every participant's
// contribution and that no chips were created or lost.
func requirePotInvariant(t *testing.T, table *Table, total int) {
	t.Helper()
	table.mu.Lock()
	defer table.mu.Unlock()

	contributed := 0
	for _, p := range table.participants {
		contributed += p.TotalBet
	}
	if table.phase.Betting() {
		require.Equal(t, contributed, table.pot, "pot must equal contributions")
	}

	chips := table.pot
	for _, p := range table.seats {
		if p != nil {
			chips += p.Chips
		}
	}
	require.Equal(t, total, chips, "chips must be conserved")
}

func act(t *testing.T, table *Table, action Action, amount int) {
	t.Helper()
	seat := table.State(Spectator).CurrentPlayer
	require.GreaterOrEqual(t, seat, 0, "no player to act")
	require.NoError(t, table.Act(seat, action, amount), "seat %d %s %d", seat, action, amount)
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
