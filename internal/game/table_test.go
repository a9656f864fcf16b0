package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableValidatesConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"too few seats", Config{MaxSeats: 1, SmallBlind: 1, BigBlind: 2}},
		{"too many seats", Config{MaxSeats: 10, SmallBlind: 1, BigBlind: 2}},
		{"zero small blind", Config{MaxSeats: 6, SmallBlind: 0, BigBlind: 2}},
		{"big below small", Config{MaxSeats: 6, SmallBlind: 5, BigBlind: 2}},
		{"negative timeout", Config{MaxSeats: 6, SmallBlind: 1, BigBlind: 2, ActionTimeout: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTable(tt.cfg)
			require.Error(t, err)
		})
	}

	table, err := NewTable(DefaultConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, table.ID())
	assert.Equal(t, DefaultActionTimeout, table.Config().ActionTimeout)
}

func TestAddPlayer(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, nil)

	seat, err := table.AddPlayer(NewPlayer("a", "A", 100), AnySeat)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)

	seat, err = table.AddPlayer(NewPlayer("b", "B", 100), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, seat)

	seat, err = table.AddPlayer(NewPlayer("c", "C", 100), AnySeat)
	require.NoError(t, err)
	assert.Equal(t, 1, seat, "lowest empty seat")

	_, err = table.AddPlayer(NewPlayer("d", "D", 100), 3)
	require.ErrorIs(t, err, ErrInvalidSeat, "occupied")

	_, err = table.AddPlayer(NewPlayer("d", "D", 100), 6)
	require.ErrorIs(t, err, ErrInvalidSeat, "out of range")

	_, err = table.AddPlayer(NewPlayer("d", "D", 100), -2)
	require.ErrorIs(t, err, ErrInvalidSeat, "negative seat")

	_, err = table.AddPlayer(NewPlayer("a", "A again", 100), AnySeat)
	require.ErrorIs(t, err, ErrInvalidSeat, "duplicate ID")

	_, err = table.AddPlayer(NewPlayer("", "nobody", 100), AnySeat)
	require.ErrorIs(t, err, ErrInvalidSeat)

	for _, id := range []string{"d", "e", "f"} {
		_, err = table.AddPlayer(NewPlayer(id, id, 100), AnySeat)
		require.NoError(t, err)
	}
	_, err = table.AddPlayer(NewPlayer("g", "G", 100), AnySeat)
	require.ErrorIs(t, err, ErrInvalidSeat, "full table")
	assert.Equal(t, 6, table.SeatedCount())
}

func TestRemovePlayerBetweenHands(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 100, 100})

	require.NoError(t, table.RemovePlayer("b"))
	assert.Nil(t, table.Seat(1))
	_, ok := table.SeatOf("b")
	assert.False(t, ok)
	assert.True(t, table.State(Spectator).Seats[1].Empty)

	require.ErrorIs(t, table.RemovePlayer("b"), ErrInvalidSeat)
	require.ErrorIs(t, table.RemovePlayer("zzz"), ErrInvalidSeat)
}

func TestStartNewHandRequiresTwoPlayers(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100})
	require.ErrorIs(t, table.StartNewHand(), ErrInsufficientPlayers)
	assert.False(t, table.Ready())

	// A seated player without chips cannot be dealt in.
	_, err := table.AddPlayer(NewPlayer("broke", "Broke", 0), AnySeat)
	require.NoError(t, err)
	require.ErrorIs(t, table.StartNewHand(), ErrInsufficientPlayers)
	assert.Equal(t, Waiting, table.Phase())
	assert.Zero(t, table.HandNumber())
}

func TestStartNewHandWhileRunning(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 100})
	require.NoError(t, table.StartNewHand())
	assert.False(t, table.Ready())
	require.ErrorIs(t, table.StartNewHand(), ErrIllegalAction)
	assert.Equal(t, 1, table.HandNumber())
}

func TestHeadsUpBlindsAndFlop(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 100})
	require.NoError(t, table.StartNewHand())

	s := table.State(Spectator)
	assert.Equal(t, Preflop, s.Phase)
	assert.Equal(t, 0, s.Dealer)
	assert.True(t, s.Seats[0].Dealer)
	assert.True(t, s.Seats[0].SmallBlind, "heads-up dealer posts the small blind")
	assert.True(t, s.Seats[1].BigBlind)
	assert.Equal(t, 99, s.Seats[0].Chips)
	assert.Equal(t, 98, s.Seats[1].Chips)
	assert.Equal(t, 3, s.Pot)
	assert.Equal(t, 2, s.CurrentBet)
	assert.Equal(t, 2, s.MinRaise)
	assert.Equal(t, 0, s.CurrentPlayer, "dealer acts first preflop heads-up")
	requirePotInvariant(t, table, 200)

	require.NoError(t, table.Act(0, Call, 0))

	s = table.State(Spectator)
	assert.Equal(t, 98, s.Seats[0].Chips)
	assert.Equal(t, 4, s.Pot)
	assert.Equal(t, Flop, s.Phase)
	assert.Len(t, s.Board, 3)
	assert.Zero(t, s.CurrentBet)
	assert.Zero(t, s.Seats[0].Bet)
	assert.Equal(t, 2, s.Seats[0].TotalBet)
	assert.Equal(t, 1, s.CurrentPlayer, "big blind acts first after the flop")
	requirePotInvariant(t, table, 200)
}

func TestDeckAccounting(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 100, 100})
	require.NoError(t, table.StartNewHand())

	remaining := func() int {
		table.mu.Lock()
		defer table.mu.Unlock()
		return table.deck.Remaining()
	}
	assert.Equal(t, 52-2*3, remaining())
	for _, seat := range table.State(Spectator).Seats[:3] {
		assert.True(t, seat.HasCards)
	}

	act(t, table, Call, 0)
	act(t, table, Call, 0)
	assert.Equal(t, Flop, table.Phase())
	assert.Equal(t, 46-4, remaining())
	assert.Len(t, table.State(Spectator).Board, 3)

	for range 3 {
		act(t, table, Check, 0)
	}
	assert.Equal(t, Turn, table.Phase())
	assert.Equal(t, 42-2, remaining())
	assert.Len(t, table.State(Spectator).Board, 4)

	for range 3 {
		act(t, table, Check, 0)
	}
	assert.Equal(t, River, table.Phase())
	assert.Equal(t, 40-2, remaining())
	assert.Len(t, table.State(Spectator).Board, 5)
}

func TestButtonRotation(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 100, 100})

	for _, want := range []int{0, 1, 2, 0} {
		require.NoError(t, table.StartNewHand())
		s := table.State(Spectator)
		assert.Equal(t, want, s.Dealer)
		sb, bb := (want+1)%3, (want+2)%3
		assert.True(t, s.Seats[sb].SmallBlind)
		assert.True(t, s.Seats[bb].BigBlind)
		assert.Equal(t, want, s.CurrentPlayer, "first to act preflop sits left of the big blind")

		act(t, table, Fold, 0)
		act(t, table, Fold, 0)
		assert.True(t, table.Ready())
	}
}

func TestButtonSkipsEmptyStacks(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 0, 100, 100})

	require.NoError(t, table.StartNewHand())
	s := table.State(Spectator)
	assert.Equal(t, 0, s.Dealer)
	assert.False(t, s.Seats[1].InHand)
	assert.False(t, s.Seats[1].HasCards)
	assert.True(t, s.Seats[2].SmallBlind)
	assert.True(t, s.Seats[3].BigBlind)

	act(t, table, Fold, 0)
	act(t, table, Fold, 0)
	require.NoError(t, table.StartNewHand())
	assert.Equal(t, 2, table.State(Spectator).Dealer)
}

func TestStateRedaction(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 100, 100})
	require.NoError(t, table.StartNewHand())

	for viewer := range 3 {
		s := table.State(viewer)
		assert.Equal(t, viewer, s.Viewer)
		for seat, ss := range s.Seats[:3] {
			if seat == viewer {
				assert.Len(t, ss.Cards, 2, "viewer sees own cards")
			} else {
				assert.Empty(t, ss.Cards, "viewer %d must not see seat %d", viewer, seat)
			}
			assert.True(t, ss.HasCards)
		}
	}
	for _, ss := range table.State(Spectator).Seats {
		assert.Empty(t, ss.Cards)
	}

	// Mutating a snapshot leaves the table untouched.
	s := table.State(0)
	s.Seats[0].Cards[0] = s.Seats[0].Cards[1]
	assert.NotEqual(t, table.State(0).Seats[0].Cards[0], table.State(0).Seats[0].Cards[1])
}

func TestStateRevealsShowdownHands(t *testing.T) {
	t.Parallel()
	table := newTestTable(t, []int{100, 100, 100},
		stackedDeck(t, []string{"2c 3d", "2h 4s", "7c 8d"}, "Ts Jd Qh Kc As"))
	require.NoError(t, table.StartNewHand())

	act(t, table, Fold, 0) // seat 0
	act(t, table, Call, 0) // seat 1
	for range 3 {
		act(t, table, Check, 0)
		act(t, table, Check, 0)
	}
	require.Equal(t, Showdown, table.Phase())

	s := table.State(Spectator)
	assert.Len(t, s.Seats[1].Cards, 2)
	assert.Len(t, s.Seats[2].Cards, 2)
	assert.Empty(t, s.Seats[0].Cards, "folded hand stays hidden")

	s = table.State(0)
	assert.Len(t, s.Seats[0].Cards, 2)
}

func TestHandCompleteHookRunsOutsideLock(t *testing.T) {
	t.Parallel()
	var summaries []HandSummary
	var table *Table
	table = newTestTable(t, []int{100, 100}, WithHandCompleteHook(func(s HandSummary) {
		summaries = append(summaries, s)
		// Calling back into the table would deadlock if the lock were held.
		assert.True(t, table.Ready())
	}))

	require.NoError(t, table.StartNewHand())
	act(t, table, Fold, 0)

	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].HandNumber)
	assert.Equal(t, "test-table", summaries[0].TableID)
	assert.Equal(t, []int{1}, summaries[0].WinnerSeats)
	assert.Len(t, table.History(), 1)
}
