package game

import (
	"slices"
	"time"

	"github.com/lox/threesixnine/poker"
)

// Spectator is the viewer for a snapshot that shows no private cards.
const Spectator = -1

// SeatState is the public view of one seat.
type SeatState struct {
	Seat     int
	Empty    bool
	ID       string
	Name     string
	Bot      bool
	Chips    int
	Bet      int
	TotalBet int
	Folded   bool
	AllIn    bool
	InHand   bool

	Dealer     bool
	SmallBlind bool
	BigBlind   bool

	// Cards holds the hole cards only when the viewer may see them.
	Cards []poker.Card
	// HasCards reports whether the seat holds hole cards, visible or not.
	HasCards bool
}

// State is an immutable snapshot of a table as seen by one viewer.
type State struct {
	TableID       string
	Name          string
	Viewer        int
	Phase         Phase
	HandNumber    int
	HandID        string
	Pot           int
	CurrentBet    int
	MinRaise      int
	SmallBlind    int
	BigBlind      int
	Board         []poker.Card
	Seats         []SeatState
	CurrentPlayer int
	Dealer        int
	// TimeRemaining is the current actor's decision budget left, zero when
	// there is no deadline.
	TimeRemaining time.Duration
}

// State returns a snapshot for viewer. Hole cards are included for the
// viewer's own seat and for hands revealed at showdown; use Spectator to
// exclude all of them.
func (t *Table) State(viewer int) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := State{
		TableID:       t.id,
		Name:          t.cfg.Name,
		Viewer:        viewer,
		Phase:         t.phase,
		HandNumber:    t.handNumber,
		HandID:        t.handID,
		Pot:           t.pot,
		CurrentBet:    t.currentBet,
		MinRaise:      t.minRaise,
		SmallBlind:    t.cfg.SmallBlind,
		BigBlind:      t.cfg.BigBlind,
		Board:         slices.Clone(t.board),
		Seats:         make([]SeatState, len(t.seats)),
		CurrentPlayer: t.actor,
		Dealer:        t.dealer,
	}
	if !t.deadline.IsZero() {
		s.TimeRemaining = max(0, t.deadline.Sub(t.clock.Now()))
	}

	for i, p := range t.seats {
		if p == nil {
			s.Seats[i] = SeatState{Seat: i, Empty: true}
			continue
		}
		ss := SeatState{
			Seat:       i,
			ID:         p.ID,
			Name:       p.Name,
			Bot:        p.Bot,
			Chips:      p.Chips,
			Bet:        p.Bet,
			TotalBet:   p.TotalBet,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			InHand:     p.inHand,
			Dealer:     p.Dealer,
			SmallBlind: p.SmallBlind,
			BigBlind:   p.BigBlind,
			HasCards:   len(p.Cards) > 0,
		}
		if viewer == i || t.revealed[i] {
			ss.Cards = slices.Clone(p.Cards)
		}
		s.Seats[i] = ss
	}
	return s
}

// Actor returns the seat state of the current actor.
func (s State) Actor() (SeatState, bool) {
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Seats) {
		return SeatState{}, false
	}
	return s.Seats[s.CurrentPlayer], true
}

// ToCall returns the chips seat owes to match the current bet.
func (s State) ToCall(seat int) int {
	if seat < 0 || seat >= len(s.Seats) {
		return 0
	}
	ss := s.Seats[seat]
	return max(0, min(s.CurrentBet-ss.Bet, ss.Chips))
}
