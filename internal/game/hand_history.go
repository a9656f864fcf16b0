package game

import (
	"slices"
	"time"

	"github.com/lox/threesixnine/poker"
)

// ActionRecord is one accepted action in a hand.
type ActionRecord struct {
	Seat   int
	Phase  Phase
	Action Action
	// Amount is the chips the action moved into the pot.
	Amount int
	// BetTo is the player's round contribution after the action.
	BetTo   int
	Timeout bool
}

// PlayerResult is a participant's outcome in a completed hand.
type PlayerResult struct {
	Seat          int
	ID            string
	Name          string
	Cards         []poker.Card
	StartingChips int
	FinalChips    int
	Contributed   int
	Won           int
	Folded        bool
	Revealed      bool
	HandRank      poker.HandRank
}

// HandSummary is appended to the table history after every completed hand.
type HandSummary struct {
	HandNumber  int
	HandID      string
	TableID     string
	Button      int
	SmallBlind  int
	BigBlind    int
	PotAwarded  int
	WinnerSeats []int
	Board       []poker.Card
	// Awards maps seat to chips won.
	Awards   map[int]int
	Revealed []int
	Players  []PlayerResult
	Actions  []ActionRecord
	Showdown bool
	// CompletedAt is the table clock time the pot was awarded.
	CompletedAt time.Time
}

// Winners returns the results of the seats that won chips.
func (s HandSummary) Winners() []PlayerResult {
	var out []PlayerResult
	for _, p := range s.Players {
		if p.Won > 0 {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) record(p *Player, action Action, amount int, timeout bool) {
	t.actions = append(t.actions, ActionRecord{
		Seat:    p.handSeat,
		Phase:   t.phase,
		Action:  action,
		Amount:  amount,
		BetTo:   p.Bet,
		Timeout: timeout,
	})
}

// completeHand appends the summary for the hand that just ended.
func (t *Table) completeHand(awarded int, awards map[int]int, ranks map[int]poker.HandRank) {
	s := HandSummary{
		HandNumber: t.handNumber,
		HandID:     t.handID,
		TableID:    t.id,
		Button:     t.dealer,
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		PotAwarded: awarded,
		Board:      slices.Clone(t.board),
		Awards:     awards,
		Actions:    slices.Clone(t.actions),
		Showdown:   ranks != nil,

		CompletedAt: t.clock.Now(),
	}
	for seat, won := range awards {
		if won > 0 {
			s.WinnerSeats = append(s.WinnerSeats, seat)
		}
	}
	slices.Sort(s.WinnerSeats)

	for _, p := range t.participants {
		rank, shown := ranks[p.handSeat]
		if shown {
			s.Revealed = append(s.Revealed, p.handSeat)
		}
		s.Players = append(s.Players, PlayerResult{
			Seat:          p.handSeat,
			ID:            p.ID,
			Name:          p.Name,
			Cards:         slices.Clone(p.Cards),
			StartingChips: p.startingChips,
			FinalChips:    p.Chips,
			Contributed:   p.TotalBet,
			Won:           awards[p.handSeat],
			Folded:        p.Folded,
			Revealed:      shown,
			HandRank:      rank,
		})
	}
	slices.Sort(s.Revealed)

	t.history = append(t.history, s)
	t.completed = append(t.completed, s)
}
