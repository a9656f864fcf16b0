package game

import (
	"fmt"
	"slices"

	"github.com/lox/threesixnine/poker"
)

// SidePot is one layer of the pot and the seats that may win it.
type SidePot struct {
	Amount   int
	Eligible []int
}

// buildPots layers contributions by the distinct stack depths of the players
// still contesting the hand. Folded chips are dead money in whichever layers
// they reach. Chips above the deepest live contribution join the last layer.
func buildPots(participants []*Player) []SidePot {
	var levels []int
	for _, p := range participants {
		if p.Live() && p.TotalBet > 0 && !slices.Contains(levels, p.TotalBet) {
			levels = append(levels, p.TotalBet)
		}
	}
	slices.Sort(levels)

	var pots []SidePot
	prev := 0
	for _, level := range levels {
		var pot SidePot
		for _, p := range participants {
			pot.Amount += min(p.TotalBet, level) - min(p.TotalBet, prev)
			if p.Live() && p.TotalBet >= level {
				pot.Eligible = append(pot.Eligible, p.handSeat)
			}
		}
		pots = append(pots, pot)
		prev = level
	}

	var leftover int
	for _, p := range participants {
		leftover += max(0, p.TotalBet-prev)
	}
	if leftover > 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += leftover
	}
	return pots
}

// splitPot divides amount between winners, which must be in clockwise order
// from the dealer's left. Odd chips go one at a time from the first winner.
func splitPot(amount int, winners []int) map[int]int {
	shares := make(map[int]int, len(winners))
	if len(winners) == 0 {
		return shares
	}
	each, rem := amount/len(winners), amount%len(winners)
	for i, seat := range winners {
		shares[seat] = each
		if i < rem {
			shares[seat]++
		}
	}
	return shares
}

// finishUncontested awards the whole pot to the last live player without a
// showdown.
func (t *Table) finishUncontested() error {
	t.cancelDecision()
	t.actor = -1
	var winner *Player
	for _, p := range t.participants {
		if p.Live() {
			winner = p
			break
		}
	}
	if winner == nil {
		return t.abortHand(fmt.Errorf("no live player left"))
	}

	awarded := t.pot
	winner.Chips += awarded
	t.pot = 0
	t.phase = Showdown
	t.logger.Info("hand won uncontested", "hand", t.handNumber, "seat", winner.handSeat, "pot", awarded)
	t.completeHand(awarded, map[int]int{winner.handSeat: awarded}, nil)
	return nil
}

// showdown evaluates every live hand and pays each side pot to its best
// eligible hands.
func (t *Table) showdown() error {
	t.cancelDecision()
	t.actor = -1
	t.phase = Showdown

	ranks := make(map[int]poker.HandRank)
	for _, p := range t.participants {
		if !p.Live() {
			continue
		}
		rank, err := poker.EvaluateCards(p.Cards, t.board)
		if err != nil {
			return t.abortHand(fmt.Errorf("evaluating seat %d: %w", p.handSeat, err))
		}
		ranks[p.handSeat] = rank
		t.revealed[p.handSeat] = true
	}

	awards := make(map[int]int)
	awarded := 0
	for _, pot := range buildPots(t.participants) {
		var best poker.HandRank
		var winners []int
		for _, seat := range pot.Eligible {
			switch rank := ranks[seat]; {
			case len(winners) == 0 || rank > best:
				best, winners = rank, []int{seat}
			case rank == best:
				winners = append(winners, seat)
			}
		}
		for seat, share := range splitPot(pot.Amount, winners) {
			awards[seat] += share
		}
		awarded += pot.Amount
	}

	for _, p := range t.participants {
		p.Chips += awards[p.handSeat]
	}
	t.pot -= awarded
	if t.pot != 0 {
		t.logger.Error("pot not fully awarded", "hand", t.handNumber, "remaining", t.pot)
	}

	t.logger.Info("showdown",
		"hand", t.handNumber,
		"board", poker.FormatCards(t.board),
		"pot", awarded,
		"awards", awards)
	t.completeHand(awarded, awards, ranks)
	return nil
}
