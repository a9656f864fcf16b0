package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lox/threesixnine/poker"
)

// StartNewHand moves the button, posts blinds, deals hole cards and opens the
// first decision.
func (t *Table) StartNewHand() error {
	t.mu.Lock()
	err := t.startHandLocked()
	done := t.takeCompleted()
	t.mu.Unlock()
	t.notify(done)
	return err
}

func (t *Table) startHandLocked() error {
	if t.phase.Betting() {
		return fmt.Errorf("%w: hand %d is still in progress", ErrIllegalAction, t.handNumber)
	}
	if n := t.eligibleCount(); n < 2 {
		return fmt.Errorf("%w: need 2 players with chips, have %d", ErrInsufficientPlayers, n)
	}

	t.dealer = t.nextSeat(t.dealer, hasChips)
	t.handNumber++
	t.handID = uuid.NewString()
	t.board = nil
	t.pot = 0
	t.actions = nil
	t.revealed = make(map[int]bool)
	t.actor = -1

	t.participants = t.participants[:0]
	for _, p := range t.seats {
		if p != nil {
			p.resetForHand()
		}
	}
	for seat := t.nextSeat(t.dealer, hasChips); ; seat = t.nextSeat(seat, hasChips) {
		p := t.seats[seat]
		p.inHand = true
		t.participants = append(t.participants, p)
		if seat == t.dealer {
			break
		}
	}

	t.seats[t.dealer].Dealer = true
	var sb, bb *Player
	if len(t.participants) == 2 {
		sb, bb = t.seats[t.dealer], t.participants[0]
	} else {
		sb, bb = t.participants[0], t.participants[1]
	}
	sb.SmallBlind = true
	bb.BigBlind = true
	t.sbSeat, t.bbSeat = sb.Seat, bb.Seat

	deck, err := t.newDeck(t.rng)
	if err != nil {
		return t.abortHand(err)
	}
	t.deck = deck
	for round := 0; round < 2; round++ {
		for _, p := range t.participants {
			card, err := t.deck.DealOne()
			if err != nil {
				return t.abortHand(err)
			}
			p.Cards = append(p.Cards, card)
		}
	}

	t.phase = Preflop
	t.postBlind(sb, t.cfg.SmallBlind)
	t.postBlind(bb, t.cfg.BigBlind)
	t.currentBet = t.cfg.BigBlind
	t.minRaise = t.cfg.BigBlind

	t.logger.Info("hand started",
		"hand", t.handNumber,
		"players", len(t.participants),
		"button", t.dealer,
		"sb", t.sbSeat,
		"bb", t.bbSeat)

	return t.openRound(t.bbSeat)
}

// postBlind commits a forced bet capped at the stack. Posting counts as the
// player's action for round completion.
func (t *Table) postBlind(p *Player, amount int) {
	t.commit(p, min(amount, p.Chips))
	p.acted = true
}

func (t *Table) commit(p *Player, amount int) {
	p.commit(amount)
	t.pot += amount
}

// openRound hands the action to the first player able to act clockwise from
// seat, or closes the round straight away when nobody needs to.
func (t *Table) openRound(from int) error {
	if t.roundComplete() {
		return t.closeRound()
	}
	t.actor = t.nextSeat(from, (*Player).CanAct)
	t.openDecision()
	return nil
}

// roundComplete reports whether every player who can still act has acted and
// matched the current bet.
func (t *Table) roundComplete() bool {
	var active []*Player
	for _, p := range t.participants {
		if p.CanAct() {
			active = append(active, p)
		}
	}
	if len(active) <= 1 {
		return len(active) == 0 || active[0].Bet >= t.currentBet
	}
	for _, p := range active {
		if !p.acted || p.Bet != t.currentBet {
			return false
		}
	}
	return true
}

// advance moves the action on after an accepted action.
func (t *Table) advance() error {
	if t.liveCount() == 1 {
		return t.finishUncontested()
	}
	if t.roundComplete() {
		return t.closeRound()
	}
	t.actor = t.nextSeat(t.actor, (*Player).CanAct)
	t.openDecision()
	return nil
}

// closeRound resets round bets and deals the next street, or goes to showdown
// after the river.
func (t *Table) closeRound() error {
	t.cancelDecision()
	t.actor = -1
	for _, p := range t.participants {
		p.Bet = 0
		p.acted = false
	}
	t.currentBet = 0
	t.minRaise = t.cfg.BigBlind

	var cards int
	switch t.phase {
	case Preflop:
		cards = 3
	case Flop, Turn:
		cards = 1
	case River:
		return t.showdown()
	default:
		return t.abortHand(fmt.Errorf("closing round in phase %s", t.phase))
	}

	if err := t.deck.Burn(); err != nil {
		return t.abortHand(err)
	}
	dealt, err := t.deck.Deal(cards)
	if err != nil {
		return t.abortHand(err)
	}
	t.board = append(t.board, dealt...)
	t.phase++
	t.logger.Debug("street dealt", "hand", t.handNumber, "phase", t.phase, "board", poker.FormatCards(t.board))

	return t.openRound(t.dealer)
}

// abortHand refunds every contribution and returns the table to waiting.
func (t *Table) abortHand(cause error) error {
	t.cancelDecision()
	t.logger.Error("aborting hand", "hand", t.handNumber, "phase", t.phase, "error", cause)
	for _, p := range t.participants {
		p.Chips += p.TotalBet
		p.resetForHand()
	}
	t.participants = t.participants[:0]
	t.pot = 0
	t.currentBet = 0
	t.minRaise = t.cfg.BigBlind
	t.board = nil
	t.deck = nil
	t.actor = -1
	t.phase = Waiting
	return fmt.Errorf("%w: hand %d aborted: %v", ErrEngineInternal, t.handNumber, cause)
}
