package game

import "fmt"

// Act applies action for the player at seat. For Raise, amount is the
// increment above the current bet; other actions ignore it.
func (t *Table) Act(seat int, action Action, amount int) error {
	t.mu.Lock()
	err := t.actLocked(seat, action, amount, false)
	done := t.takeCompleted()
	t.mu.Unlock()
	t.notify(done)
	return err
}

func (t *Table) actLocked(seat int, action Action, amount int, timeout bool) error {
	if !t.phase.Betting() {
		return fmt.Errorf("%w: no hand in progress", ErrIllegalAction)
	}
	if seat < 0 || seat >= len(t.seats) || t.seats[seat] == nil {
		return fmt.Errorf("%w: seat %d is empty", ErrInvalidSeat, seat)
	}
	p := t.seats[seat]
	if !p.inHand {
		return fmt.Errorf("%w: seat %d is not in this hand", ErrIllegalAction, seat)
	}
	if p.Folded {
		return fmt.Errorf("%w: seat %d has folded", ErrIllegalAction, seat)
	}
	if p.AllIn {
		return fmt.Errorf("%w: seat %d is all-in", ErrIllegalAction, seat)
	}
	if seat != t.actor {
		return fmt.Errorf("%w: seat %d acted but seat %d holds the action", ErrOutOfTurn, seat, t.actor)
	}

	toCall := max(0, t.currentBet-p.Bet)
	before := p.TotalBet

	switch action {
	case Fold:
		p.Folded = true

	case Check:
		if toCall > 0 {
			return fmt.Errorf("%w: cannot check facing %d to call", ErrIllegalAction, toCall)
		}

	case Call:
		if toCall == 0 {
			action = Check
			break
		}
		t.commit(p, min(toCall, p.Chips))

	case Raise:
		if amount < t.minRaise {
			if p.Chips-toCall < t.minRaise {
				return fmt.Errorf("%w: stack too short to raise the minimum %d, go all-in instead", ErrIllegalAction, t.minRaise)
			}
			return fmt.Errorf("%w: raise of %d is below the minimum %d", ErrIllegalAction, amount, t.minRaise)
		}
		if cost := toCall + amount; cost > p.Chips {
			return fmt.Errorf("%w: raise of %d needs %d chips, stack is %d", ErrIllegalAction, amount, cost, p.Chips)
		}
		t.commit(p, toCall+amount)
		t.currentBet = p.Bet
		t.minRaise = amount
		t.reopen(p)

	case AllIn:
		if p.Chips == 0 {
			return fmt.Errorf("%w: seat %d has no chips", ErrIllegalAction, seat)
		}
		t.commit(p, p.Chips)
		if p.Bet > t.currentBet {
			t.minRaise = max(t.minRaise, p.Bet-t.currentBet)
			t.currentBet = p.Bet
			t.reopen(p)
		}

	default:
		return fmt.Errorf("%w: unknown action %d", ErrIllegalAction, int(action))
	}

	p.acted = true
	t.cancelDecision()
	t.record(p, action, p.TotalBet-before, timeout)
	t.logger.Debug("action",
		"hand", t.handNumber,
		"phase", t.phase,
		"seat", seat,
		"action", action,
		"amount", p.TotalBet-before,
		"pot", t.pot,
		"timeout", timeout)

	return t.advance()
}

// reopen requires everyone else to act again after a bet increase.
func (t *Table) reopen(raiser *Player) {
	for _, p := range t.participants {
		if p != raiser {
			p.acted = false
		}
	}
}

// ValidActions returns the legal actions for seat, or nil when it does not hold
// the action.
func (t *Table) ValidActions(seat int) []ValidAction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.validActionsLocked(seat)
}

func (t *Table) validActionsLocked(seat int) []ValidAction {
	if !t.phase.Betting() || seat != t.actor || seat < 0 {
		return nil
	}
	p := t.seats[seat]
	toCall := max(0, t.currentBet-p.Bet)

	valid := []ValidAction{{Action: Fold}}
	if toCall == 0 {
		valid = append(valid, ValidAction{Action: Check})
	} else {
		c := min(toCall, p.Chips)
		valid = append(valid, ValidAction{Action: Call, MinAmount: c, MaxAmount: c})
	}
	if room := p.Chips - toCall; room >= t.minRaise {
		valid = append(valid, ValidAction{Action: Raise, MinAmount: t.minRaise, MaxAmount: room})
	}
	if p.Chips > 0 {
		valid = append(valid, ValidAction{Action: AllIn, MinAmount: p.Chips, MaxAmount: p.Chips})
	}
	return valid
}
