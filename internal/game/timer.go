package game

import "time"

// openDecision arms the auto-fold deadline for the current actor. Each
// decision gets a new sequence number so a timer that fires after the
// decision was answered does nothing.
func (t *Table) openDecision() {
	t.cancelDecision()
	t.decisionSeq++

	p := t.seats[t.actor]
	timeout := t.cfg.ActionTimeout
	if p.ActionTimeout > 0 {
		timeout = p.ActionTimeout
	}
	if timeout <= 0 {
		return
	}

	seat, seq := t.actor, t.decisionSeq
	t.deadline = t.clock.Now().Add(timeout)
	t.timer = t.clock.AfterFunc(timeout, func() { t.expire(seat, seq) }, "table", "decision")
}

func (t *Table) cancelDecision() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.deadline = time.Time{}
}

func (t *Table) expire(seat int, seq uint64) {
	t.mu.Lock()
	if seq != t.decisionSeq || seat != t.actor || !t.phase.Betting() {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.logger.Warn("decision timed out, folding", "hand", t.handNumber, "seat", seat)
	if err := t.actLocked(seat, Fold, 0, true); err != nil {
		t.logger.Error("auto-fold failed", "hand", t.handNumber, "seat", seat, "error", err)
	}
	done := t.takeCompleted()
	t.mu.Unlock()
	t.notify(done)
}

// Deadline returns when the current decision times out. It is zero when no
// decision is open or the deadline is disabled.
func (t *Table) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline
}
