package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/threesixnine/internal/game"
)

// Driver plays the bot seats of one table. It acts synchronously through
// Table.Act whenever a bot holds the action.
type Driver struct {
	table  *game.Table
	logger *log.Logger

	mu   sync.Mutex
	bots map[string]Policy
}

// NewDriver returns a driver for table with no bots registered.
func NewDriver(table *game.Table, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		table:  table,
		logger: logger.WithPrefix("bot").With("table", table.ID()),
		bots:   make(map[string]Policy),
	}
}

// Add registers the policy that plays for playerID.
func (d *Driver) Add(playerID string, p Policy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bots[playerID] = p
}

// Remove stops playing for playerID.
func (d *Driver) Remove(playerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.bots, playerID)
}

// Controls reports whether playerID is played by the driver.
func (d *Driver) Controls(playerID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.bots[playerID]
	return ok
}

func (d *Driver) policy(playerID string) Policy {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bots[playerID]
}

// Step makes one decision if a bot holds the action and reports whether it
// acted.
func (d *Driver) Step() (bool, error) {
	st := d.table.State(game.Spectator)
	if !st.Phase.Betting() {
		return false, nil
	}
	actor, ok := st.Actor()
	if !ok || actor.Empty {
		return false, nil
	}
	policy := d.policy(actor.ID)
	if policy == nil {
		return false, nil
	}

	valid := d.table.ValidActions(actor.Seat)
	if len(valid) == 0 {
		return false, nil
	}
	decision := Legalize(policy.Decide(d.table.State(actor.Seat), actor.Seat, valid), valid)

	err := d.table.Act(actor.Seat, decision.Action, decision.Amount)
	switch {
	case errors.Is(err, game.ErrOutOfTurn):
		// The action moved on, e.g. a deadline fired between snapshot and act.
		return false, nil
	case errors.Is(err, game.ErrIllegalAction):
		d.logger.Warn("bot decision rejected, falling back",
			"player", actor.Name, "action", decision.Action, "amount", decision.Amount, "error", err)
		fallback := Legalize(game.Decision{Action: game.Check}, valid)
		if err := d.table.Act(actor.Seat, fallback.Action, 0); err != nil {
			return false, fmt.Errorf("bot %s fallback %s: %w", actor.Name, fallback.Action, err)
		}
		decision = fallback
	case err != nil:
		return false, fmt.Errorf("bot %s: %w", actor.Name, err)
	}

	d.logger.Debug("bot acted",
		"hand", st.HandNumber,
		"player", actor.Name,
		"phase", st.Phase,
		"action", decision.Action,
		"amount", decision.Amount,
		"reasoning", decision.Reasoning)
	return true, nil
}

// Run keeps stepping until a human holds the action, the hand ends or ctx is
// done.
func (d *Driver) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		acted, err := d.Step()
		if err != nil || !acted {
			return err
		}
	}
}
