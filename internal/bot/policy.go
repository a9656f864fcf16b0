// Package bot holds the computer players: simple reference policies, the
// sacred-number personalities and a driver that plays bot seats at a table.
package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lox/threesixnine/internal/game"
)

// Policy decides an action for the seat holding the action. state is the
// table as seen from seat, so it carries the seat's own hole cards.
type Policy interface {
	Decide(state game.State, seat int, valid []game.ValidAction) game.Decision
}

// Legalize turns a decision into one the table will accept. Folding with
// nothing to call becomes a check, a check facing a bet becomes a fold, raises
// are clamped into the legal range and anything unavailable falls back to
// call, then check, then fold.
func Legalize(d game.Decision, valid []game.ValidAction) game.Decision {
	if len(valid) == 0 {
		return game.Decision{Action: game.Fold, Reasoning: d.Reasoning}
	}
	out := game.Decision{Action: d.Action, Reasoning: d.Reasoning}

	switch d.Action {
	case game.Fold, game.Check:
		if _, ok := game.Find(valid, game.Check); ok {
			out.Action = game.Check
			return out
		}
		out.Action = game.Fold
		return out

	case game.Raise:
		if va, ok := game.Find(valid, game.Raise); ok {
			out.Amount = min(max(d.Amount, va.MinAmount), va.MaxAmount)
			return out
		}

	case game.AllIn, game.Call:
		if va, ok := game.Find(valid, d.Action); ok {
			out.Amount = va.MinAmount
			return out
		}
	}

	return passive(valid, d.Reasoning)
}

// passive calls when there is something to call, otherwise checks, otherwise
// folds.
func passive(valid []game.ValidAction, reasoning string) game.Decision {
	for _, a := range []game.Action{game.Call, game.Check} {
		if va, ok := game.Find(valid, a); ok {
			return game.Decision{Action: a, Amount: va.MinAmount, Reasoning: reasoning}
		}
	}
	return game.Decision{Action: game.Fold, Reasoning: reasoning}
}

// CallingStation calls every bet and checks otherwise.
type CallingStation struct{}

func (CallingStation) Decide(_ game.State, _ int, valid []game.ValidAction) game.Decision {
	return passive(valid, "calling station")
}

// Random picks a uniformly random legal action, and a uniformly random raise
// size within the legal range.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random policy drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Decide(_ game.State, _ int, valid []game.ValidAction) game.Decision {
	if len(valid) == 0 {
		return game.Decision{Action: game.Fold, Reasoning: "random: no valid actions"}
	}
	va := valid[r.rng.IntN(len(valid))]
	amount := va.MinAmount
	if va.Action == game.Raise && va.MaxAmount > va.MinAmount {
		amount += r.rng.IntN(va.MaxAmount - va.MinAmount + 1)
	}
	return game.Decision{Action: va.Action, Amount: amount, Reasoning: "random"}
}

// New resolves a policy by name: "calling-station", "random" or one of the
// sacred personalities.
func New(name string, rng *rand.Rand) (Policy, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "calling-station", "callingstation", "call":
		return CallingStation{}, nil
	case "random", "rand":
		return NewRandom(rng), nil
	default:
		p, err := ParsePersonality(n)
		if err != nil {
			return nil, fmt.Errorf("unknown bot %q: %w", name, err)
		}
		return NewSacred(p, rng), nil
	}
}
