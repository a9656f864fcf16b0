package game

import (
	"fmt"
	"strings"
)

// Phase is the stage of the current hand.
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Betting reports whether the phase is one of the four betting rounds.
func (p Phase) Betting() bool {
	return p >= Preflop && p <= River
}

// Action represents a player action.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// ParseAction parses an action name. "bet" is accepted as a raise.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold", "f":
		return Fold, nil
	case "check", "k":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "raise", "bet", "r", "b":
		return Raise, nil
	case "allin", "all-in", "all_in", "a":
		return AllIn, nil
	}
	return Fold, fmt.Errorf("%w: unknown action %q", ErrIllegalAction, s)
}

// ValidAction describes one legal action and the chip range it accepts. For
// Raise the range is the increment above the current bet; for Call and AllIn
// it is the chips the player would put in.
type ValidAction struct {
	Action    Action
	MinAmount int
	MaxAmount int
}

// Decision is what a policy wants the acting seat to do.
type Decision struct {
	Action    Action
	Amount    int
	Reasoning string
}

// Allows reports whether action is among the valid actions and, for Raise,
// whether amount lies within its range.
func Allows(valid []ValidAction, action Action, amount int) bool {
	for _, va := range valid {
		if va.Action != action {
			continue
		}
		if action == Raise {
			return amount >= va.MinAmount && amount <= va.MaxAmount
		}
		return true
	}
	return false
}

// Find returns the valid action entry for action.
func Find(valid []ValidAction, action Action) (ValidAction, bool) {
	for _, va := range valid {
		if va.Action == action {
			return va, true
		}
	}
	return ValidAction{}, false
}
