package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/poker"
)

// Personality selects how a Sacred bot weighs its cards.
type Personality string

const (
	Aggressive    Personality = "aggressive"
	Tight         Personality = "tight"
	Conservative  Personality = "conservative"
	Unpredictable Personality = "unpredictable"
	Mathematical  Personality = "mathematical"
	Balanced      Personality = "balanced"
)

// Personalities lists every personality in a stable order.
var Personalities = []Personality{Aggressive, Tight, Conservative, Unpredictable, Mathematical, Balanced}

// ParsePersonality resolves a personality name.
func ParsePersonality(s string) (Personality, error) {
	for _, p := range Personalities {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown personality %q", s)
}

// reading is what a bot sees in its cards.
type reading struct {
	sacred   int
	hasAll   bool
	category poker.HoleCardCategory
	made     poker.HandType
	postflop bool
	strength float64
}

// sacredWeight is the strength bonus per visible three, six or nine.
const sacredWeight = 0.0369

var preflopStrength = map[poker.HoleCardCategory]float64{
	poker.CategoryPremium: 0.85,
	poker.CategoryStrong:  0.70,
	poker.CategoryMedium:  0.55,
	poker.CategoryWeak:    0.40,
	poker.CategoryTrash:   0.25,
	poker.CategoryUnknown: 0.25,
}

var madeStrength = [...]float64{
	poker.HighCard:      0.20,
	poker.Pair:          0.45,
	poker.TwoPair:       0.65,
	poker.ThreeOfAKind:  0.75,
	poker.Straight:      0.82,
	poker.Flush:         0.86,
	poker.FullHouse:     0.92,
	poker.FourOfAKind:   0.97,
	poker.StraightFlush: 1.00,
}

func read(hole, board []poker.Card) reading {
	visible := append(append([]poker.Card{}, hole...), board...)
	r := reading{
		sacred:   poker.SacredCount(visible...),
		category: poker.CategoryUnknown,
	}
	var three, six, nine bool
	for _, c := range visible {
		switch c.Rank {
		case poker.Three:
			three = true
		case poker.Six:
			six = true
		case poker.Nine:
			nine = true
		}
	}
	r.hasAll = three && six && nine

	if len(hole) == 2 {
		r.category = poker.CategorizeHoleCards(hole[0], hole[1])
	}
	r.strength = preflopStrength[r.category]
	if len(hole) == 2 && len(board) >= 3 {
		if rank, err := poker.Evaluate(poker.NewHand(visible...)); err == nil {
			r.postflop = true
			r.made = rank.Type()
			r.strength = madeStrength[r.made]
		}
	}
	r.strength = min(1, r.strength+float64(r.sacred)*sacredWeight)
	return r
}

// Sacred plays by the count of threes, sixes and nines it can see, tempered by
// the real strength of its hand.
type Sacred struct {
	personality Personality
	rng         *rand.Rand
}

// NewSacred returns a bot with the given personality.
func NewSacred(p Personality, rng *rand.Rand) *Sacred {
	return &Sacred{personality: p, rng: rng}
}

// Personality returns the bot's personality.
func (s *Sacred) Personality() Personality {
	return s.personality
}

func (s *Sacred) Decide(state game.State, seat int, valid []game.ValidAction) game.Decision {
	var hole []poker.Card
	if seat >= 0 && seat < len(state.Seats) {
		hole = state.Seats[seat].Cards
	}
	r := read(hole, state.Board)

	var d game.Decision
	switch s.personality {
	case Aggressive:
		d = s.aggressive(state, r)
	case Tight:
		d = s.tight(state, r)
	case Conservative:
		d = s.conservative(state, r)
	case Unpredictable:
		d = s.unpredictable(state, r)
	case Mathematical:
		d = s.mathematical(state, seat, r)
	default:
		d = s.balanced(state, r)
	}
	return Legalize(d, valid)
}

// raiseTo builds a raise that takes the bet to mult times the larger of the
// current bet and the big blind. The amount is the increment over the current
// bet, as the table expects.
func raiseTo(state game.State, mult float64, reasoning string) game.Decision {
	base := max(state.CurrentBet, state.BigBlind)
	target := int(float64(base) * mult)
	return game.Decision{Action: game.Raise, Amount: target - state.CurrentBet, Reasoning: reasoning}
}

func call(reasoning string) game.Decision {
	return game.Decision{Action: game.Call, Reasoning: reasoning}
}

func fold(reasoning string) game.Decision {
	return game.Decision{Action: game.Fold, Reasoning: reasoning}
}

func (s *Sacred) aggressive(state game.State, r reading) game.Decision {
	if r.sacred > 0 {
		return raiseTo(state, float64(2+r.sacred), "Tesla's energy compels me to raise! Sacred numbers detected!")
	}
	odds := 0.7
	if r.strength < 0.3 {
		odds = 0.4
	}
	if s.rng.Float64() < odds {
		return raiseTo(state, 2, "The electromagnetic field is strong, I raise!")
	}
	return call("Channeling Tesla's power...")
}

func (s *Sacred) tight(state game.State, r reading) game.Decision {
	switch {
	case r.hasAll:
		return raiseTo(state, 3.69, "The sacred 3-6-9 alignment is perfect!")
	case r.strength >= 0.85:
		return raiseTo(state, 3, "The cosmic frequencies align perfectly.")
	case r.sacred >= 2 || r.strength >= 0.65:
		return call("The frequencies are aligning... I call.")
	case s.rng.Float64() < 0.3:
		return call("Waiting for the cosmic frequencies to align...")
	}
	return fold("The vibrations are not right. I fold.")
}

func (s *Sacred) conservative(state game.State, r reading) game.Decision {
	switch {
	case r.hasAll:
		return raiseTo(state, 2, "All sacred numbers present! Tesla compels me to raise!")
	case r.strength >= 0.85:
		return raiseTo(state, 2, "Even caution must give way to a hand like this.")
	case r.strength >= 0.6 || s.rng.Float64() < 0.2:
		return call("Proceeding with caution...")
	}
	return fold("Conservative wisdom suggests folding.")
}

func (s *Sacred) unpredictable(state game.State, r reading) game.Decision {
	roll := s.rng.Float64()
	if r.sacred > 0 && roll < 0.5 {
		return raiseTo(state, float64(1+s.rng.IntN(5)), "Lightning strikes when you least expect it!")
	}
	switch {
	case roll < 0.33:
		return fold("Unpredictability is my strength.")
	case roll < 0.66:
		return call("Following the chaos...")
	}
	return raiseTo(state, 2, "Random energy surge!")
}

// mathematical compares hand strength against pot odds.
func (s *Sacred) mathematical(state game.State, seat int, r reading) game.Decision {
	toCall := state.ToCall(seat)
	potOdds := 0.0
	if toCall > 0 {
		potOdds = float64(toCall) / float64(state.Pot+toCall)
	}
	edge := r.strength

	switch {
	case toCall == 0 && edge < 0.5:
		return call(fmt.Sprintf("Calculated advantage %.1f%% does not justify a bet.", edge*100))
	case edge > potOdds*1.5 && edge >= 0.5:
		return raiseTo(state, 1+edge, fmt.Sprintf("Tesla's mathematics demand a raise! Calculated advantage: %.1f%%", edge*100))
	case edge > potOdds:
		return call("Mathematical probability favors calling.")
	}
	return fold("The numbers don't lie, folding is optimal.")
}

var chatter = map[game.Action][]string{
	game.Fold: {
		"The electromagnetic field is not favorable...",
		"Tesla's wisdom says to conserve energy for the right moment.",
		"The cosmic frequencies advise patience.",
		"Not the right vibration for this hand.",
	},
	game.Call: {
		"The energy is balanced, I call.",
		"Tesla's calculations suggest calling.",
		"Maintaining electromagnetic equilibrium.",
		"The frequencies are stable.",
	},
	game.Raise: {
		"Tesla's power surges through me!",
		"The electromagnetic field demands aggression!",
		"Sacred numbers guide my raise!",
		"Channeling 369 energy into this bet!",
	},
}

func (s *Sacred) chat(action game.Action, r reading) string {
	lines := chatter[action]
	msg := lines[s.rng.IntN(len(lines))]
	if r.sacred > 0 {
		msg = fmt.Sprintf("%s (Sacred numbers: %d)", msg, r.sacred)
	}
	return msg
}

func (s *Sacred) balanced(state game.State, r reading) game.Decision {
	roll := s.rng.Float64()
	switch {
	case r.sacred > 0 && roll < 0.6, r.strength >= 0.8:
		return raiseTo(state, float64(1+max(1, r.sacred)), s.chat(game.Raise, r))
	case roll < 0.4 || r.strength >= 0.5:
		return call(s.chat(game.Call, r))
	}
	return fold(s.chat(game.Fold, r))
}
