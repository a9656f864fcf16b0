package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Character is a named house bot.
type Character struct {
	Name        string
	Personality Personality
	Quote       string
	// Bankroll caps the bot's buy-in, in cents.
	Bankroll int
}

// Roster is the house bots in seating order.
var Roster = []Character{
	{"ElectroMaster369", Aggressive, "The present is theirs; the future is mine!", 50_000},
	{"FrequencyFold", Tight, "Everything is frequency and vibration", 25_000},
	{"VibrationViper", Balanced, "My inventions are living entities pulsating with cosmic energy", 75_000},
	{"CosmicCalculator", Mathematical, "Mathematics is the language of the universe", 100_000},
	{"EnergyEmpath", Balanced, "The day science studies non-physical phenomena...", 30_000},
	{"WirelessWisdom", Conservative, "Invention is the most important product of man's creative brain", 15_000},
	{"ThunderStrike369", Unpredictable, "If you want to find the secrets of the universe...", 60_000},
	{"QuantumQueen", Mathematical, "The future will show whether my foresight is as accurate as my ability to express the present", 80_000},
}

// Lookup finds a house bot by name, ignoring case.
func Lookup(name string) (Character, bool) {
	for _, c := range Roster {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Character{}, false
}

// Policy builds the character's playing policy.
func (c Character) Policy(rng *rand.Rand) Policy {
	return NewSacred(c.Personality, rng)
}

// ID is the stable player ID used when the character sits down.
func (c Character) ID() string {
	return fmt.Sprintf("bot-%s", strings.ToLower(c.Name))
}
