package phh

import (
	"fmt"
	"strings"

	"github.com/lox/threesixnine/poker"
)

const unknownCard = "??"

// FormatCards joins cards the PHH way, e.g. "AsKd". Invalid cards render
// as "??".
func FormatCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Short())
	}
	return b.String()
}

// ParseCards splits a PHH card run such as "Th9h3c" into cards. Unknown
// cards ("??") are an error.
func ParseCards(s string) ([]poker.Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("phh: odd length card run %q", s)
	}
	cards := make([]poker.Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		if s[i:i+2] == unknownCard {
			return nil, fmt.Errorf("phh: unknown card in %q", s)
		}
		c, err := poker.ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("phh: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Board collects the community cards dealt by "d db" actions.
func (h *HandHistory) Board() ([]poker.Card, error) {
	var board []poker.Card
	for _, a := range h.Actions {
		fields := strings.Fields(stripComment(a))
		if len(fields) == 3 && fields[0] == "d" && fields[1] == "db" {
			cards, err := ParseCards(fields[2])
			if err != nil {
				return nil, err
			}
			board = append(board, cards...)
		}
	}
	return board, nil
}

// Shown returns the hole cards revealed at showdown keyed by PHH player index.
func (h *HandHistory) Shown() (map[int][]poker.Card, error) {
	out := make(map[int][]poker.Card)
	for _, a := range h.Actions {
		fields := strings.Fields(stripComment(a))
		if len(fields) != 3 || fields[1] != "sm" {
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(fields[0], "p%d", &idx); err != nil {
			return nil, fmt.Errorf("phh: bad actor in %q", a)
		}
		cards, err := ParseCards(fields[2])
		if err != nil {
			return nil, err
		}
		out[idx] = cards
	}
	return out, nil
}

func stripComment(action string) string {
	if i := strings.IndexByte(action, '#'); i >= 0 {
		return strings.TrimSpace(action[:i])
	}
	return action
}
