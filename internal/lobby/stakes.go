package lobby

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseStakes parses blinds written as "$1/$2" or "$0.25/$0.50" into cents.
func ParseStakes(s string) (small, big int, err error) {
	sb, bb, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, 0, fmt.Errorf("stakes %q: want small/big, e.g. $1/$2", s)
	}
	if small, err = parseDollars(sb); err != nil {
		return 0, 0, fmt.Errorf("stakes %q: small blind: %w", s, err)
	}
	if big, err = parseDollars(bb); err != nil {
		return 0, 0, fmt.Errorf("stakes %q: big blind: %w", s, err)
	}
	if small <= 0 {
		return 0, 0, fmt.Errorf("stakes %q: small blind must be positive", s)
	}
	if big < small {
		return 0, 0, fmt.Errorf("stakes %q: big blind is below small blind", s)
	}
	return small, big, nil
}

// parseDollars converts "$1", "0.5" or "$0.05" to cents.
func parseDollars(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	dollars, err := strconv.Atoi(whole)
	if err != nil || dollars < 0 || strings.HasPrefix(whole, "+") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	cents := 0
	if frac != "" {
		cents, err = strconv.Atoi(frac + strings.Repeat("0", 2-len(frac)))
		if err != nil || cents < 0 || strings.HasPrefix(frac, "+") || strings.HasPrefix(frac, "-") {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	return dollars*100 + cents, nil
}

// ParseChips reads a dollar amount such as "$1000" or "$0.50" into cents.
func ParseChips(s string) (int, error) {
	cents, err := parseDollars(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, fmt.Errorf("amount %q must be positive", s)
	}
	return cents, nil
}

// FormatStakes renders blinds in cents the way ParseStakes reads them.
func FormatStakes(small, big int) string {
	return FormatChips(small) + "/" + FormatChips(big)
}

// FormatChips renders cents as dollars, dropping zero cents.
func FormatChips(cents int) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	if cents%100 == 0 {
		return fmt.Sprintf("%s$%d", sign, cents/100)
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
