package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Suit is one of the four card suits.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

var suitSymbols = [...]string{"♣", "♦", "♥", "♠"}
var suitLetters = [...]byte{'c', 'd', 'h', 's'}

func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return suitSymbols[s]
}

// Rank is a card rank from Two (2) to Ace (14).
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Card is an immutable playing card value.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard returns the card with the given rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Spades
}

// String returns the card as rank followed by suit symbol, e.g. "A♠".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Short returns the two-letter form used by hand histories, e.g. "As".
func (c Card) Short() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{rankChars[c.Rank-Two], suitLetters[c.Suit]})
}

// index maps a card to its bit position: suit*13 + rank offset.
func (c Card) index() uint {
	return uint(c.Suit)*13 + uint(c.Rank-Two)
}

// ParseCard parses a card such as "As", "td" or "10♥".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	idx := strings.IndexByte(rankChars, upper(s[0]))
	if idx < 0 {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}

	suitPart := s[1:]
	for i, sym := range suitSymbols {
		if suitPart == sym || (len(suitPart) == 1 && lower(suitPart[0]) == suitLetters[i]) {
			return NewCard(Two+Rank(idx), Suit(i)), nil
		}
	}
	return Card{}, fmt.Errorf("invalid suit in card %q", s)
}

// MustParseCards parses a space separated list of cards and panics on error.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// Hand is a set of cards packed into 52 bits, 13 per suit.
type Hand uint64

// NewHand builds a hand from the given cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= 1 << c.index()
}

// HasCard reports whether the card is in the hand.
func (h Hand) HasCard(c Card) bool {
	return h&(1<<c.index()) != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// SuitMask returns a 13-bit rank mask for one suit; bit 0 is the deuce.
func (h Hand) SuitMask(s Suit) uint16 {
	return uint16(uint64(h)>>(uint(s)*13)) & 0x1FFF
}

// FormatCards joins cards with spaces using their symbol form.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
