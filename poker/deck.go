package poker

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// Deck is a standard 52-card deck. Cards are dealt from the top (index 0 upward).
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a freshly shuffled deck using rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.fill()
	d.Shuffle()
	return d
}

// NewStackedDeck returns an unshuffled deck whose first cards are top, followed
// by every remaining card in suit/rank order. Used for deterministic deals.
func NewStackedDeck(top ...Card) (*Deck, error) {
	d := &Deck{}
	var seen Hand
	i := 0
	for _, c := range top {
		if !c.Valid() {
			return nil, fmt.Errorf("invalid card %v", c)
		}
		if seen.HasCard(c) {
			return nil, fmt.Errorf("duplicate card %s", c)
		}
		seen.AddCard(c)
		d.cards[i] = c
		i++
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if seen.HasCard(c) {
				continue
			}
			d.cards[i] = c
			i++
		}
	}
	return d, nil
}

func (d *Deck) fill() {
	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	d.next = 0
}

// Shuffle restores all 52 cards and applies a Fisher-Yates shuffle.
func (d *Deck) Shuffle() {
	d.fill()
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes n cards from the top of the deck.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrDeckExhausted, n, d.Remaining())
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// DealOne removes the top card.
func (d *Deck) DealOne() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Burn discards the top card unseen.
func (d *Deck) Burn() error {
	_, err := d.DealOne()
	return err
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
