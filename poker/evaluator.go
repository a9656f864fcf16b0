package poker

import (
	"fmt"
	"math/bits"
)

// HandRank is the strength of a best five-card hand. Higher values are stronger.
// The category sits above bit 20; below it are up to five 4-bit tie-break ranks.
type HandRank uint32

// HandType enumerates poker hand categories from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var handTypeNames = [...]string{
	"High Card",
	"Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

func (t HandType) String() string {
	if int(t) >= len(handTypeNames) {
		return "Unknown"
	}
	return handTypeNames[t]
}

// Type returns the hand category.
func (hr HandRank) Type() HandType {
	return HandType(hr >> 20)
}

// String returns a human-readable hand description.
func (hr HandRank) String() string {
	return hr.Type().String()
}

// CompareHands returns 1 if a beats b, -1 if b beats a, 0 for a tie.
func CompareHands(a, b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// Evaluate7 ranks the best five-card hand contained in exactly seven cards.
func Evaluate7(hand Hand) (HandRank, error) {
	if n := hand.CountCards(); n != 7 {
		return 0, fmt.Errorf("evaluate: want 7 cards, got %d", n)
	}
	return evaluate(hand), nil
}

// Evaluate ranks the best hand in five to seven cards, e.g. hole cards plus
// the flop or turn.
func Evaluate(hand Hand) (HandRank, error) {
	if n := hand.CountCards(); n < 5 || n > 7 {
		return 0, fmt.Errorf("evaluate: want 5 to 7 cards, got %d", n)
	}
	return evaluate(hand), nil
}

// EvaluateCards ranks hole cards plus board; the total must be seven cards.
func EvaluateCards(hole, board []Card) (HandRank, error) {
	h := NewHand(hole...)
	for _, c := range board {
		h.AddCard(c)
	}
	return Evaluate7(h)
}

func evaluate(hand Hand) HandRank {
	var suitMasks [4]uint16
	var rankMask uint16
	for s := Clubs; s <= Spades; s++ {
		suitMasks[s] = hand.SuitMask(s)
		rankMask |= suitMasks[s]
	}

	flushSuit := -1
	for s, mask := range suitMasks {
		if bits.OnesCount16(mask) < 5 {
			continue
		}
		if high := straightHigh(mask); high >= 0 {
			return pack(StraightFlush, high)
		}
		flushSuit = s
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]
	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quad := highestRank(quadsMask); quad >= 0 {
		return pack(FourOfAKind, quad, highestRank(rankMask&^(1<<quad)))
	}

	if trip := highestRank(tripsMask); trip >= 0 {
		if pair := highestRank(pairsMask | (tripsMask &^ (1 << trip))); pair >= 0 {
			return pack(FullHouse, trip, pair)
		}
	}

	if flushSuit >= 0 {
		return pack(Flush, topRanks(suitMasks[flushSuit], 5)...)
	}

	if high := straightHigh(rankMask); high >= 0 {
		return pack(Straight, high)
	}

	if trip := highestRank(tripsMask); trip >= 0 {
		kickers := topRanks(rankMask&^(1<<trip), 2)
		return pack(ThreeOfAKind, append([]int{trip}, kickers...)...)
	}

	if high := highestRank(pairsMask); high >= 0 {
		if low := highestRank(pairsMask &^ (1 << high)); low >= 0 {
			kicker := highestRank(rankMask &^ (1 << high) &^ (1 << low))
			return pack(TwoPair, high, low, kicker)
		}
		kickers := topRanks(rankMask&^(1<<high), 3)
		return pack(Pair, append([]int{high}, kickers...)...)
	}

	return pack(HighCard, topRanks(rankMask, 5)...)
}

func pack(t HandType, ranks ...int) HandRank {
	r := HandRank(t) << 20
	shift := 16
	for _, rank := range ranks {
		if rank >= 0 {
			r |= HandRank(rank) << shift
		}
		shift -= 4
	}
	return r
}

// highestRank returns the highest rank bit set in mask, or -1 when empty.
func highestRank(mask uint16) int {
	if mask == 0 {
		return -1
	}
	return bits.Len16(mask) - 1
}

// topRanks returns up to n rank bits from mask in descending order.
func topRanks(mask uint16, n int) []int {
	out := make([]int, 0, n)
	for len(out) < n && mask != 0 {
		top := bits.Len16(mask) - 1
		out = append(out, top)
		mask &^= 1 << top
	}
	return out
}

// straightHigh returns the rank bit of the highest card of the best straight in
// mask, or -1 when there is none. The wheel (A-2-3-4-5) is five-high.
func straightHigh(mask uint16) int {
	const wheelMask = 0x100F
	mask &= 0x1FFF

	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return bits.Len16(seq) - 1 + 4
	}
	if mask&wheelMask == wheelMask {
		return 3
	}
	return -1
}
