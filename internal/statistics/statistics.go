// Package statistics accumulates per-player results in big blinds across
// completed hands.
package statistics

import (
	"fmt"
	"math"
	"slices"
)

// HandResult is one player's outcome in one hand.
type HandResult struct {
	NetBB    float64 // chips won minus chips put in, in big blinds
	Showdown bool    // the hand was decided at showdown
	Position Position
	PotBB    float64 // total pot awarded, in big blinds
	Sacred   bool    // hole cards held a 3, 6 or 9
}

// Position is a seat's place in the betting order of a hand.
type Position int

const (
	SmallBlind Position = iota
	BigBlind
	Early
	Middle
	Late
	Button
	numPositions
)

func (p Position) String() string {
	switch p {
	case SmallBlind:
		return "SB"
	case BigBlind:
		return "BB"
	case Early:
		return "EP"
	case Middle:
		return "MP"
	case Late:
		return "LP"
	case Button:
		return "BTN"
	default:
		return "?"
	}
}

// PositionOf maps an index in small-blind-first order to a position for a
// hand with n players. Heads-up the small blind is the button.
func PositionOf(index, n int) Position {
	switch {
	case n == 2 && index == 0:
		return Button
	case index == 0:
		return SmallBlind
	case index == 1:
		return BigBlind
	case index == n-1:
		return Button
	}
	// Seats between the big blind and the button split into early, middle
	// and late thirds.
	rest := n - 3
	switch third := (index - 2) * 3 / rest; third {
	case 0:
		return Early
	case 1:
		return Middle
	default:
		return Late
	}
}

// Accumulator holds running sums for a subset of hands.
type Accumulator struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

func (a *Accumulator) add(bb float64) {
	a.Hands++
	a.SumBB += bb
	a.SumBB2 += bb * bb
}

// Mean returns big blinds per hand.
func (a Accumulator) Mean() float64 {
	if a.Hands == 0 {
		return 0
	}
	return a.SumBB / float64(a.Hands)
}

// Statistics tracks one player's results.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	Positions [numPositions]Accumulator
	// SacredCards covers hands dealt at least one 3, 6 or 9.
	SacredCards Accumulator

	MaxPotBB  float64
	BigPots   int
	BigPotsBB float64
}

// BigPotBB is the pot size from which a hand counts as a big pot.
const BigPotBB = 50

// Add incorporates a hand result.
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)
	s.AllBB += netBB

	if result.Showdown {
		s.ShowdownBB += netBB
		if netBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += netBB
		if netBB > 0 {
			s.NonShowdownWins++
		}
	}

	if result.Position >= 0 && result.Position < numPositions {
		s.Positions[result.Position].add(netBB)
	}
	if result.Sacred {
		s.SacredCards.add(netBB)
	}

	s.MaxPotBB = max(s.MaxPotBB, result.PotBB)
	if result.PotBB >= BigPotBB {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

// Mean returns big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// BB100 returns big blinds won per hundred hands.
func (s *Statistics) BB100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(0, s.Variance()))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p, from 0.0 to 1.0.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}

// Validate checks that the running totals agree with each other.
func (s *Statistics) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: all=%.6f showdown=%.6f non-showdown=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length %d does not match hands %d", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins %d exceed hands %d", wins, s.Hands)
	}
	positioned := 0
	for _, p := range s.Positions {
		positioned += p.Hands
	}
	if positioned != s.Hands {
		return fmt.Errorf("position hands %d do not match hands %d", positioned, s.Hands)
	}
	return nil
}
