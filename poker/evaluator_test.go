package poker

import (
	"testing"

	"github.com/lox/threesixnine/internal/randutil"
	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, cards string) HandRank {
	t.Helper()
	rank, err := Evaluate7(NewHand(MustParseCards(cards)...))
	require.NoError(t, err)
	return rank
}

func TestEvaluate7Categories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  HandType
	}{
		{"As Ks Qs Js Ts 2d 3c", StraightFlush},
		{"5h 4h 3h 2h Ah Kd Kc", StraightFlush},
		{"9c 9d 9h 9s 2c 3d 4h", FourOfAKind},
		{"Kc Kd Kh 2s 2c 7d 8h", FullHouse},
		{"Kc Kd Kh 2s 2c 2d 8h", FullHouse},
		{"Ah 9h 7h 4h 2h Kd Kc", Flush},
		{"9c Td Jh Qs Kc 2d 2h", Straight},
		{"Ac 2d 3h 4s 5c Kd 9h", Straight},
		{"7c 7d 7h As Kc 2d 4h", ThreeOfAKind},
		{"7c 7d 5h 5s Kc Kd 2h", TwoPair},
		{"7c 7d 5h 9s Kc Qd 2h", Pair},
		{"Ac Jd 9h 7s 5c 3d 2h", HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, eval(t, tt.cards).Type())
		})
	}
}

func TestEvaluate7Ordering(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		better, worse string
	}{
		{"ace high beats ten high", "Ac 8d 4h 3s 9c Jd 2h", "7c 6d 4h 3s 2c 9d Th"},
		{"kicker decides pair", "Ac Ad Kh 9s 7c 4d 2h", "Ac Ad Qh 9s 7c 4d 2h"},
		{"six high straight beats wheel", "Ac 2d 3h 4s 5c 6d 9h", "Ac 2d 3h 4s 5c Jd 9h"},
		{"higher two pair", "Kc Kd 5h 5s 2c 8d 9h", "Qc Qd Jh Js 2c 8d 9h"},
		{"two pair kicker", "Kc Kd 5h 5s Ac 8d 2h", "Kc Kd 5h 5s Qc 8d 2h"},
		{"full house trips first", "3c 3d 3h 2s 2c 8d 9h", "2c 2d 2h As Ac 8d 9h"},
		{"flush beats straight", "2h 5h 7h 9h Jh Tc 8d", "9c Td Jh Qs Kc 2d 3h"},
		{"quads kicker", "9c 9d 9h 9s Ac 3d 4h", "9c 9d 9h 9s Kc 3d 4h"},
		{"higher flush card", "Ah 9h 7h 4h 2h Kd Kc", "Kh Qh Jh 9h 2h Ad Ac"},
		{"trips kicker", "7c 7d 7h As Qc 2d 4h", "7c 7d 7h As Jc 2d 4h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, 1, CompareHands(eval(t, tt.better), eval(t, tt.worse)))
			assert.Equal(t, -1, CompareHands(eval(t, tt.worse), eval(t, tt.better)))
		})
	}
}

func TestEvaluate7Ties(t *testing.T) {
	t.Parallel()
	// Board plays for both players.
	a := eval(t, "2c 3d As Ks Qs Js Ts")
	b := eval(t, "4h 5h As Ks Qs Js Ts")
	assert.Equal(t, 0, CompareHands(a, b))

	// Same two pair with an identical kicker from different suits.
	c := eval(t, "Kc Kd 5h 5s Ac 8d 2h")
	d := eval(t, "Kh Ks 5c 5d Ad 8c 2s")
	assert.Equal(t, 0, CompareHands(c, d))
}

func TestEvaluate7RejectsWrongCardCount(t *testing.T) {
	t.Parallel()
	_, err := Evaluate7(NewHand(MustParseCards("As Ks Qs")...))
	assert.Error(t, err)

	_, err = EvaluateCards(MustParseCards("As Ks"), MustParseCards("2c 3c 4c"))
	assert.Error(t, err)
}

func TestEvaluatePartialBoards(t *testing.T) {
	t.Parallel()
	flop, err := Evaluate(NewHand(MustParseCards("9s 9h 3c 6d 9c")...))
	require.NoError(t, err)
	assert.Equal(t, ThreeOfAKind, flop.Type())

	turn, err := Evaluate(NewHand(MustParseCards("As 2s 3s 4s Kd 5s")...))
	require.NoError(t, err)
	assert.Equal(t, StraightFlush, turn.Type())

	_, err = Evaluate(NewHand(MustParseCards("As Ks Qs Js")...))
	assert.Error(t, err)
}

func toOracle(t *testing.T, c Card) ph.Card {
	t.Helper()
	rank := int(c.Rank)
	if c.Rank == Ace {
		rank = 1
	}
	card, err := ph.MakeCard(ph.Suit(c.Suit), ph.Rank(rank))
	require.NoError(t, err)
	return card
}

// TestEvaluate7AgreesWithOracle compares relative ordering against an
// independent evaluator over random deals.
func TestEvaluate7AgreesWithOracle(t *testing.T) {
	t.Parallel()
	rng := randutil.New(369)
	d := NewDeck(rng)

	sign := func(x int) int {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	}

	for i := range 2000 {
		d.Shuffle()
		board, _ := d.Deal(5)
		holeA, _ := d.Deal(2)
		holeB, _ := d.Deal(2)

		ours := make([]HandRank, 2)
		theirs := make([]int16, 2)
		for j, hole := range [][]Card{holeA, holeB} {
			all := append(append([]Card{}, hole...), board...)
			rank, err := EvaluateCards(hole, board)
			require.NoError(t, err)
			ours[j] = rank

			var seven [7]ph.Card
			for k, c := range all {
				seven[k] = toOracle(t, c)
			}
			theirs[j] = ph.Eval7(&seven)
		}

		require.Equal(t, sign(int(theirs[0])-int(theirs[1])), CompareHands(ours[0], ours[1]),
			"deal %d: %s | %s vs %s", i, FormatCards(board), FormatCards(holeA), FormatCards(holeB))
	}
}
