package phh

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/lox/threesixnine/internal/fileutil"
	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/poker"
)

// FromSummary converts a completed hand into PHH form. Players are listed
// from the small blind, so p1 is the small blind and p2 the big blind.
func FromSummary(cfg game.Config, s game.HandSummary) *HandHistory {
	players := slices.Clone(s.Players)
	if len(players) == 2 {
		// Heads-up the button posts the small blind and is dealt last.
		players[0], players[1] = players[1], players[0]
	}

	n := len(players)
	h := &HandHistory{
		Variant:           NoLimitTexas,
		Table:             cfg.Name,
		SeatCount:         cfg.MaxSeats,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            s.BigBlind,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            s.HandID,
	}

	index := make(map[int]int, n)
	for i, p := range players {
		index[p.Seat] = i + 1
		h.Seats[i] = p.Seat + 1
		h.StartingStacks[i] = p.StartingChips
		h.FinishingStacks[i] = p.FinalChips
		h.Winnings[i] = p.Won
		h.Players[i] = p.Name
	}
	if n >= 2 {
		h.BlindsOrStraddles[0] = min(s.SmallBlind, players[0].StartingChips)
		h.BlindsOrStraddles[1] = min(s.BigBlind, players[1].StartingChips)
	}

	for i, p := range players {
		cards := FormatCards(p.Cards)
		if len(p.Cards) == 0 {
			cards = unknownCard + unknownCard
		}
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", i+1, cards))
	}

	streets := splitBoard(s.Board)
	phase := game.Preflop
	currentBet := s.BigBlind
	deal := func(to game.Phase) {
		for phase < to && phase < game.River {
			phase++
			currentBet = 0
			if street := int(phase - game.Flop); street < len(streets) {
				h.Actions = append(h.Actions, "d db "+FormatCards(streets[street]))
			}
		}
	}

	for _, a := range s.Actions {
		deal(a.Phase)
		actor := fmt.Sprintf("p%d", index[a.Seat])
		switch {
		case a.Action == game.Fold && a.Timeout:
			h.Actions = append(h.Actions, actor+" f # timeout")
		case a.Action == game.Fold:
			h.Actions = append(h.Actions, actor+" f")
		case a.Action == game.Raise, a.Action == game.AllIn && a.BetTo > currentBet:
			currentBet = a.BetTo
			h.Actions = append(h.Actions, fmt.Sprintf("%s cbr %d", actor, a.BetTo))
		default:
			h.Actions = append(h.Actions, actor+" cc")
		}
	}
	deal(game.River)

	for i, p := range players {
		if p.Revealed {
			h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", i+1, FormatCards(p.Cards)))
		}
	}

	if !s.CompletedAt.IsZero() {
		at := s.CompletedAt.UTC()
		h.Time = at.Format("15:04:05")
		h.TimeZone = "UTC"
		h.Day = at.Day()
		h.Month = int(at.Month())
		h.Year = at.Year()
	}
	return h
}

func splitBoard(board []poker.Card) [][]poker.Card {
	var streets [][]poker.Card
	if len(board) >= 3 {
		streets = append(streets, board[:3])
	}
	for i := 3; i < len(board) && i < 5; i++ {
		streets = append(streets, board[i:i+1])
	}
	return streets
}

// Encode writes the hand history to w as a TOML document.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeAll writes hands as a .phhs stream with numbered sections starting
// at [1].
func EncodeAll(w io.Writer, hands []*HandHistory) error {
	for i, hand := range hands {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", i+1); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return fmt.Errorf("phh: hand %d: %w", i+1, err)
		}
	}
	return nil
}

// DecodeAll reads a .phhs stream and returns its hands in section order.
func DecodeAll(r io.Reader) ([]*HandHistory, error) {
	var sections map[string]HandHistory
	if _, err := toml.NewDecoder(r).Decode(&sections); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}

	type section struct {
		n    int
		hand *HandHistory
	}
	ordered := make([]section, 0, len(sections))
	for k, hand := range sections {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("phh: section %q is not a hand number", k)
		}
		ordered = append(ordered, section{n, &hand})
	}
	slices.SortFunc(ordered, func(a, b section) int { return a.n - b.n })

	hands := make([]*HandHistory, 0, len(ordered))
	for _, s := range ordered {
		hands = append(hands, s.hand)
	}
	return hands, nil
}

// WriteFile replaces path with hands encoded as a .phhs file.
func WriteFile(path string, hands []*HandHistory) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeAll(w, hands)
	})
}

// ReadFile decodes the .phhs file at path.
func ReadFile(path string) ([]*HandHistory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeAll(f)
}
