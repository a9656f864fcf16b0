package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/threesixnine/internal/lobby"
	"github.com/lox/threesixnine/internal/phh"
	"github.com/lox/threesixnine/poker"
)

// HistoryCmd prints hands from a PHH session file.
type HistoryCmd struct {
	File    string `arg:"" type:"existingfile" help:"Path to a .phhs file"`
	Limit   int    `help:"Maximum number of hands to show (0 = all)"`
	Actions bool   `help:"Include the raw PHH action lines"`
}

func (c *HistoryCmd) Run() error {
	hands, err := phh.ReadFile(c.File)
	if err != nil {
		return err
	}
	if len(hands) == 0 {
		return errors.New("no hands found in " + c.File)
	}
	limit := c.Limit
	if limit <= 0 || limit > len(hands) {
		limit = len(hands)
	}
	for i, h := range hands[:limit] {
		if i > 0 {
			fmt.Println()
		}
		if err := printHand(os.Stdout, i+1, h, c.Actions); err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
	}
	return nil
}

func printHand(w io.Writer, n int, h *phh.HandHistory, actions bool) error {
	board, err := h.Board()
	if err != nil {
		return err
	}
	shown, err := h.Shown()
	if err != nil {
		return err
	}

	blinds := ""
	if len(h.BlindsOrStraddles) >= 2 {
		blinds = lobby.FormatStakes(h.BlindsOrStraddles[0], h.BlindsOrStraddles[1])
	}
	fmt.Fprintf(w, "#%d %s  %s  %s", n, h.Table, blinds, h.HandID)
	if h.Year > 0 {
		fmt.Fprintf(w, "  %04d-%02d-%02d %s %s", h.Year, h.Month, h.Day, h.Time, h.TimeZone)
	}
	fmt.Fprintln(w)
	if len(board) > 0 {
		fmt.Fprintf(w, "  board %s\n", poker.FormatCards(board))
	}

	for i, name := range h.Players {
		idx := i + 1
		line := fmt.Sprintf("  p%d %-18s %s", idx, name, lobby.FormatChips(h.StartingStacks[i]))
		if i < len(h.FinishingStacks) {
			line += " -> " + lobby.FormatChips(h.FinishingStacks[i])
		}
		if cards, ok := shown[idx]; ok {
			line += "  shows " + poker.FormatCards(cards)
			if rank, err := poker.EvaluateCards(cards, board); err == nil {
				line += " (" + rank.Type().String() + ")"
			}
		}
		if i < len(h.Winnings) && h.Winnings[i] > 0 {
			line += "  wins " + lobby.FormatChips(h.Winnings[i])
		}
		fmt.Fprintln(w, line)
	}

	if actions {
		fmt.Fprintf(w, "  %s\n", strings.Join(h.Actions, "\n  "))
	}
	return nil
}
