package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lox/threesixnine/internal/bot"
	"github.com/lox/threesixnine/internal/lobby"
)

// LobbyCmd prints the configured tables.
type LobbyCmd struct {
	Bots bool `help:"Seat the house bots before listing"`
}

func (c *LobbyCmd) Run(g *Globals) error {
	cfg, logger, err := g.load("")
	if err != nil {
		return err
	}
	lc, err := cfg.LobbyConfig()
	if err != nil {
		return err
	}
	l, err := lobby.New(lc, nil, lobby.WithLogger(logger))
	if err != nil {
		return err
	}
	if c.Bots {
		for _, t := range l.Tables() {
			if _, err := l.SeatBots(t.ID()); err != nil {
				return fmt.Errorf("table %q: %w", t.Name(), err)
			}
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tSTAKES\tSEATS\tPHASE\tBOTS")
	for i, s := range l.List() {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\n",
			s.Name, s.Stakes, s.Seated, s.MaxSeats, s.Phase, strings.Join(lc.Tables[i].Bots, ", "))
	}
	return w.Flush()
}

// BotsCmd prints the house bot roster.
type BotsCmd struct{}

func (c *BotsCmd) Run() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPERSONALITY\tBANKROLL\tQUOTE")
	for _, ch := range bot.Roster {
		fmt.Fprintf(w, "%s\t%s\t%s\t%q\n", ch.Name, ch.Personality, lobby.FormatChips(ch.Bankroll), ch.Quote)
	}
	return w.Flush()
}
