package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/internal/lobby"
	"github.com/lox/threesixnine/internal/session"
	"github.com/lox/threesixnine/poker"
)

// PlayCmd seats a local account at a table with the house bots and reads
// actions from standard input.
type PlayCmd struct {
	Table string `default:"Tesla's Laboratory" help:"Table to sit at"`
	Name  string `default:"Player" help:"Display name"`
	Hands int    `help:"Stop after N hands (0 plays until you quit or bust)"`
	Seed  int64  `help:"Seed for a reproducible session (0 for random)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, logger, err := g.load("warn")
	if err != nil {
		return err
	}
	sc, err := cfg.SessionConfig()
	if err != nil {
		return err
	}
	lc, err := cfg.LobbyConfig()
	if err != nil {
		return err
	}

	store, err := session.New(sc, session.WithLogger(logger))
	if err != nil {
		return err
	}
	password := uuid.NewString()
	if _, err := store.Register("local", c.Name, password); err != nil {
		return err
	}
	token, _, err := store.Login("local", password)
	if err != nil {
		return err
	}
	me, err := store.Authenticate(token)
	if err != nil {
		return err
	}

	opts := []lobby.Option{lobby.WithLogger(logger)}
	if c.Seed != 0 {
		opts = append(opts, lobby.WithSeed(c.Seed))
	}
	l, err := lobby.New(lc, store, opts...)
	if err != nil {
		return err
	}
	table, err := findTable(l, c.Table)
	if err != nil {
		return err
	}
	seat, err := l.Join(table.ID(), me.ID, game.AnySeat)
	if err != nil {
		return err
	}
	if _, err := l.SeatBots(table.ID()); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	s := &playSession{
		table:  table,
		seat:   seat,
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		logger: logger,
	}
	fmt.Fprintf(s.out, "%s sits at %s (%s) in seat %d with %s\n",
		me.DisplayName, table.Name(), lobby.FormatStakes(table.Game().Config().SmallBlind, table.Game().Config().BigBlind),
		seat+1, lobby.FormatChips(me.ChipBalance))
	playErr := s.run(ctx, c.Hands)

	if err := l.Leave(me.ID); err != nil {
		return err
	}
	final, err := store.Profile(me.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s leaves with %s (%+d cents)\n", final.DisplayName,
		lobby.FormatChips(final.ChipBalance), final.ChipBalance-me.ChipBalance)
	if errors.Is(playErr, errQuit) || errors.Is(playErr, context.Canceled) {
		return nil
	}
	return playErr
}

func findTable(l *lobby.Lobby, name string) (*lobby.Table, error) {
	for _, t := range l.Tables() {
		if strings.EqualFold(t.Name(), name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", lobby.ErrUnknownTable, name)
}

var errQuit = errors.New("quit")

type playSession struct {
	table  *lobby.Table
	seat   int
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Logger
}

func (s *playSession) run(ctx context.Context, hands int) error {
	g := s.table.Game()
	for played := 0; hands == 0 || played < hands; played++ {
		if me := g.Seat(s.seat); me == nil || me.Chips == 0 {
			fmt.Fprintln(s.out, "You are out of chips.")
			return nil
		}
		if !g.Ready() {
			fmt.Fprintln(s.out, "Not enough players with chips to deal.")
			return nil
		}
		if err := g.StartNewHand(); err != nil {
			return err
		}
		if err := s.playHand(ctx); err != nil {
			return err
		}
		s.printResult()
	}
	return nil
}

func (s *playSession) playHand(ctx context.Context) error {
	g := s.table.Game()
	for {
		if err := s.table.Bots().Run(ctx); err != nil {
			return err
		}
		st := g.State(s.seat)
		if !st.Phase.Betting() {
			return nil
		}
		if st.CurrentPlayer != s.seat {
			continue
		}
		s.printState(st)

		action, amount, err := s.prompt(g.ValidActions(s.seat))
		if err != nil {
			return err
		}
		if err := g.Act(s.seat, action, amount); err != nil {
			if errors.Is(err, game.ErrOutOfTurn) || errors.Is(err, game.ErrIllegalAction) && !g.State(s.seat).Phase.Betting() {
				fmt.Fprintln(s.out, "Too slow: the clock folded your hand.")
				continue
			}
			fmt.Fprintf(s.out, "%v\n", err)
		}
	}
}

// prompt reads one action line such as "call", "raise 4" or "q".
func (s *playSession) prompt(valid []game.ValidAction) (game.Action, int, error) {
	var opts []string
	for _, va := range valid {
		switch va.Action {
		case game.Raise:
			opts = append(opts, fmt.Sprintf("raise %d-%d", va.MinAmount, va.MaxAmount))
		case game.Call, game.AllIn:
			opts = append(opts, fmt.Sprintf("%s %d", va.Action, va.MinAmount))
		default:
			opts = append(opts, va.Action.String())
		}
	}
	for {
		fmt.Fprintf(s.out, "[%s] > ", strings.Join(opts, " | "))
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return game.Fold, 0, err
			}
			return game.Fold, 0, errQuit
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "q" || fields[0] == "quit" {
			return game.Fold, 0, errQuit
		}
		action, err := game.ParseAction(fields[0])
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		amount := 0
		if action == game.Raise {
			if len(fields) < 2 {
				fmt.Fprintln(s.out, "raise needs an amount above the current bet")
				continue
			}
			if amount, err = strconv.Atoi(fields[1]); err != nil {
				fmt.Fprintf(s.out, "bad amount %q\n", fields[1])
				continue
			}
		}
		if !game.Allows(valid, action, amount) {
			fmt.Fprintf(s.out, "%s is not allowed here\n", action)
			continue
		}
		return action, amount, nil
	}
}

func (s *playSession) printState(st game.State) {
	fmt.Fprintf(s.out, "\n-- hand %d %s  pot %s", st.HandNumber, st.Phase, lobby.FormatChips(st.Pot))
	if len(st.Board) > 0 {
		fmt.Fprintf(s.out, "  board %s", poker.FormatCards(st.Board))
	}
	fmt.Fprintln(s.out)
	for _, seat := range st.Seats {
		if seat.Empty || !seat.InHand {
			continue
		}
		marker := " "
		if seat.Seat == st.CurrentPlayer {
			marker = ">"
		}
		status := ""
		switch {
		case seat.Folded:
			status = " folded"
		case seat.AllIn:
			status = " all-in"
		}
		cards := ""
		if len(seat.Cards) > 0 {
			cards = "  " + poker.FormatCards(seat.Cards)
		}
		fmt.Fprintf(s.out, "%s %-18s %8s  bet %-6s%s%s\n", marker, seat.Name,
			lobby.FormatChips(seat.Chips), lobby.FormatChips(seat.Bet), status, cards)
	}
	if toCall := st.ToCall(s.seat); toCall > 0 {
		fmt.Fprintf(s.out, "%s to call", lobby.FormatChips(toCall))
		if st.TimeRemaining > 0 {
			fmt.Fprintf(s.out, ", %s on the clock", st.TimeRemaining.Round(time.Second))
		}
		fmt.Fprintln(s.out)
	}
}

func (s *playSession) printResult() {
	history := s.table.Game().History()
	if len(history) == 0 {
		return
	}
	last := history[len(history)-1]
	if len(last.Board) > 0 {
		fmt.Fprintf(s.out, "board %s\n", poker.FormatCards(last.Board))
	}
	for _, p := range last.Players {
		if p.Revealed {
			fmt.Fprintf(s.out, "  %s shows %s (%s)\n", p.Name, poker.FormatCards(p.Cards), p.HandRank)
		}
	}
	for _, w := range last.Winners() {
		fmt.Fprintf(s.out, "%s wins %s\n", w.Name, lobby.FormatChips(w.Won))
	}
}
