package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/internal/lobby"
	"github.com/lox/threesixnine/internal/phh"
	"github.com/lox/threesixnine/internal/randutil"
	"github.com/lox/threesixnine/internal/statistics"
)

// SimulateCmd plays house bots against each other at every table in
// parallel.
type SimulateCmd struct {
	Hands      int      `default:"1000" help:"Hands to play at each table"`
	Seed       int64    `help:"Seed for a reproducible run (0 for random)"`
	Table      []string `help:"Only simulate the named tables"`
	HistoryDir string   `type:"path" help:"Write one .phhs hand history per table into this directory"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	if c.Hands <= 0 {
		return fmt.Errorf("--hands must be positive, got %d", c.Hands)
	}
	cfg, logger, err := g.load("")
	if err != nil {
		return err
	}
	lc, err := cfg.LobbyConfig()
	if err != nil {
		return err
	}
	if lc.Tables, err = selectTables(lc.Tables, c.Table); err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.NewRandom().Int64()
	}
	logger.Info("simulation starting", "tables", len(lc.Tables), "hands", c.Hands, "seed", seed)

	sim := &simulation{
		tracker:   statistics.NewTracker(),
		histories: make(map[string][]*phh.HandHistory),
		record:    c.HistoryDir != "",
	}
	l, err := lobby.New(lc, nil,
		lobby.WithLogger(logger),
		lobby.WithSeed(seed),
		lobby.WithHandCompleteHook(sim.onHand),
	)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	start := time.Now()
	if err := runTables(ctx, l, c.Hands, logger); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if sim.record {
		if err := sim.writeHistories(c.HistoryDir, l.Tables(), logger); err != nil {
			return err
		}
	}
	writeReport(os.Stdout, sim.tracker, elapsed)
	return nil
}

// runTables plays up to hands hands at every table concurrently. A table
// stops early once fewer than two bots have chips.
func runTables(ctx context.Context, l *lobby.Lobby, hands int, logger *log.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, t := range l.Tables() {
		eg.Go(func() error {
			if _, err := l.SeatBots(t.ID()); err != nil {
				return fmt.Errorf("table %q: %w", t.Name(), err)
			}
			for i := 0; i < hands; i++ {
				if !t.Game().Ready() {
					logger.Info("table finished early", "table", t.Name(), "hands", i)
					return nil
				}
				if err := t.PlayHand(ctx); err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return fmt.Errorf("table %q hand %d: %w", t.Name(), i+1, err)
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

func selectTables(all []lobby.TableSpec, names []string) ([]lobby.TableSpec, error) {
	if len(names) == 0 {
		return all, nil
	}
	var out []lobby.TableSpec
	for _, name := range names {
		found := false
		for _, spec := range all {
			if strings.EqualFold(spec.Name, name) {
				out = append(out, spec)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", lobby.ErrUnknownTable, name)
		}
	}
	return out, nil
}

type simulation struct {
	tracker *statistics.Tracker
	record  bool

	mu        sync.Mutex
	histories map[string][]*phh.HandHistory
}

func (s *simulation) onHand(t *lobby.Table, summary game.HandSummary) {
	s.tracker.Record(summary)
	if !s.record {
		return
	}
	h := phh.FromSummary(t.Game().Config(), summary)
	s.mu.Lock()
	s.histories[t.ID()] = append(s.histories[t.ID()], h)
	s.mu.Unlock()
}

func (s *simulation) writeHistories(dir string, tables []*lobby.Table, logger *log.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tables {
		hands := s.histories[t.ID()]
		if len(hands) == 0 {
			continue
		}
		path := filepath.Join(dir, slug(t.Name())+".phhs")
		if err := phh.WriteFile(path, hands); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Info("hand history written", "table", t.Name(), "hands", len(hands), "path", path)
	}
	return nil
}

// slug turns a table name into a file name: "Tesla's Laboratory" becomes
// "teslas-laboratory".
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case r == '\'':
		default:
			dash = true
		}
	}
	if b.Len() == 0 {
		return "table"
	}
	return b.String()
}

func writeReport(w io.Writer, tracker *statistics.Tracker, elapsed time.Duration) {
	hands := tracker.Hands()
	fmt.Fprintf(w, "%d hands in %s", hands, elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, " (%.0f hands/sec)", float64(hands)/secs)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PLAYER\tHANDS\tNET\tBB/100\tSTDDEV\t95% CI\tMEDIAN\tSD WINS\tNSD WINS\tSACRED BB/100\t")
	for _, r := range tracker.Reports() {
		s := r.Stats
		lo, hi := s.ConfidenceInterval95()
		fmt.Fprintf(tw, "%s\t%d\t%s\t%+.1f\t%.2f\t[%+.1f, %+.1f]\t%+.2f\t%d\t%d\t%+.1f\t\n",
			r.Name, s.Hands, lobby.FormatChips(r.Net), s.BB100(), s.StdDev(),
			lo*100, hi*100, s.Median(), s.ShowdownWins, s.NonShowdownWins, s.SacredCards.Mean()*100)
	}
	tw.Flush()
}
