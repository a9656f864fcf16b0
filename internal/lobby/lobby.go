// Package lobby runs a set of tables for registered accounts and house bots.
// While an account is seated its store balance mirrors its table stack.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/threesixnine/internal/bot"
	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/internal/randutil"
	"github.com/lox/threesixnine/internal/session"
)

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrAlreadySeated = errors.New("account is already seated")
	ErrNotSeated     = errors.New("account is not seated")
	ErrNoChips       = errors.New("account has no chips")
)

// DefaultBotBuyIn is the bot buy-in in big blinds.
const DefaultBotBuyIn = 100

// TableSpec describes one lobby table. Blinds are in cents.
type TableSpec struct {
	Name          string
	SmallBlind    int
	BigBlind      int
	MaxSeats      int
	ActionTimeout time.Duration
	// Bots are house bot names from the roster seated by SeatBots.
	Bots []string
}

// Config lists the lobby tables.
type Config struct {
	Tables []TableSpec
	// BotBuyIn is the bot stack in big blinds, capped by the bot's bankroll.
	BotBuyIn int
}

// DefaultConfig returns the four cash tables of the house.
func DefaultConfig() Config {
	return Config{
		BotBuyIn: DefaultBotBuyIn,
		Tables: []TableSpec{
			{"Tesla's Laboratory", 1, 2, 9, game.DefaultActionTimeout, []string{"WirelessWisdom", "FrequencyFold", "EnergyEmpath"}},
			{"Wardenclyffe Tower", 5, 10, 6, game.DefaultActionTimeout, []string{"ElectroMaster369", "CosmicCalculator"}},
			{"Colorado Springs", 25, 50, 9, game.DefaultActionTimeout, []string{"ThunderStrike369", "VibrationViper", "QuantumQueen"}},
			{"Niagara Falls Power", 100, 200, 8, game.DefaultActionTimeout, []string{"ElectroMaster369", "CosmicCalculator", "QuantumQueen"}},
		},
	}
}

// Validate checks every table and its bots.
func (c Config) Validate() error {
	if len(c.Tables) == 0 {
		return errors.New("at least one table must be configured")
	}
	if c.BotBuyIn < 0 {
		return fmt.Errorf("bot buy-in must not be negative, got %d", c.BotBuyIn)
	}
	names := make(map[string]bool)
	for _, spec := range c.Tables {
		if spec.Name == "" {
			return errors.New("table name is required")
		}
		if names[spec.Name] {
			return fmt.Errorf("table %q: duplicate name", spec.Name)
		}
		names[spec.Name] = true
		if err := spec.gameConfig().Validate(); err != nil {
			return fmt.Errorf("table %q: %w", spec.Name, err)
		}
		if len(spec.Bots) >= spec.MaxSeats {
			return fmt.Errorf("table %q: %d bots leave no seat for players", spec.Name, len(spec.Bots))
		}
		for _, name := range spec.Bots {
			if _, ok := bot.Lookup(name); !ok {
				return fmt.Errorf("table %q: unknown bot %q", spec.Name, name)
			}
		}
	}
	return nil
}

func (s TableSpec) gameConfig() game.Config {
	return game.Config{
		Name:          s.Name,
		MaxSeats:      s.MaxSeats,
		SmallBlind:    s.SmallBlind,
		BigBlind:      s.BigBlind,
		ActionTimeout: s.ActionTimeout,
	}
}

// Summary is one row of the lobby listing.
type Summary struct {
	ID         string
	Name       string
	Stakes     string
	SmallBlind int
	BigBlind   int
	Seated     int
	MaxSeats   int
	Phase      game.Phase
	Pot        int
	HandNumber int
}

// Option configures a Lobby.
type Option func(*Lobby)

// WithLogger sets the lobby logger, shared with its tables and bots.
func WithLogger(logger *log.Logger) Option {
	return func(l *Lobby) { l.logger = logger }
}

// WithClock sets the clock driving table decision deadlines.
func WithClock(clock quartz.Clock) Option {
	return func(l *Lobby) { l.clock = clock }
}

// WithSeed makes shuffles and bot choices reproducible.
func WithSeed(seed int64) Option {
	return func(l *Lobby) { l.seed = &seed }
}

// WithHandCompleteHook registers a callback run after every hand at every
// table, after balances are settled.
func WithHandCompleteHook(hook func(*Table, game.HandSummary)) Option {
	return func(l *Lobby) { l.hooks = append(l.hooks, hook) }
}

// Table is a lobby table: the engine table and the driver for its bots.
type Table struct {
	spec   TableSpec
	game   *game.Table
	driver *bot.Driver
	rng    *rand.Rand
}

// ID returns the table ID.
func (t *Table) ID() string { return t.game.ID() }

// Name returns the table name.
func (t *Table) Name() string { return t.spec.Name }

// Game returns the engine table.
func (t *Table) Game() *game.Table { return t.game }

// Bots returns the driver playing the table's bot seats.
func (t *Table) Bots() *bot.Driver { return t.driver }

// PlayHand starts a hand and lets the bots act until a human holds the action
// or the hand is over.
func (t *Table) PlayHand(ctx context.Context) error {
	if err := t.game.StartNewHand(); err != nil {
		return err
	}
	return t.driver.Run(ctx)
}

// Lobby owns the tables and tracks which table each account sits at.
type Lobby struct {
	store  *session.Store
	logger *log.Logger
	clock  quartz.Clock
	seed   *int64
	hooks  []func(*Table, game.HandSummary)
	cfg    Config

	tables []*Table
	byID   map[string]*Table

	mu       sync.Mutex
	seatedAt map[string]string
}

// New creates one table per configured spec. store may be nil for bot-only
// lobbies, in which case Join is unavailable.
func New(cfg Config, store *session.Store, opts ...Option) (*Lobby, error) {
	if cfg.BotBuyIn == 0 {
		cfg.BotBuyIn = DefaultBotBuyIn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Lobby{
		store:    store,
		clock:    quartz.NewReal(),
		cfg:      cfg,
		byID:     make(map[string]*Table),
		seatedAt: make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}

	for i, spec := range cfg.Tables {
		t := &Table{spec: spec}
		var tableRNG *rand.Rand
		if l.seed != nil {
			tableRNG = randutil.Derive(*l.seed, 2*i)
			t.rng = randutil.Derive(*l.seed, 2*i+1)
		} else {
			tableRNG = randutil.NewRandom()
			t.rng = randutil.NewRandom()
		}

		g, err := game.NewTable(spec.gameConfig(),
			game.WithID(uuid.NewString()),
			game.WithRNG(tableRNG),
			game.WithClock(l.clock),
			game.WithLogger(l.logger),
			game.WithHandCompleteHook(func(s game.HandSummary) { l.settle(t, s) }),
		)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", spec.Name, err)
		}
		t.game = g
		t.driver = bot.NewDriver(g, l.logger)
		l.tables = append(l.tables, t)
		l.byID[g.ID()] = t
	}
	l.logger = l.logger.WithPrefix("lobby")
	return l, nil
}

// Tables returns the lobby tables in configuration order.
func (l *Lobby) Tables() []*Table {
	return append([]*Table(nil), l.tables...)
}

// Table returns the table with id.
func (l *Lobby) Table(id string) (*Table, error) {
	t, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, id)
	}
	return t, nil
}

// List summarises every table.
func (l *Lobby) List() []Summary {
	out := make([]Summary, 0, len(l.tables))
	for _, t := range l.tables {
		st := t.game.State(game.Spectator)
		seated := 0
		for _, s := range st.Seats {
			if !s.Empty {
				seated++
			}
		}
		out = append(out, Summary{
			ID:         t.ID(),
			Name:       t.spec.Name,
			Stakes:     FormatStakes(t.spec.SmallBlind, t.spec.BigBlind),
			SmallBlind: t.spec.SmallBlind,
			BigBlind:   t.spec.BigBlind,
			Seated:     seated,
			MaxSeats:   t.spec.MaxSeats,
			Phase:      st.Phase,
			Pot:        st.Pot,
			HandNumber: st.HandNumber,
		})
	}
	return out
}

// Join seats the account at tableID with its whole balance as its stack and
// returns the seat. Use game.AnySeat for the first free seat.
func (l *Lobby) Join(tableID, accountID string, seat int) (int, error) {
	if l.store == nil {
		return -1, errors.New("lobby has no account store")
	}
	t, err := l.Table(tableID)
	if err != nil {
		return -1, err
	}
	profile, err := l.store.Profile(accountID)
	if err != nil {
		return -1, err
	}
	if profile.ChipBalance <= 0 {
		return -1, fmt.Errorf("%w: %s", ErrNoChips, profile.Username)
	}

	l.mu.Lock()
	if other, ok := l.seatedAt[accountID]; ok {
		l.mu.Unlock()
		return -1, fmt.Errorf("%w at table %s", ErrAlreadySeated, other)
	}
	l.seatedAt[accountID] = tableID
	l.mu.Unlock()

	seat, err = t.game.AddPlayer(game.NewPlayer(accountID, profile.DisplayName, profile.ChipBalance), seat)
	if err != nil {
		l.mu.Lock()
		delete(l.seatedAt, accountID)
		l.mu.Unlock()
		return -1, err
	}
	l.logger.Info("account joined", "table", t.spec.Name, "account", accountID, "seat", seat, "chips", profile.ChipBalance)
	return seat, nil
}

// Leave unseats the account, folding it out of any running hand, and writes
// its stack back to the store.
func (l *Lobby) Leave(accountID string) error {
	l.mu.Lock()
	tableID, ok := l.seatedAt[accountID]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSeated, accountID)
	}
	t := l.byID[tableID]

	var chips int
	if seat, ok := t.game.SeatOf(accountID); ok {
		if p := t.game.Seat(seat); p != nil {
			chips = p.Chips
		}
	}
	removeErr := t.game.RemovePlayer(accountID)

	l.mu.Lock()
	delete(l.seatedAt, accountID)
	l.mu.Unlock()

	if err := l.store.SetBalance(accountID, chips); err != nil {
		return err
	}
	l.logger.Info("account left", "table", t.spec.Name, "account", accountID, "chips", chips)
	if removeErr != nil && !errors.Is(removeErr, game.ErrEngineInternal) {
		return removeErr
	}
	return nil
}

// SeatedAt returns the table the account sits at.
func (l *Lobby) SeatedAt(accountID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.seatedAt[accountID]
	return id, ok
}

// SeatBots seats the table's configured house bots that are not already
// seated and returns how many sat down.
func (l *Lobby) SeatBots(tableID string) (int, error) {
	t, err := l.Table(tableID)
	if err != nil {
		return 0, err
	}
	seated := 0
	for _, name := range t.spec.Bots {
		c, _ := bot.Lookup(name)
		if _, ok := t.game.SeatOf(c.ID()); ok {
			continue
		}
		p := game.NewPlayer(c.ID(), c.Name, min(c.Bankroll, l.cfg.BotBuyIn*t.spec.BigBlind))
		p.Bot = true
		seat, err := t.game.AddPlayer(p, game.AnySeat)
		if err != nil {
			return seated, fmt.Errorf("seating %s: %w", c.Name, err)
		}
		t.driver.Add(c.ID(), c.Policy(t.rng))
		seated++
		l.logger.Debug("bot seated", "table", t.spec.Name, "bot", c.Name, "seat", seat, "chips", p.Chips)
	}
	return seated, nil
}

// settle mirrors the final stacks of seated accounts into the store. It runs
// as a table hook, outside the table lock.
func (l *Lobby) settle(t *Table, s game.HandSummary) {
	if l.store != nil {
		for _, p := range s.Players {
			l.mu.Lock()
			here := l.seatedAt[p.ID] == t.ID()
			l.mu.Unlock()
			if !here {
				continue
			}
			if err := l.store.SetBalance(p.ID, p.FinalChips); err != nil {
				l.logger.Error("settling balance", "table", t.spec.Name, "account", p.ID, "error", err)
			}
		}
	}
	for _, hook := range l.hooks {
		hook(t, s)
	}
}
