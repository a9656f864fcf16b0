package game

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/threesixnine/internal/randutil"
	"github.com/lox/threesixnine/poker"
)

const (
	// MinSeats and MaxSeats bound the size of a table.
	MinSeats = 2
	MaxSeats = 9

	// AnySeat asks AddPlayer for the lowest empty seat.
	AnySeat = -1

	// DefaultActionTimeout is the decision budget used by DefaultConfig.
	DefaultActionTimeout = 30 * time.Second
)

// Config holds the static settings of a table.
type Config struct {
	Name       string
	MaxSeats   int
	SmallBlind int
	BigBlind   int
	// ActionTimeout is how long a seat may hold the action before it is folded.
	// Zero disables the deadline.
	ActionTimeout time.Duration
}

// DefaultConfig returns a nine-seat table with 1/2 blinds and a 30s timeout.
func DefaultConfig() Config {
	return Config{
		Name:          "Three Six Nine",
		MaxSeats:      MaxSeats,
		SmallBlind:    1,
		BigBlind:      2,
		ActionTimeout: DefaultActionTimeout,
	}
}

// Validate checks the table configuration.
func (c Config) Validate() error {
	if c.MaxSeats < MinSeats || c.MaxSeats > MaxSeats {
		return fmt.Errorf("max seats must be between %d and %d, got %d", MinSeats, MaxSeats, c.MaxSeats)
	}
	if c.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	}
	if c.BigBlind < c.SmallBlind {
		return fmt.Errorf("big blind %d is below small blind %d", c.BigBlind, c.SmallBlind)
	}
	if c.ActionTimeout < 0 {
		return fmt.Errorf("action timeout must not be negative, got %s", c.ActionTimeout)
	}
	return nil
}

// DeckFactory builds the deck for a new hand.
type DeckFactory func(rng *rand.Rand) (*poker.Deck, error)

func shuffledDeck(rng *rand.Rand) (*poker.Deck, error) {
	return poker.NewDeck(rng), nil
}

// Option configures a Table.
type Option func(*Table)

// WithRNG sets the random source used for shuffling.
func WithRNG(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithSeed seeds the shuffle deterministically.
func WithSeed(seed int64) Option {
	return func(t *Table) { t.rng = randutil.New(seed) }
}

// WithClock sets the clock that drives decision deadlines.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithLogger sets the table logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithDeckFactory replaces the shuffled deck, mostly for stacked test decks.
func WithDeckFactory(f DeckFactory) Option {
	return func(t *Table) { t.newDeck = f }
}

// WithHandCompleteHook registers a callback run after every completed hand.
// The hook runs without the table lock held, so it may call back into the table.
func WithHandCompleteHook(hook func(HandSummary)) Option {
	return func(t *Table) { t.onHandComplete = append(t.onHandComplete, hook) }
}

// WithID sets the table ID. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(t *Table) { t.id = id }
}

// Table is a single poker table. All methods are safe for concurrent use.
type Table struct {
	mu sync.Mutex

	id             string
	cfg            Config
	rng            *rand.Rand
	clock          quartz.Clock
	logger         *log.Logger
	newDeck        DeckFactory
	onHandComplete []func(HandSummary)

	seats  []*Player
	dealer int
	actor  int
	sbSeat int
	bbSeat int

	phase      Phase
	handNumber int
	handID     string
	deck       *poker.Deck
	board      []poker.Card
	pot        int
	currentBet int
	minRaise   int

	// participants are the players dealt into the hand, clockwise from the
	// dealer's left. Removed players stay here until the hand ends.
	participants []*Player
	actions      []ActionRecord
	revealed     map[int]bool
	history      []HandSummary
	completed    []HandSummary

	decisionSeq uint64
	timer       *quartz.Timer
	deadline    time.Time
}

// NewTable validates cfg and returns an empty table.
func NewTable(cfg Config, opts ...Option) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		cfg:      cfg,
		clock:    quartz.NewReal(),
		newDeck:  shuffledDeck,
		seats:    make([]*Player, cfg.MaxSeats),
		dealer:   -1,
		actor:    -1,
		sbSeat:   -1,
		bbSeat:   -1,
		minRaise: cfg.BigBlind,
		revealed: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.id == "" {
		t.id = uuid.NewString()
	}
	if t.rng == nil {
		t.rng = randutil.NewRandom()
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	t.logger = t.logger.WithPrefix("table").With("table", t.id)
	return t, nil
}

// ID returns the table ID.
func (t *Table) ID() string {
	return t.id
}

// Config returns the table configuration.
func (t *Table) Config() Config {
	return t.cfg
}

// AddPlayer seats p at seat, or at the lowest empty seat for AnySeat, and
// returns the seat used.
func (t *Table) AddPlayer(p *Player, seat int) (int, error) {
	if p == nil || p.ID == "" {
		return -1, fmt.Errorf("%w: player must have an ID", ErrInvalidSeat)
	}
	if p.Chips < 0 {
		return -1, fmt.Errorf("%w: negative stack %d", ErrInvalidSeat, p.Chips)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, other := range t.seats {
		if other != nil && other.ID == p.ID {
			return -1, fmt.Errorf("%w: player %q already seated at %d", ErrInvalidSeat, p.ID, other.Seat)
		}
	}

	if seat == AnySeat {
		seat = -1
		for i, other := range t.seats {
			if other == nil {
				seat = i
				break
			}
		}
		if seat < 0 {
			return -1, fmt.Errorf("%w: table is full", ErrInvalidSeat)
		}
	} else {
		if seat < 0 || seat >= len(t.seats) {
			return -1, fmt.Errorf("%w: seat %d out of range 0-%d", ErrInvalidSeat, seat, len(t.seats)-1)
		}
		if t.seats[seat] != nil {
			return -1, fmt.Errorf("%w: seat %d is occupied", ErrInvalidSeat, seat)
		}
	}

	p.resetForHand()
	p.Seat = seat
	t.seats[seat] = p
	t.logger.Info("player seated", "player", p.ID, "seat", seat, "chips", p.Chips)
	return seat, nil
}

// RemovePlayer vacates the player's seat. A player still in a running hand is
// folded first; chips already committed stay in the pot.
func (t *Table) RemovePlayer(id string) error {
	t.mu.Lock()
	err := t.removePlayerLocked(id)
	done := t.takeCompleted()
	t.mu.Unlock()
	t.notify(done)
	return err
}

func (t *Table) removePlayerLocked(id string) error {
	seat := -1
	for i, p := range t.seats {
		if p != nil && p.ID == id {
			seat = i
			break
		}
	}
	if seat < 0 {
		return fmt.Errorf("%w: player %q is not seated", ErrInvalidSeat, id)
	}
	p := t.seats[seat]

	var err error
	if t.phase.Betting() && p.Live() {
		if seat == t.actor {
			err = t.actLocked(seat, Fold, 0, false)
		} else {
			err = t.foldAbsent(p)
		}
	}

	t.seats[seat] = nil
	p.Seat = -1
	t.logger.Info("player left", "player", id, "seat", seat, "chips", p.Chips)
	return err
}

// foldAbsent folds a player who does not hold the action.
func (t *Table) foldAbsent(p *Player) error {
	p.Folded = true
	t.record(p, Fold, 0, false)
	if t.liveCount() == 1 {
		return t.finishUncontested()
	}
	if t.roundComplete() {
		return t.closeRound()
	}
	return nil
}

// Seat returns a copy of the player at seat, or nil when it is empty.
func (t *Table) Seat(seat int) *Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seat < 0 || seat >= len(t.seats) || t.seats[seat] == nil {
		return nil
	}
	cp := *t.seats[seat]
	cp.Cards = append([]poker.Card(nil), cp.Cards...)
	return &cp
}

// SeatOf returns the seat of the player with id.
func (t *Table) SeatOf(id string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, p := range t.seats {
		if p != nil && p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// SeatedCount returns the number of occupied seats.
func (t *Table) SeatedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, p := range t.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// Phase returns the current hand phase.
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// HandNumber returns the number of the current or last hand.
func (t *Table) HandNumber() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handNumber
}

// Ready reports whether a new hand may be started.
func (t *Table) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.phase.Betting() && t.eligibleCount() >= 2
}

// History returns the completed hand summaries, oldest first.
func (t *Table) History() []HandSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]HandSummary(nil), t.history...)
}

// nextSeat returns the first seat clockwise after from whose player satisfies
// pred, or -1.
func (t *Table) nextSeat(from int, pred func(*Player) bool) int {
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		seat := ((from+i)%n + n) % n
		if p := t.seats[seat]; p != nil && pred(p) {
			return seat
		}
	}
	return -1
}

func hasChips(p *Player) bool { return p.Chips > 0 }

func (t *Table) eligibleCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && hasChips(p) {
			n++
		}
	}
	return n
}

func (t *Table) liveCount() int {
	n := 0
	for _, p := range t.participants {
		if p.Live() {
			n++
		}
	}
	return n
}

// takeCompleted hands back summaries finished under the lock so hooks can run
// after it is released.
func (t *Table) takeCompleted() []HandSummary {
	done := t.completed
	t.completed = nil
	return done
}

func (t *Table) notify(done []HandSummary) {
	for _, s := range done {
		for _, hook := range t.onHandComplete {
			hook(s)
		}
	}
}
