// Package session is the in-memory account store: registration, Argon2id
// password checks, HS256 session tokens and chip balances.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	// DefaultStartingChips is $1000 in cents.
	DefaultStartingChips = 100_000
	DefaultTokenTTL      = 24 * time.Hour

	minPasswordLength = 6
	maxUsernameLength = 32
)

// Config configures a Store.
type Config struct {
	// StartingChips is credited to new accounts; zero means DefaultStartingChips.
	StartingChips int
	// TokenTTL bounds session token lifetime; zero issues tokens without expiry.
	TokenTTL time.Duration
	// Secret signs session tokens. A random secret is generated when empty.
	Secret []byte
}

// Profile is the public view of an account.
type Profile struct {
	ID          string
	Username    string
	DisplayName string
	ChipBalance int
	CreatedAt   time.Time
}

type account struct {
	id           string
	username     string
	displayName  string
	passwordHash string
	balance      int
	createdAt    time.Time
}

func (a *account) profile() Profile {
	return Profile{
		ID:          a.id,
		Username:    a.username,
		DisplayName: a.displayName,
		ChipBalance: a.balance,
		CreatedAt:   a.createdAt,
	}
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for token issue and expiry.
func WithClock(clock quartz.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the store logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithHashParams overrides the Argon2id cost parameters.
func WithHashParams(p HashParams) Option {
	return func(s *Store) { s.hash = p }
}

// Store holds accounts for the lifetime of the process. It is safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	cfg      Config
	clock    quartz.Clock
	logger   *log.Logger
	hash     HashParams
	accounts map[string]*account
	byName   map[string]*account
}

// New returns an empty store.
func New(cfg Config, opts ...Option) (*Store, error) {
	if cfg.StartingChips < 0 {
		return nil, fmt.Errorf("starting chips must not be negative, got %d", cfg.StartingChips)
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("token ttl must not be negative, got %s", cfg.TokenTTL)
	}
	if cfg.StartingChips == 0 {
		cfg.StartingChips = DefaultStartingChips
	}
	if len(cfg.Secret) == 0 {
		cfg.Secret = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, cfg.Secret); err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}
	}

	s := &Store{
		cfg:      cfg,
		clock:    quartz.NewReal(),
		hash:     DefaultHashParams(),
		accounts: make(map[string]*account),
		byName:   make(map[string]*account),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("session")
	return s, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates an account holding the configured starting chips.
func (s *Store) Register(username, displayName, password string) (Profile, error) {
	key := normalizeUsername(username)
	switch {
	case key == "":
		return Profile{}, fmt.Errorf("%w: username is required", ErrInvalidCredentials)
	case utf8.RuneCountInString(key) > maxUsernameLength:
		return Profile{}, fmt.Errorf("%w: username longer than %d characters", ErrInvalidCredentials, maxUsernameLength)
	case utf8.RuneCountInString(password) < minPasswordLength:
		return Profile{}, fmt.Errorf("%w: password shorter than %d characters", ErrInvalidCredentials, minPasswordLength)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = strings.TrimSpace(username)
	}

	hash, err := hashPassword(password, s.hash)
	if err != nil {
		return Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[key]; ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUserExists, key)
	}
	a := &account{
		id:           uuid.NewString(),
		username:     key,
		displayName:  strings.TrimSpace(displayName),
		passwordHash: hash,
		balance:      s.cfg.StartingChips,
		createdAt:    s.clock.Now(),
	}
	s.accounts[a.id] = a
	s.byName[key] = a
	s.logger.Info("account registered", "id", a.id, "username", key, "chips", a.balance)
	return a.profile(), nil
}

// Login checks the password and returns a signed session token.
func (s *Store) Login(username, password string) (string, Profile, error) {
	s.mu.RLock()
	a, ok := s.byName[normalizeUsername(username)]
	var hash string
	if ok {
		hash = a.passwordHash
	}
	s.mu.RUnlock()
	if !ok {
		return "", Profile{}, ErrInvalidCredentials
	}

	match, err := verifyPassword(password, hash)
	if err != nil {
		return "", Profile{}, fmt.Errorf("checking password: %w", err)
	}
	if !match {
		s.logger.Warn("failed login", "username", a.username)
		return "", Profile{}, ErrInvalidCredentials
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	token, err := s.issueToken(a)
	if err != nil {
		return "", Profile{}, fmt.Errorf("signing token: %w", err)
	}
	return token, a.profile(), nil
}

// Authenticate verifies a session token and returns the account's profile.
func (s *Store) Authenticate(token string) (Profile, error) {
	id, err := s.parseToken(token)
	if err != nil {
		return Profile{}, err
	}
	p, err := s.Profile(id)
	if errors.Is(err, ErrUnknownUser) {
		return Profile{}, fmt.Errorf("%w: account %s no longer exists", ErrInvalidToken, id)
	}
	return p, err
}

// Profile returns the account with id.
func (s *Store) Profile(id string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	return a.profile(), nil
}

// SetBalance records the account's chip balance, typically its stack after a
// hand.
func (s *Store) SetBalance(id string, chips int) error {
	if chips < 0 {
		return fmt.Errorf("balance must not be negative, got %d", chips)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	if a.balance != chips {
		s.logger.Debug("balance updated", "id", id, "from", a.balance, "to", chips)
	}
	a.balance = chips
	return nil
}

// Leaderboard returns profiles ordered by chip balance, richest first.
func (s *Store) Leaderboard(n int) []Profile {
	s.mu.RLock()
	out := make([]Profile, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.profile())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ChipBalance != out[j].ChipBalance {
			return out[i].ChipBalance > out[j].ChipBalance
		}
		return out[i].Username < out[j].Username
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
