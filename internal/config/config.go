// Package config loads the HCL configuration for the lobby and its tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/threesixnine/internal/game"
	"github.com/lox/threesixnine/internal/lobby"
	"github.com/lox/threesixnine/internal/session"
)

// Config is the complete file configuration.
type Config struct {
	Log     *LogSettings     `hcl:"log,block"`
	Session *SessionSettings `hcl:"session,block"`
	Bots    *BotSettings     `hcl:"bots,block"`
	Tables  []TableConfig    `hcl:"table,block"`
}

// LogSettings controls logging.
type LogSettings struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// SessionSettings configures the account store.
type SessionSettings struct {
	StartingChips string `hcl:"starting_chips,optional"`
	TokenTTL      string `hcl:"token_ttl,optional"`
	Secret        string `hcl:"secret,optional"`
}

// BotSettings configures house bots.
type BotSettings struct {
	BuyInBigBlinds int `hcl:"buy_in_big_blinds,optional"`
}

// TableConfig defines one lobby table.
type TableConfig struct {
	Name          string   `hcl:"name,label"`
	Stakes        string   `hcl:"stakes"`
	MaxSeats      int      `hcl:"max_seats,optional"`
	ActionTimeout string   `hcl:"action_timeout,optional"`
	Bots          []string `hcl:"bots,optional"`
}

const (
	defaultLevel         = "info"
	defaultFormat        = "text"
	defaultStartingChips = "$1000"
	defaultTokenTTL      = "24h"
	defaultMaxSeats      = 9
)

// Default returns the built-in configuration: the house tables and their bots.
func Default() *Config {
	cfg := &Config{}
	for _, spec := range lobby.DefaultConfig().Tables {
		cfg.Tables = append(cfg.Tables, TableConfig{
			Name:          spec.Name,
			Stakes:        lobby.FormatStakes(spec.SmallBlind, spec.BigBlind),
			MaxSeats:      spec.MaxSeats,
			ActionTimeout: spec.ActionTimeout.String(),
			Bots:          spec.Bots,
		})
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads an HCL file. A missing file yields the defaults; a file without
// table blocks keeps the default tables.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if len(cfg.Tables) == 0 {
		cfg.Tables = Default().Tables
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Session == nil {
		c.Session = &SessionSettings{}
	}
	if c.Bots == nil {
		c.Bots = &BotSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultFormat
	}
	if c.Session.StartingChips == "" {
		c.Session.StartingChips = defaultStartingChips
	}
	if c.Session.TokenTTL == "" {
		c.Session.TokenTTL = defaultTokenTTL
	}
	if c.Bots.BuyInBigBlinds == 0 {
		c.Bots.BuyInBigBlinds = lobby.DefaultBotBuyIn
	}
	for i := range c.Tables {
		if c.Tables[i].MaxSeats == 0 {
			c.Tables[i].MaxSeats = defaultMaxSeats
		}
		if c.Tables[i].ActionTimeout == "" {
			c.Tables[i].ActionTimeout = game.DefaultActionTimeout.String()
		}
	}
}

// Validate checks the configuration by building what it describes.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log format must be text, json or logfmt, got %q", c.Log.Format)
	}
	if _, err := c.SessionConfig(); err != nil {
		return err
	}
	_, err := c.LobbyConfig()
	return err
}

// LoggerOptions returns charmbracelet/log options for the log block.
func (c *Config) LoggerOptions() (log.Options, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.Options{}, fmt.Errorf("log level: %w", err)
	}
	opts := log.Options{Level: level, ReportTimestamp: true}
	switch c.Log.Format {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}
	return opts, nil
}

// SessionConfig converts the session block for session.New.
func (c *Config) SessionConfig() (session.Config, error) {
	var out session.Config
	chips, err := lobby.ParseChips(c.Session.StartingChips)
	if err != nil {
		return out, fmt.Errorf("session starting_chips: %w", err)
	}
	ttl, err := time.ParseDuration(c.Session.TokenTTL)
	if err != nil {
		return out, fmt.Errorf("session token_ttl: %w", err)
	}
	if ttl < 0 {
		return out, fmt.Errorf("session token_ttl must not be negative, got %s", ttl)
	}
	out.StartingChips = chips
	out.TokenTTL = ttl
	if c.Session.Secret != "" {
		out.Secret = []byte(c.Session.Secret)
	}
	return out, nil
}

// LobbyConfig converts the table blocks into a validated lobby configuration.
func (c *Config) LobbyConfig() (lobby.Config, error) {
	out := lobby.Config{BotBuyIn: c.Bots.BuyInBigBlinds}
	for _, t := range c.Tables {
		small, big, err := lobby.ParseStakes(t.Stakes)
		if err != nil {
			return lobby.Config{}, fmt.Errorf("table %q: %w", t.Name, err)
		}
		timeout, err := time.ParseDuration(t.ActionTimeout)
		if err != nil {
			return lobby.Config{}, fmt.Errorf("table %q: action_timeout: %w", t.Name, err)
		}
		out.Tables = append(out.Tables, lobby.TableSpec{
			Name:          t.Name,
			SmallBlind:    small,
			BigBlind:      big,
			MaxSeats:      t.MaxSeats,
			ActionTimeout: timeout,
			Bots:          t.Bots,
		})
	}
	if err := out.Validate(); err != nil {
		return lobby.Config{}, err
	}
	return out, nil
}
