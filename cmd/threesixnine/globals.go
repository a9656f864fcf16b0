package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/threesixnine/internal/config"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"threesixnine.hcl" type:"path" help:"HCL configuration file"`
	LogLevel string `help:"Override the configured log level (debug|info|warn|error)"`
}

// load reads and validates the configuration and builds the logger it
// describes. A non-empty quietLevel replaces the configured level unless
// --log-level is given.
func (g *Globals) load(quietLevel string) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	} else if quietLevel != "" {
		cfg.Log.Level = quietLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", g.Config, err)
	}
	opts, err := cfg.LoggerOptions()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.NewWithOptions(os.Stderr, opts), nil
}

// signalContext is cancelled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
