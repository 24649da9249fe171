// Package uia is the handle-lifecycle and tree-navigation core: a
// process-wide connection to the accessibility service, owned window and
// element handles that must be released exactly once, and bulk enumeration
// with full rollback on partial failure. Platform specifics stay behind the
// internal/platform contracts.
//
// The package adds no locking of its own: callers serialize access to a
// Conn and to any single handle. No two goroutines may operate on or
// release the same handle concurrently.
package uia

import (
	"time"

	"uiauto/internal/platform"
)

// Config carries the fixed synthetic-input delays. Zero fields take the
// defaults below.
type Config struct {
	// ClickDelay separates consecutive button events.
	ClickDelay time.Duration
	// KeyDelay separates consecutive character and key events.
	KeyDelay time.Duration
}

const (
	defaultClickDelay = 10 * time.Millisecond
	defaultKeyDelay   = 5 * time.Millisecond

	// findPollInterval is the re-probe interval for finds with a timeout.
	findPollInterval = 100 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.ClickDelay == 0 {
		c.ClickDelay = defaultClickDelay
	}
	if c.KeyDelay == 0 {
		c.KeyDelay = defaultKeyDelay
	}
	return c
}

// Conn is the process-wide connection to the accessibility service.
// Every operation in this package requires a live Conn; a closed Conn
// rejects everything with ErrOperationFailed.
type Conn struct {
	backend platform.Backend
	svc     platform.Accessibility
	windows platform.WindowSystem
	input   platform.Input
	procs   platform.ProcessSystem
	clock   platform.Clock
	cfg     Config
	closed  bool
}

// Connect establishes the platform communication context and acquires the
// service connection. If the context comes up but the connection cannot be
// acquired, the context is torn down before the failure is returned.
func Connect(p *platform.Provider, cfg Config) (*Conn, error) {
	if p == nil || p.Backend == nil {
		return nil, ErrNullPointer
	}
	if err := p.Backend.InitContext(); err != nil {
		return nil, opFailed("init platform context", err)
	}
	svc, err := p.Backend.Connect()
	if err != nil {
		p.Backend.TeardownContext()
		return nil, opFailed("connect accessibility service", err)
	}
	clock := p.Clock
	if clock == nil {
		clock = platform.SystemClock{}
	}
	return &Conn{
		backend: p.Backend,
		svc:     svc,
		windows: p.Windows,
		input:   p.Input,
		procs:   p.Processes,
		clock:   clock,
		cfg:     cfg.withDefaults(),
	}, nil
}

// Close releases the service connection and tears down the platform
// context. Safe to call exactly once; a second call reports
// ErrInvalidHandle. Must not race any in-flight operation.
func (c *Conn) Close() error {
	if c == nil {
		return ErrNullPointer
	}
	if c.closed {
		return ErrInvalidHandle
	}
	c.closed = true
	if c.svc != nil {
		c.svc.Release()
		c.svc = nil
	}
	c.backend.TeardownContext()
	return nil
}

// Processes exposes the process-table collaborator for application
// management.
func (c *Conn) Processes() platform.ProcessSystem {
	if c == nil {
		return nil
	}
	return c.procs
}

func (c *Conn) check() error {
	if c == nil {
		return ErrNullPointer
	}
	if c.closed || c.svc == nil {
		return opFailed("connection not initialized", nil)
	}
	return nil
}
