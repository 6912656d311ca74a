// CLAUDE:SUMMARY Chrome lifecycle for the end-to-end suite: launch or connect, stealth pages, cleanup.
// Package browsertest drives a real Chrome against the dev server to verify
// custom element behaviour end to end: registration, shadow content,
// attribute notifications and the disconnect debounce.
package browsertest

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headful disables headless mode for local debugging.
	Headful bool

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns one Chrome for the duration of a test run.
type Manager struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// NewManager creates a Manager. Call Start to launch Chrome.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance) and returns the
// Rod browser handle.
func (m *Manager) Start() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.cfg.Logger

	var wsURL string
	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browsertest: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(!m.cfg.Headful)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browsertest: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browsertest: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browsertest: connect: %w", err)
	}
	m.browser = b
	return b, nil
}

// Page opens a stealth page; stealth keeps fixture pages from tripping any
// bot heuristics a future remote Chrome setup might carry.
func (m *Manager) Page() (*rod.Page, error) {
	m.mu.Lock()
	b := m.browser
	m.mu.Unlock()
	if b == nil {
		return nil, fmt.Errorf("browsertest: manager not started")
	}
	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browsertest: open page: %w", err)
	}
	return page, nil
}

// Close shuts down Chrome.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}
