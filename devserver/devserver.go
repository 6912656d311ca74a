// Package devserver is the development harness for domelement components: a
// small HTTP server that serves a fixture page with the compiled wasm bundle
// injected, ingests the lifecycle events demo components report, and exposes
// them for inspection (JSON API, debug page, MCP tools).
//
// It exists so component behaviour can be exercised and asserted against a
// real browser (see package browsertest) instead of being eyeballed in
// devtools.
package devserver

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config configures the dev server.
type Config struct {
	// Addr is the listen address. Default: 127.0.0.1:8393.
	Addr string `yaml:"addr"`

	// Root is a directory with a fixture index.html and static assets.
	// Empty serves the built-in blank fixture page.
	Root string `yaml:"root"`

	// Wasm is the path to the compiled wasm bundle served at /app.wasm.
	Wasm string `yaml:"wasm"`

	// WasmExec is the path to the Go runtime's wasm_exec.js, served at
	// /wasm_exec.js.
	WasmExec string `yaml:"wasm_exec"`

	// DB is the sqlite path for the lifecycle event store. Default:
	// in-memory.
	DB string `yaml:"db"`

	// FlushInterval is how often buffered events are written. Default: 1s.
	FlushInterval time.Duration `yaml:"flush_interval"`

	LogLevel string `yaml:"log_level"`
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8393"
	}
	if c.DB == "" {
		c.DB = ":memory:"
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}
