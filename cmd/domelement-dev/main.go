// CLAUDE:SUMMARY CLI entry point for the domelement dev harness server.
// Command domelement-dev serves a fixture page with a compiled wasm bundle
// and records the lifecycle events the components report.
//
// Usage:
//
//	domelement-dev -wasm app.wasm -wasm-exec $(go env GOROOT)/lib/wasm/wasm_exec.js
//	domelement-dev -config devserver.yaml
//	domelement-dev -config devserver.yaml -mcp   # also speak MCP on stdio
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/domelement/devserver"
)

func main() {
	configPath := flag.String("config", "", "path to devserver.yaml")
	addr := flag.String("addr", "", "listen address (overrides config)")
	wasmPath := flag.String("wasm", "", "path to the compiled wasm bundle")
	wasmExec := flag.String("wasm-exec", "", "path to wasm_exec.js")
	root := flag.String("root", "", "fixture page directory")
	withMCP := flag.Bool("mcp", false, "serve MCP event tools on stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &devserver.Config{}
	if *configPath != "" {
		loaded, err := devserver.LoadConfigFile(*configPath)
		if err != nil {
			logger.Error("domelement-dev: load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *wasmPath != "" {
		cfg.Wasm = *wasmPath
	}
	if *wasmExec != "" {
		cfg.WasmExec = *wasmExec
	}
	if *root != "" {
		cfg.Root = *root
	}

	if err := run(ctx, logger, cfg, *withMCP); err != nil {
		logger.Error("domelement-dev: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *devserver.Config, withMCP bool) error {
	db, err := sql.Open("sqlite", cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.DB == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := devserver.NewStore(db, cfg.FlushInterval)
	defer store.Close()
	if err := store.Init(); err != nil {
		return err
	}

	srv := devserver.New(cfg, store, logger)

	if withMCP {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "domelement-dev",
			Version: "1.0.0",
		}, nil)
		srv.RegisterMCP(mcpSrv)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				logger.Error("domelement-dev: mcp", "error", err)
			}
		}()
	}

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("domelement-dev: listening", "addr", cfg.Addr)
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
