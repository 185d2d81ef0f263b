// Command owui-mcp serves the Open WebUI API as MCP tools over stdio.
//
// At startup it builds an owui.Client from the environment, discovers every
// router operation on it, derives an input schema per operation and registers
// the result as a fixed tool set. stdout carries only MCP protocol traffic;
// all diagnostics go to stderr.
//
// Configuration:
//
//	OWUI_API_URL  Open WebUI API base URL (default http://127.0.0.1:8080/api)
//	OWUI_API_KEY  bearer token; optional, unauthenticated when unset
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/owui-mcp/pkg/owui"
	"github.com/germanamz/owui-mcp/pkg/tools/discover"
	"github.com/germanamz/owui-mcp/pkg/tools/dispatch"
	"github.com/germanamz/owui-mcp/pkg/tools/mcpserver"
	"github.com/germanamz/owui-mcp/pkg/tools/toolbox"
	"github.com/joho/godotenv"
)

const (
	serverName = "owui-mcp"
	version    = "0.1.0"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: owui-mcp [flags]\n\nServe the Open WebUI API as MCP tools over stdio.\n\nFlags:\n")
		flag.PrintDefaults()
	}

	configPath := flag.String("config", "", "path to optional YAML configuration file")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	verbose := flag.Bool("verbose", false, "log at debug level")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	// stdout belongs to the MCP transport; logs must stay on stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*configPath, log); err != nil {
		log.Error("owui-mcp exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.APIKey == "" {
		log.Warn("OWUI_API_KEY is not set, requests will be unauthenticated")
	}

	client, err := owui.New(owui.Options{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey})
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	log.Info("starting", "api_url", cfg.BaseURL, "version", version)

	ops, err := discover.Discover(client, log)
	if err != nil {
		return err
	}

	ops = filterOps(ops, cfg.Tools)

	tb := toolbox.New()
	if err := dispatch.Register(tb, ops); err != nil {
		return err
	}

	tools := tb.Tools()
	log.Info("discovered tools", "count", len(tools))

	srv := mcpserver.New(serverName, version)
	srv.Register(tools...)

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
