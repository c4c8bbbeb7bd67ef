// Package main is the entry point for the scrollpane terminal component.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/dshills/scrollpane/internal/app"
	"github.com/dshills/scrollpane/internal/bus"
	"github.com/dshills/scrollpane/internal/bus/wsgateway"
	"github.com/dshills/scrollpane/internal/config"
	"github.com/dshills/scrollpane/internal/protocol"
	"github.com/dshills/scrollpane/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath string
	logLevel   string
	logFile    string
	listen     string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	cfg, err := config.Load(config.WithFile(f.configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(cfg, f)

	logger, closeLog, err := app.OpenLogger(cfg.LogFile, app.ParseLogLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	app.SetLogger(logger)

	for _, p := range cfg.Problems {
		logger.WithComponent("config").Warn("using default: %v", p)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal")
		return 1
	}
	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	hub := bus.NewHub()
	application, err := app.New(app.Options{
		Config:  cfg,
		Backend: screen,
		Hub:     hub,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Quitting from the terminal stops the gateway too.
		defer cancel()
		return application.Run(gctx)
	})
	if cfg.Listen != "" {
		serveGateway(gctx, g, hub, cfg.Listen, logger)
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// serveGateway exposes the hub over websocket until ctx is done.
func serveGateway(ctx context.Context, g *errgroup.Group, hub *bus.Hub, addr string, logger *app.Logger) {
	gw := wsgateway.New(hub, wsgateway.Options{
		Subscriptions: []string{protocol.ResponseTag, protocol.ReadyTag},
		Logger:        logger.WithComponent("gateway"),
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           gw,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("gateway listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gateway: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func parseFlags() flags {
	var cli flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&cli.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&cli.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&cli.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&cli.logFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&cli.listen, "listen", "", "Serve the websocket gateway on this address")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scrollpane - scrolling terminal pane driven by bus messages\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scrollpane [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  LINE_WRAP=1|0     wrap long entries (default 1)\n")
		fmt.Fprintf(os.Stderr, "  WORD_WRAP=1|0     wrap at word boundaries (default 0)\n")
		fmt.Fprintf(os.Stderr, "  MAX_ENTRIES=n     entries kept in the buffer (default 100)\n")
		fmt.Fprintf(os.Stderr, "  SCROLLPANE_MAX_BATCH=n        requests handled per message (default unlimited)\n")
		fmt.Fprintf(os.Stderr, "  SCROLLPANE_MAX_ENTRY_WIDTH=n  reject longer entries (default unlimited)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scrollpane -listen 127.0.0.1:7777 -log-file /tmp/scrollpane.log\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("scrollpane %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch cli.logLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.logLevel)
		os.Exit(1)
	}

	return cli
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(cfg *config.Config, f flags) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "log-file":
			cfg.LogFile = f.logFile
		case "listen":
			cfg.Listen = f.listen
		}
	})
}
