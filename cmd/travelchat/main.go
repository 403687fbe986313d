package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"travelchat/internal/backend"
	"travelchat/internal/config"
	"travelchat/internal/logger"
	"travelchat/internal/render"
	"travelchat/internal/search"
	"travelchat/internal/telemetry"
	"travelchat/internal/ui"
)

// options holds the parsed CLI flags.
type options struct {
	configPath string
	serverURL  string
	sessionID  string
	newSession bool
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flag.StringVar(&opts.serverURL, "server", "", "travelchat server URL; empty searches in-process")
	flag.StringVar(&opts.sessionID, "session", "", "session id whose history to resume")
	flag.BoolVar(&opts.newSession, "new-session", false, "start a fresh session with a generated id")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: travelchat [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Chat about destinations and search flights from the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return opts
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	// The terminal belongs to the UI, so logs only go to the configured file.
	log, err := logger.NewFileOnly(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, telemetry.ConfigFromEnv("travelchat"))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = shutdown(ctx) }()

	loc, err := cfg.Display.Location()
	if err != nil {
		return err
	}

	sessionID := opts.sessionID
	if sessionID == "" && opts.newSession {
		sessionID = uuid.NewString()
	}

	var searcher ui.Searcher
	if opts.serverURL != "" {
		searcher = search.NewRemoteClient(opts.serverURL, cfg.Server.Timeout)
		log.Info("using remote server", zap.String("url", opts.serverURL))
	} else {
		b, err := backend.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()
		searcher = b.Service
	}

	chat := ui.NewChatView(searcher, ui.ChatOptions{
		Renderer:  render.New(loc),
		SessionID: sessionID,
		Timeout:   cfg.Server.Timeout,
		Logger:    log,
	})
	p := tea.NewProgram(ui.NewAppModel(chat), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
