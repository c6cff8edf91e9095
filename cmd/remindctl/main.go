package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/notexe/reminderd/internal/api"
	"github.com/notexe/reminderd/internal/config"
	"github.com/notexe/reminderd/internal/events"
	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/reminder"
	"github.com/notexe/reminderd/internal/repl"
	"github.com/notexe/reminderd/internal/scheduler"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	backendURL := flag.String("backend", "", "Reminder backend base URL (overrides config)")
	channel := flag.String("channel", "", "Notification channel (telegram, console)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *backendURL != "" {
		cfg.Backend.BaseURL = *backendURL
	}
	if *channel != "" {
		cfg.Notify.Channel = *channel
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := zap.NewNop().Sugar()

	client := reminder.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.Timeout)*time.Second)

	sink := newSink(cfg.Notify)
	store := notify.NewSettingsStore(cfg.Notify.SettingsFile)
	manager := notify.NewManager(store, sink, log)

	sound := notify.NewCommandPlayer(cfg.Notify.SoundCommand)
	clk := clock.New()
	dispatcher := notify.NewDispatcher(manager, sink, sound, events.NewBus(), clk, log)

	var digest repl.DigestRunner
	if cfg.Digest.Enabled {
		provider, err := api.NewProvider(cfg.Digest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating digest provider: %v\n", err)
			os.Exit(1)
		}
		if provider != nil {
			defer provider.Close()
		}
		digest = scheduler.New(provider, client, dispatcher, cfg.Digest, clk, log)
	}

	replInstance, err := repl.NewREPL(client, manager, dispatcher, digest, cfg.UI.ColoredOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating REPL: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot mode: remaining arguments form a single command.
	if flag.NArg() > 0 {
		if err := replInstance.Execute(ctx, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println()
		cancel()
		os.Exit(0)
	}()

	if err := replInstance.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newSink(cfg config.NotifyConfig) notify.Sink {
	switch cfg.Channel {
	case config.ChannelTelegram:
		return notify.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	default:
		return notify.NewConsoleSink(os.Stdout)
	}
}
