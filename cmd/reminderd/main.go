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
	"go.uber.org/zap/zapcore"

	"github.com/notexe/reminderd/internal/api"
	"github.com/notexe/reminderd/internal/config"
	"github.com/notexe/reminderd/internal/events"
	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/poller"
	"github.com/notexe/reminderd/internal/reminder"
	"github.com/notexe/reminderd/internal/scheduler"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	channel := flag.String("channel", "", "Notification channel (telegram, console)")
	backendURL := flag.String("backend", "", "Reminder backend base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *channel != "" {
		cfg.Notify.Channel = *channel
	}
	if *backendURL != "" {
		cfg.Backend.BaseURL = *backendURL
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		if cfg.Notify.Channel == config.ChannelTelegram {
			fmt.Fprintf(os.Stderr, "Tip: Set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID environment variables\n")
		}
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log.Sugar()); err != nil {
		log.Sugar().Errorw("daemon exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	client := reminder.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.Timeout)*time.Second)

	var cache *reminder.Cache
	if cfg.Cache.Path != "" {
		var err error
		cache, err = reminder.OpenCache(cfg.Cache.Path)
		if err != nil {
			log.Warnw("reminder cache unavailable; continuing without it", "path", cfg.Cache.Path, "err", err)
		} else {
			defer cache.Close()
		}
	}

	sink := newSink(cfg.Notify)
	store := notify.NewSettingsStore(cfg.Notify.SettingsFile)
	manager := notify.NewManager(store, sink, log)

	bus := events.NewBus()
	sound := notify.NewCommandPlayer(cfg.Notify.SoundCommand)
	clk := clock.New()
	dispatcher := notify.NewDispatcher(manager, sink, sound, bus, clk, log)

	// Probe the sink once at startup so a granted channel starts delivering
	// without manual intervention.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if manager.Permission() == notify.PermissionDefault {
		manager.RequestPermission(ctx)
	}
	log.Infow("notification state",
		"channel", cfg.Notify.Channel,
		"permission", manager.Permission(),
		"enabled", manager.Settings().Enabled)

	p := poller.New(client, cache, manager, dispatcher, clk, log,
		time.Duration(cfg.Poller.CheckInterval)*time.Second,
		time.Duration(cfg.Poller.RefreshInterval)*time.Second)

	clicks, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	go func() {
		for ev := range clicks {
			log.Infow("notification clicked", "reminder", ev.ReminderID, "type", ev.Type)
		}
	}()

	errCh := make(chan error, 2)
	go func() {
		errCh <- p.Run(ctx)
	}()

	if cfg.Digest.Enabled {
		provider, err := api.NewProvider(cfg.Digest)
		if err != nil {
			return fmt.Errorf("failed to create digest provider: %w", err)
		}
		if provider != nil {
			defer provider.Close()
		}

		digest := scheduler.New(provider, client, dispatcher, cfg.Digest, clk, log)
		go func() {
			errCh <- digest.Run(ctx)
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)

	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGUSR1 {
				log.Info("wake signal received; running an immediate pass")
				p.Poke()
				continue
			}
			log.Infow("shutting down", "signal", sig)
			cancel()
			dispatcher.CloseAll()
			return nil

		case err := <-errCh:
			if err != nil {
				cancel()
				return err
			}
		}
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

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}
