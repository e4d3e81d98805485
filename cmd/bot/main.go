package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"reviewbot/internal/config"
	"reviewbot/internal/digest"
	"reviewbot/internal/notifier"
	"reviewbot/internal/poller"
	"reviewbot/internal/statusapi"
	"reviewbot/internal/storage"
	"reviewbot/internal/transport"
	"reviewbot/internal/transport/telegram"
	"reviewbot/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config yaml/json")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	// A missing config file is fine: everything required can come from the
	// environment. A present-but-broken file is fatal.
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if errors.Is(err, os.ErrNotExist) {
		mgr = nil
		cfg = config.Default()
		if err := config.ApplyEnv(cfg); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logSvc, log := logx.New(logxConfig(cfg.Logging))
	defer logSvc.Close()

	// The one unrecoverable precondition: all three credentials, checked
	// once, reported once, never retried.
	if err := config.Validate(cfg); err != nil {
		log.Error("startup check failed", logx.Err(err))
		return err
	}

	pollInterval, err := config.ParseDurationOrDefault("practicum.poll_interval", cfg.Practicum.PollInterval, 600*time.Second)
	if err != nil {
		return err
	}
	reqTimeout, err := config.ParseDurationOrDefault("practicum.request_timeout", cfg.Practicum.RequestTimeout, 30*time.Second)
	if err != nil {
		return err
	}

	tg, err := telegram.New(telegram.Config{Token: cfg.Telegram.Token}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		log.Error("telegram init failed", logx.Err(err))
		return err
	}
	defer tg.Close()

	var store storage.Store
	if cfg.Storage != nil {
		busy, _ := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
		store, err = storage.Open(storage.Config{
			Driver:      cfg.Storage.Driver,
			Path:        cfg.Storage.Path,
			BusyTimeout: busy,
		}, log.With(logx.String("comp", "storage")))
		if err != nil {
			// Audit trail is best-effort; run without it rather than die.
			log.Warn("storage unavailable; audit trail disabled", logx.Err(err))
			store = nil
		}
		if store != nil {
			defer store.Close()
		}
	}

	notif := notifier.New(notifier.Config{
		Target:     transport.ChatTarget{ChatID: cfg.Telegram.ChatID, ThreadID: cfg.Telegram.ThreadID},
		RatePerSec: cfg.Notifier.RatePerSec,
	}, tg, store, log.With(logx.String("comp", "notifier")))

	client, err := statusapi.NewClient(statusapi.Config{
		Endpoint: cfg.Practicum.Endpoint,
		Token:    cfg.Practicum.Token,
		Timeout:  reqTimeout,
	}, log.With(logx.String("comp", "statusapi")))
	if err != nil {
		log.Error("status client init failed", logx.Err(err))
		return err
	}

	loop := poller.New(poller.Config{Interval: pollInterval}, client, notif, log.With(logx.String("comp", "poller")))

	if cfg.Digest != nil {
		dig, err := digest.New(digest.Config{
			Schedule: cfg.Digest.Schedule,
			Timezone: cfg.Digest.Timezone,
		}, notif, notif, log.With(logx.String("comp", "digest")))
		if err != nil {
			log.Error("digest init failed", logx.Err(err))
			return err
		}
		if dig != nil {
			dig.Start()
			defer dig.Stop()
		}
	}

	// Hot reload retunes logging only; the loop keeps its startup snapshot.
	if mgr != nil {
		mgr.SetLogger(log.With(logx.String("comp", "config")))
		sub := mgr.Subscribe(1)
		defer mgr.Unsubscribe(sub)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case next := <-sub:
					if next == nil {
						return
					}
					logSvc.Apply(logxConfig(next.Logging))
				}
			}
		}()
		go func() {
			if err := mgr.Watch(ctx); err != nil {
				log.Warn("config watch unavailable", logx.Err(err))
			}
		}()
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()

	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func logxConfig(c config.LoggingConfig) logx.Config {
	return logx.Config{
		Level:   c.Level,
		Console: c.Console,
		File:    logx.FileConfig{Enabled: c.File.Enabled, Path: c.File.Path},
	}
}
