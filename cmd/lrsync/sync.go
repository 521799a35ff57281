package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"lrsync/internal/syncer"
)

// progressReporter returns the Reporter for a run: JSON lines on stdout when
// requested, nothing otherwise (the engine logs its own milestones).
func progressReporter(cmd *cli.Command) syncer.Reporter {
	if !cmd.Bool("progress-json") {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	return func(p syncer.Progress) {
		_ = enc.Encode(p)
	}
}

func syncAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := cfgManager.GetConfig()

	if tag := cmd.String("tag"); tag != "" {
		cfg.SyncTag = tag
	}
	if workers := int(cmd.Int("workers")); workers > 0 {
		cfg.MaxWorkers = workers
	}
	if len(cfg.Galleries) == 0 {
		return fmt.Errorf("no galleries configured. Use 'lrsync gallery add' to add one")
	}

	engine, err := buildEngine(cfg, progressReporter(cmd))
	if err != nil {
		return err
	}

	sum, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("sync complete",
		"albums", sum.Albums,
		"photos", sum.Photos,
		"skipped", len(sum.Skipped),
		"duration", sum.CompletedAt.Sub(sum.StartedAt).Round(time.Millisecond))
	for _, skip := range sum.Skipped {
		logger.Warn("skipped", "item", skip.Item, "reason", skip.Reason)
	}
	return nil
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := cfgManager.GetConfig()

	interval := cfg.Interval
	if v := cmd.Duration("interval"); v > 0 {
		interval = v
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if len(cfg.Galleries) == 0 {
		return fmt.Errorf("no galleries configured. Use 'lrsync gallery add' to add one")
	}

	engine, err := buildEngine(cfg, progressReporter(cmd))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", "interval", interval, "galleries", len(cfg.Galleries))

	// One pass immediately, then on every tick. A failed pass is logged and
	// the watch keeps going; only cancellation ends it.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sum, err := engine.Run(ctx)
		switch {
		case ctx.Err() != nil:
			logger.Info("watch stopped")
			return nil
		case err != nil:
			logger.Error("sync pass failed", "error", err)
		default:
			logger.Info("sync pass complete", "albums", sum.Albums, "photos", sum.Photos, "skipped", len(sum.Skipped))
		}

		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}
