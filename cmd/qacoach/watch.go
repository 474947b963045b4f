package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/api"
	"github.com/voxqa/qacoach/internal/celebration"
	"github.com/voxqa/qacoach/internal/config"
	"github.com/voxqa/qacoach/internal/reconcile"
)

// runWatch keeps the process alive, re-syncing whenever the snapshot
// file changes. Celebrations play through the queue so a burst of
// unlocks is shown one at a time.
func runWatch(ctx context.Context, cfg config.Config, client *api.Client, logger *zap.Logger) error {
	queue := celebration.NewQueue(
		celebration.WithDisplayDuration(cfg.CelebrationDisplay()),
		celebration.WithPause(cfg.CelebrationPause()),
		celebration.WithHandlers(func(event celebration.Event) {
			fmt.Println(celebration.Render(event))
		}, nil))
	defer queue.Stop()

	session := reconcile.NewSession(cfg.AgentID)
	reconciler := reconcile.New(client, session, logger,
		reconcile.WithDebounce(cfg.SyncDebounce()),
		reconcile.WithResultHandler(func(result *reconcile.Result) {
			events := make([]celebration.Event, 0, len(result.Unlocked)+len(result.ServerUnlocked))
			for _, record := range result.NewlyConfirmed() {
				events = append(events, celebration.AchievementEvent(record))
			}
			queue.Enqueue(events...)
		}))
	defer reconciler.Close()

	// Initial pass over whatever is on disk already.
	if data, err := config.LoadSnapshot(cfg.SnapshotPath); err == nil {
		reconciler.Trigger(data)
	} else {
		logger.Warn("snapshot not readable yet", zap.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and exporters often replace the file
	// instead of writing it in place.
	snapshotDir := filepath.Dir(cfg.SnapshotPath)
	if err := watcher.Add(snapshotDir); err != nil {
		return err
	}
	snapshotName := filepath.Base(cfg.SnapshotPath)

	logger.Info("watching snapshot",
		zap.String("path", cfg.SnapshotPath),
		zap.String("agent_id", cfg.AgentID))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-interrupt:
			logger.Info("shutting down")
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != snapshotName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			data, err := config.LoadSnapshot(cfg.SnapshotPath)
			if err != nil {
				// Half-written file; the next event will retry.
				logger.Debug("snapshot reload failed", zap.Error(err))
				continue
			}
			if data.AgentID == "" {
				data.AgentID = cfg.AgentID
			}
			reconciler.Trigger(data)
		}
	}
}
