package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
)

// Watch reloads the YAML file at path whenever it is written and applies
// its undo level to cfg. onReload, if non-nil, is called with the level in
// effect after each reload. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file, so editors that
// replace the file by rename are picked up.
func Watch(ctx context.Context, path string, cfg *RuntimeConfig, onReload func(levels int)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewSystemErrorWithOp("watch config", "cannot create watcher", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return errors.NewSystemErrorWithOp("watch config", "cannot watch "+dir, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			reload(path, cfg, onReload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("config watcher error", logging.KeyPath, path, logging.KeyError, err)
		}
	}
}

// reload reads the file into a scratch config, so only the undo level is
// applied to the live one.
func reload(path string, cfg *RuntimeConfig, onReload func(levels int)) {
	next := DefaultRuntimeConfig()
	next.Undo.Levels = cfg.UndoLevels()
	if err := next.LoadFile(path); err != nil {
		logging.Warn("config reload failed", logging.KeyPath, path, logging.KeyError, err)
		return
	}

	if err := cfg.SetUndoLevels(next.Undo.Levels); err != nil {
		logging.Warn("config reload failed", logging.KeyPath, path, logging.KeyError, err)
		return
	}
	logging.Info("config reloaded", logging.KeyPath, path, logging.KeyLevels, cfg.UndoLevels())
	if onReload != nil {
		onReload(cfg.UndoLevels())
	}
}
