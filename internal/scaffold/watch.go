package scaffold

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a watch waits for changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures WatchTemplates.
type WatchOptions struct {
	Root     string
	Suffix   string
	Ignore   []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// WatchTemplates reloads the template set under opts.Root whenever files
// change and passes each freshly loaded set, or the load error, to onReload.
// A loaded set is never modified. It blocks until ctx is done.
func WatchTemplates(ctx context.Context, opts WatchOptions, onReload func(*TemplateSet, error)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchTree(watcher, opts.Root); err != nil {
		return &BootstrapError{Path: opts.Root, Err: err}
	}
	logger.Info("watching templates", "root", opts.Root)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Warn("failed to watch directory", "path", event.Name, "error", err)
					}
				}
			}
			logger.Debug("template change", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			set, err := LoadTemplateSet(opts.Root, opts.Suffix, opts.Ignore, logger)
			if err != nil {
				logger.Error("template reload failed", "error", err)
			}
			onReload(set, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// watchTree adds dir and every directory below it to watcher.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
