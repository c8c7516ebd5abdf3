package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/ardanlabs/bindgen/logger"
)

// watchDebounce collapses the burst of events one editor save produces.
const watchDebounce = 300 * time.Millisecond

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

// watchHeader calls regenerate after the header changes until ctx is done.
// The directory is watched rather than the file because editors often
// replace files on save. Events and regeneration share one goroutine, so
// two generations never overlap.
func watchHeader(ctx context.Context, header string, regenerate func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer watcher.Close()

	target, err := filepath.Abs(header)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", header)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(target))
	}

	logger.Infow("Watching header", "file", target)

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isHeaderChange(event, target) {
				continue
			}
			logger.Debugw("Header changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(watchDebounce)

		case <-timer.C:
			logger.Infow("Regenerating", "file", target)
			regenerate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Header watcher error", "error", err)
		}
	}
}

func isHeaderChange(event fsnotify.Event, target string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == target
}
