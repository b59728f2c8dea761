// Package watch notices changes made to the stored note collection from
// outside the running process (another editor, a sync tool, a restore).
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/neuronpad/internal/checksum"
)

// debounce coalesces the burst of events one atomic write produces.
const debounce = 150 * time.Millisecond

// ChangeFunc receives the new checksum of the record file, or "" when it was removed.
type ChangeFunc func(sum string)

// Watch observes the directory holding file and calls cb whenever the file's
// content checksum changes. It blocks until ctx is cancelled.
//
// The directory is watched rather than the file because the file provider
// replaces records by rename, which would drop a watch on the file itself.
func Watch(ctx context.Context, file string, logger *slog.Logger, cb ChangeFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(file)
	if err := w.Add(dir); err != nil {
		return err
	}

	last, _ := checksum.File(file)
	logger.Info("watch: started", slog.String("file", file))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-fire:
			sum, err := checksum.File(file)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					logger.Warn("watch: read failed", slog.String("file", file), slog.String("error", err.Error()))
					continue
				}
				sum = ""
			}
			if sum == last {
				continue
			}
			last = sum
			logger.Debug("watch: collection changed", slog.String("checksum", sum))
			if cb != nil {
				cb(sum)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(file) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", werr.Error()))
		}
	}
}
