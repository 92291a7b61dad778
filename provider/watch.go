package provider

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configPollInterval is the polling period used when fsnotify is unavailable.
var configPollInterval = 500 * time.Millisecond

// ConfigUpdate is one reload of a watched config file.
type ConfigUpdate struct {
	Config Config
	Err    error
}

// WatchConfig reloads the config file at path whenever it changes and sends
// the result on the returned channel. The channel is closed when ctx is done.
// Uses fsnotify for efficient file watching with polling fallback.
//
// The watch is in place when WatchConfig returns, so any later change to the
// file is reported.
func WatchConfig(ctx context.Context, path string) <-chan ConfigUpdate {
	ch := make(chan ConfigUpdate, 1)

	watcher, err := newDirWatcher(path)
	if err != nil {
		lastMod := modTime(path)
		go func() {
			defer close(ch)
			watchPolling(ctx, path, lastMod, ch)
		}()
		return ch
	}

	go func() {
		defer close(ch)
		defer watcher.Close()
		watchEvents(ctx, path, ch, watcher)
	}()
	return ch
}

// newDirWatcher watches the directory holding path: editors replace files
// rather than write in place.
func newDirWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func watchEvents(ctx context.Context, path string, ch chan<- ConfigUpdate, watcher *fsnotify.Watcher) {
	baseName := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !sendUpdate(ctx, ch, path) {
				return
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// watchPolling reports changes whose modification time is after lastMod.
func watchPolling(ctx context.Context, path string, lastMod time.Time, ch chan<- ConfigUpdate) {
	ticker := time.NewTicker(configPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil || !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			if !sendUpdate(ctx, ch, path) {
				return
			}
		}
	}
}

func sendUpdate(ctx context.Context, ch chan<- ConfigUpdate, path string) bool {
	cfg, err := LoadConfigFile(path)
	select {
	case ch <- ConfigUpdate{Config: cfg, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}
