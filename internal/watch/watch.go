// Package watch observes the template directory with fsnotify and reports
// template change events, e.g. for SSE broadcasting.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/blueprint/internal/codec"
)

// EventCallback is called for each template change. kind is one of
// "created", "updated", "deleted"; key is the storage key that changed.
type EventCallback func(kind, key string)

// Run watches dir for template file changes until ctx is cancelled and
// calls cb (if non-nil) for each one. The store's atomic writes surface as
// Create events on the final path even for overwrites, so a known-key set
// tells creates and updates apart. The watcher is advisory: store
// operations never depend on it.
func Run(ctx context.Context, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	known := make(map[string]struct{})
	if entries, readErr := os.ReadDir(dir); readErr == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), codec.Ext) {
				known[e.Name()] = struct{}{}
			}
		}
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			key := filepath.Base(ev.Name)
			// Temp files from in-flight writes never end in the extension.
			if !strings.HasSuffix(key, codec.Ext) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				kind := "updated"
				if _, seen := known[key]; !seen {
					kind = "created"
					known[key] = struct{}{}
				}
				logger.Debug("watcher: "+kind, slog.String("key", key))
				if cb != nil {
					cb(kind, key)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if _, seen := known[key]; !seen {
					continue
				}
				delete(known, key)
				logger.Debug("watcher: deleted", slog.String("key", key))
				if cb != nil {
					cb("deleted", key)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
