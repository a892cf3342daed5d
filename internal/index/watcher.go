package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/vision2ui/internal/naming"
)

// Event kinds reported by Watch.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindRemoved = "removed"
)

// EventCallback is called for every change to a component file.
// name is the component name the file is listed under.
type EventCallback func(kind, filename, name string)

// Watch starts an fsnotify watcher on the storage directory and reports
// component file changes until ctx is cancelled. It keeps no index state;
// readers still call Rebuild. Subdirectories are not watched because only
// immediate files are indexed.
//
// fsnotify fires Rename on the old path only; the new path arrives as a
// separate Create, so a rename is reported as removed + created.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			filename := filepath.Base(ev.Name)
			if !strings.HasSuffix(filename, naming.Ext) {
				continue
			}
			name := naming.DeriveName(filename)
			if name == "" {
				continue
			}

			var kind string
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = KindCreated
			case ev.Op&fsnotify.Write != 0:
				kind = KindUpdated
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				kind = KindRemoved
			default:
				continue
			}

			logger.Debug("watcher: change",
				slog.String("op", kind),
				slog.String("filename", filename),
				slog.String("component", name))
			if cb != nil {
				cb(kind, filename, name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
