package allergen

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tair/allergy-scan/pkg/logger"
)

// Watcher reloads a registry from its CSV file whenever the file is written
type Watcher struct {
	path     string
	registry *Registry
	watcher  *fsnotify.Watcher
	log      zerolog.Logger
	reloaded chan struct{}
}

// NewWatcher watches the directory holding path. Editors that replace the
// file instead of writing it in place are picked up through Create events.
func NewWatcher(path string, registry *Registry) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		registry: registry,
		watcher:  w,
		log:      logger.Component("allergen-watcher"),
		reloaded: make(chan struct{}, 1),
	}, nil
}

// Watch processes file events until Close is called
func (fw *Watcher) Watch() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.Reload()
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Error().Err(err).Msg("File watcher error")
		}
	}
}

// Reload re-reads the file. On failure the previous vocabulary stays active.
func (fw *Watcher) Reload() {
	v, err := LoadCSV(fw.path)
	if err != nil {
		fw.log.Error().Err(err).Str("path", fw.path).Msg("Failed to reload allergen vocabulary")
		return
	}

	fw.registry.Replace(v)
	fw.log.Info().
		Str("path", fw.path).
		Int("allergens", v.Len()).
		Msg("Allergen vocabulary reloaded")

	select {
	case fw.reloaded <- struct{}{}:
	default:
	}
}

// Close stops watching
func (fw *Watcher) Close() error {
	return fw.watcher.Close()
}
