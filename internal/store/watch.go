package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watcher invalidates cache entries when implication files change on disk,
// so edits made outside the server (a text editor, a git checkout) are picked
// up on the next load.
type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

func (w *watcher) start(s *Store) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}
	if err := fsWatcher.Add(s.root); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("store: watch %s: %w", s.root, err)
	}

	w.fs = fsWatcher
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				base := filepath.Base(event.Name)
				if !strings.HasSuffix(base, ".json") || strings.HasPrefix(base, ".") {
					continue
				}
				s.invalidate(strings.TrimSuffix(base, ".json"))
			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (w *watcher) stop() error {
	if w.fs == nil {
		return nil
	}
	err := w.fs.Close()
	<-w.done
	return err
}
