package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch starts the fsnotify loop. The parent directory is watched rather
// than the file so that atomic replacements and late creation are seen.
func (s *Store) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	s.watcher = w

	s.wg.Add(1)
	go s.watchLoop(w)
	return nil
}

func (s *Store) watchLoop(w *fsnotify.Watcher) {
	defer s.wg.Done()

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
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !s.relevant(event) {
				continue
			}
			s.log.Debug("file event", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			s.reloadFromWatch()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("file watcher error", "error", err)

		case <-s.done:
			return
		}
	}
}

func (s *Store) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != s.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// reloadFromWatch reloads and logs failures; a panic is recovered so the
// watcher keeps running.
func (s *Store) reloadFromWatch() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic while reloading", "panic", r)
		}
	}()

	if err := s.Reload(context.Background()); err != nil {
		s.log.Warn("reload failed, keeping previous collection", "path", s.path, "error", err)
	}
}
