// Package watch observes the served directory tree and reports changes.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"modserve/src/internal/domain"
	"modserve/src/internal/service/reload"
)

const debounceInterval = 100 * time.Millisecond

// Watcher follows a directory tree recursively and publishes a debounced
// reload event to the hub after each burst of filesystem changes.
type Watcher struct {
	root string
	hub  *reload.Hub
	fsw  *fsnotify.Watcher
}

func Create(root string, hub *reload.Hub) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root: root,
		hub:  hub,
		fsw:  fsw,
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	return w, nil
}

// addRecursive registers dir and every non-ignored directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && ignored(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// ignored filters out editor artifacts and hidden files such as .git.
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp")
}

// Run processes filesystem events until the watcher is closed. Bursts of
// events within the debounce window collapse into a single publish.
func (w *Watcher) Run() {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	var (
		pending domain.ReloadEvent
		armed   bool
	)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ignored(filepath.Base(ev.Name)) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// New directories need to join the watch set so files
				// created inside them are seen.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						logrus.Warnf("Could not watch new directory %s: %v", ev.Name, err)
					}
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				rel = ev.Name
			}
			pending = domain.ReloadEvent{
				Path: filepath.ToSlash(rel),
				Op:   ev.Op.String(),
			}

			if armed && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounceInterval)
			armed = true

		case <-timer.C:
			armed = false
			logrus.Debugf("Change detected: %s", pending.Path)
			w.hub.Publish(pending)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logrus.Warnf("Watcher error: %v", err)
		}
	}
}

// Close stops the watcher; Run returns once the event channel drains.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
