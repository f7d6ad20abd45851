package tui

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher turns filesystem events under an image directory into change
// notifications for the model. Bursts collapse into one notification.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	changes   chan struct{}
	done      chan struct{}
}

// Watch starts watching root and every directory below it
func Watch(root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsWatcher.Add(path)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers one value per burst of filesystem events
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and closes the Changes channel
func (w *Watcher) Close() error {
	err := w.fsWatcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				// New subdirectories are watched too; Add on a file is harmless
				_ = w.fsWatcher.Add(event.Name)
			}
			logrus.WithField("file", event.Name).Debugf("image directory changed: %s", event.Op)
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Warn("watcher error")
		}
	}
}
