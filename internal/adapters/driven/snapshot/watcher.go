package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/logger"
)

// Replacer swaps the dataset a snapshot store serves.
type Replacer interface {
	Replace(snap *domain.Snapshot)
}

// Watcher reloads a JSON snapshot file into a store whenever it changes.
// The parent directory is watched so editors and tools that replace the file
// by rename are picked up. A file that fails to decode leaves the previous
// snapshot in place.
type Watcher struct {
	path    string
	store   Replacer
	watcher *fsnotify.Watcher

	closeOnce sync.Once
	reloads   chan error
}

// NewWatcher starts watching path. Call Run to process events.
func NewWatcher(path string, store Replacer) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		store:   store,
		watcher: fw,
		reloads: make(chan error, 16),
	}, nil
}

// Reloads reports the outcome of each reload attempt. Results are dropped
// when nobody is reading.
func (w *Watcher) Reloads() <-chan error {
	return w.reloads
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("snapshot: watch error: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.reload()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		logger.Warn("snapshot: %s was removed; keeping the loaded snapshot", w.path)
	}
}

func (w *Watcher) reload() {
	snap, err := Load(w.path)
	if err != nil {
		logger.Warn("snapshot: reload of %s failed, keeping previous: %v", w.path, err)
	} else {
		w.store.Replace(snap)
		logger.Info("snapshot: reloaded %s", w.path)
	}

	select {
	case w.reloads <- err:
	default:
	}
}
