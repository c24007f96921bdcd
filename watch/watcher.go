// Package watch turns raw fsnotify events into per-directory change
// notifications for the tree. The watcher never touches the tree itself:
// events are delivered on a channel and the consumer applies them with
// Tree.Refresh on its own goroutine, preserving the tree's single-writer
// model.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/projtree/projtree/internal/util"
)

// Event reports that the contents of Dir may have changed
type Event struct {
	Dir string
}

// Watcher wraps an fsnotify watcher, folding entry-level events into the
// containing directory. Watches are non-recursive; callers typically watch
// the directories that are currently expanded in the UI.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan Event
	log    zerolog.Logger
}

func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:    fsw,
		events: make(chan Event, 64),
		log:    util.GetLogger("watch"),
	}, nil
}

// Watch adds a directory to the watch set. Adding a path twice is a no-op.
func (w *Watcher) Watch(dir string) error {
	return w.fsw.Add(dir)
}

// Unwatch removes a directory from the watch set
func (w *Watcher) Unwatch(dir string) error {
	return w.fsw.Remove(dir)
}

// Watched returns the directories currently in the watch set
func (w *Watcher) Watched() []string {
	return w.fsw.WatchList()
}

// Events returns the channel on which directory change events are delivered
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run pumps fsnotify events until the context is cancelled or the underlying
// watcher closes. Events for an entry are reported against its containing
// directory, since that is the node a refresh enters at.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			dir := filepath.Dir(ev.Name)
			w.log.Trace().Str("op", ev.Op.String()).Str("path", ev.Name).Msg("fs event")
			select {
			case w.events <- Event{Dir: dir}:
			default:
				// Consumer is behind; the next refresh of the directory picks
				// up whatever this event reported anyway.
				w.log.Debug().Str("dir", dir).Msg("event dropped, channel full")
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// Close shuts the watcher down; Run returns once the event stream drains
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
