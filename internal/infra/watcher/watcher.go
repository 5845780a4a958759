package watcher

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the reports directory and calls onChange after JSON
// files are created, written, removed or renamed. Event bursts (editors,
// bulk copies) are coalesced through the debounce window. Blocks until
// ctx is cancelled.
func Watch(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				} else {
					timer.Reset(debounce)
				}
			}
		case <-fire:
			timer = nil
			fire = nil
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
