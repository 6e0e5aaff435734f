package main

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// fileTrigger calls fn once the watched files have been quiet for debounce
// after a write or create.
type fileTrigger struct {
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

func newFileTrigger(paths []string, debounce time.Duration, fn func(path string)) (*fileTrigger, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		watched[abs] = true
		// editors replace files, so watch the directory rather than the file
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
		dirs[dir] = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	ft := &fileTrigger{watcher: watcher, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(ft.done)
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				abs, _ := filepath.Abs(event.Name)
				if !watched[abs] {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() { fn(abs) })
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("[Watch] Watcher error: %v", err)
			}
		}
	}()
	return ft, nil
}

func (ft *fileTrigger) Close() {
	ft.cancel()
	ft.watcher.Close()
	<-ft.done
}

// serialRunner drops triggers that arrive while a run is in progress.
type serialRunner struct {
	mu  sync.Mutex
	run func(reason string)
}

func (r *serialRunner) trigger(reason string) {
	if !r.mu.TryLock() {
		log.WithField("reason", reason).Info("[Watch] Run in progress, skipping")
		return
	}
	defer r.mu.Unlock()
	r.run(reason)
}

func startSchedule(expr string, fn func()) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(expr, fn); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
