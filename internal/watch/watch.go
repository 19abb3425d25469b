// Package watch re-applies fixes whenever their target files change,
// e.g. after a package upgrade rewrites xorg.conf.d.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jopey-woof/turt3/internal/fix"
	"github.com/jopey-woof/turt3/internal/logging"
	"github.com/jopey-woof/turt3/internal/report"
)

// Config configures a Watcher
type Config struct {
	Fixes    []fix.Fix
	Run      fix.RunOptions
	Debounce time.Duration
	Output   io.Writer
	Logger   *logging.Logger

	// OnResult is called for every run that applied or failed
	OnResult func(*report.Result)
}

// Watcher watches fix targets and re-applies them on change
type Watcher struct {
	config  Config
	targets map[string]fix.Fix
	ready   chan struct{}
}

// New creates a watcher
func New(config Config) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}
	if config.Output == nil {
		config.Output = io.Discard
	}
	if config.Logger == nil {
		config.Logger = logging.Nop()
	}

	targets := make(map[string]fix.Fix, len(config.Fixes))
	for _, f := range config.Fixes {
		targets[filepath.Clean(f.Target(config.Run.Root))] = f
	}

	return &Watcher{
		config:  config,
		targets: targets,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once every directory is being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run applies every fix once, then watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	dirs := make(map[string]bool)
	for target := range w.targets {
		dir := filepath.Dir(target)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		w.config.Logger.Debug("watching directory", map[string]interface{}{"dir": dir})
	}
	close(w.ready)

	for target := range w.targets {
		w.apply(target)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.config.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if _, tracked := w.targets[name]; !tracked {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending[name] = true
			timer.Reset(w.config.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Error(fmt.Sprintf("watch error: %v", err))

		case <-timer.C:
			for target := range pending {
				w.apply(target)
			}
			pending = make(map[string]bool)
		}
	}
}

// apply runs the fix for target. Not-found runs are expected (every write
// we make triggers one) and stay silent.
func (w *Watcher) apply(target string) {
	f := w.targets[target]

	var buf bytes.Buffer
	result := fix.Run(&buf, f, w.config.Run)
	if result.Outcome == report.OutcomeNotFound {
		return
	}

	w.config.Output.Write(buf.Bytes())
	result.LogSummary(w.config.Logger)
	if w.config.OnResult != nil {
		w.config.OnResult(result)
	}
}
