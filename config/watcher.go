package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/grammar/script"
	"github.com/dshills/limn/logging"
)

// defaultDebounce batches the event bursts editors produce when saving.
const defaultDebounce = 200 * time.Millisecond

// WatcherStats holds counters for watcher activity.
type WatcherStats struct {
	Events  int64 // filesystem events seen
	Reloads int64 // grammars evicted for reload
}

// Watcher watches a script grammar directory and evicts cached grammars
// when their scripts or the manifest change, so the next load picks up
// the edited source.
type Watcher struct {
	dir      string
	loader   *grammar.Loader
	log      *logging.Logger
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	started bool

	events  atomic.Int64
	reloads atomic.Int64
}

// NewWatcher creates a watcher over the script grammar directory.
func NewWatcher(dir string, loader *grammar.Loader, log *logging.Logger) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("watcher: empty directory")
	}
	if log == nil {
		log = logging.NullLogger
	}
	return &Watcher{
		dir:      dir,
		loader:   loader,
		log:      log.WithComponent("watcher"),
		debounce: defaultDebounce,
	}, nil
}

// SetDebounce overrides the debounce interval. Must be called before
// Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Start begins watching. Stop releases the watch.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("watcher: already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watcher: watch %s: %w", w.dir, err)
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.started = true
	w.wg.Add(1)
	go w.run()

	w.log.Info("watching script grammars in %s", w.dir)
	return nil
}

// Stop stops watching. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	close(w.done)
	w.fsw.Close()
	w.mu.Unlock()

	w.wg.Wait()
}

// Stats returns a snapshot of watcher counters.
func (w *Watcher) Stats() WatcherStats {
	return WatcherStats{
		Events:  w.events.Load(),
		Reloads: w.reloads.Load(),
	}
}

func (w *Watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]bool)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.events.Add(1)
			pending[filepath.Base(ev.Name)] = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)

		case <-timer.C:
			w.flush(pending)
			pending = make(map[string]bool)

		case <-w.done:
			return
		}
	}
}

// flush evicts the grammars whose scripts changed. A manifest change
// evicts every script grammar, since entries may have moved or been
// renamed.
func (w *Watcher) flush(changed map[string]bool) {
	if len(changed) == 0 {
		return
	}

	m, err := script.LoadManifest(w.dir)
	if err != nil {
		w.log.Warn("manifest reload failed: %v", err)
		return
	}

	manifestChanged := changed[script.ManifestName]
	for _, lang := range m.Languages {
		if !manifestChanged && !changed[filepath.Base(lang.Script)] {
			continue
		}
		w.loader.Evict(lang.ID)
		w.reloads.Add(1)
		w.log.Info("script grammar %s changed, evicted", lang.ID)
	}
}
