// Package watcher observes the project directory for external edits and
// forwards debounced change notifications to the indexer. Edits made by
// the editor itself are announced through Suppress and their echo
// events discarded.
package watcher

import (
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"docnav/internal/index"
)

const (
	// DefaultDebounce coalesces events for the same path arriving
	// within this window into one refresh.
	DefaultDebounce = 250 * time.Millisecond

	// suppressionTTL is how long an editor write shields its path from
	// echo events.
	suppressionTTL = 2 * time.Second
)

// Watcher drives index refreshes from filesystem events.
type Watcher struct {
	ix       *index.Index
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer

	supMu       sync.Mutex
	suppressed  map[string]time.Time
	suppressTTL time.Duration

	fswMu sync.Mutex
	fsw   *fsnotify.Watcher

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a Watcher for the index's project root. debounce <= 0
// selects DefaultDebounce.
func New(ix *index.Index, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		ix:          ix,
		debounce:    debounce,
		pending:     make(map[string]bool),
		suppressed:  make(map[string]time.Time),
		suppressTTL: suppressionTTL,
		done:        make(chan struct{}),
	}
}

// Start registers watches on the project tree and begins forwarding
// events. It returns once the watch is established.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.setWatcher(fsw)
	if err := w.addRecursive(w.ix.Root()); err != nil {
		fsw.Close()
		return err
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop terminates the watch. Pending debounced changes are flushed.
func (w *Watcher) Stop() {
	close(w.done)
	if fsw := w.watcher(); fsw != nil {
		fsw.Close()
	}
	w.wg.Wait()
	w.flush()
}

// watcher returns the active fsnotify watcher. The loop goroutine
// swaps it on reinit while Stop closes it from the caller's goroutine.
func (w *Watcher) watcher() *fsnotify.Watcher {
	w.fswMu.Lock()
	defer w.fswMu.Unlock()
	return w.fsw
}

func (w *Watcher) setWatcher(fsw *fsnotify.Watcher) {
	w.fswMu.Lock()
	defer w.fswMu.Unlock()
	w.fsw = fsw
}

// Suppress shields rel (a project-relative path) from the next echo
// event, typically caused by the editor's own write. The shield expires
// after suppressionTTL.
func (w *Watcher) Suppress(rel string) {
	w.supMu.Lock()
	defer w.supMu.Unlock()
	w.suppressed[filepath.ToSlash(rel)] = time.Now()
}

// isSuppressed reports an active suppression for rel. The whole TTL
// window is shielded because one editor write can surface as several
// filesystem events.
func (w *Watcher) isSuppressed(rel string) bool {
	w.supMu.Lock()
	defer w.supMu.Unlock()
	at, ok := w.suppressed[rel]
	if !ok {
		return false
	}
	if time.Since(at) > w.suppressTTL {
		delete(w.suppressed, rel)
		return false
	}
	return true
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	fsw := w.watcher()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Printf("WARNING: filesystem watch error: %v", err)
			fsw = w.reinit(fsw)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)

	// New directories join the watch so files created inside them are
	// seen. ev.Name may be a plain file; addRecursive ignores those.
	if ev.Op.Has(fsnotify.Create) && !index.IgnoredDir(name) {
		_ = w.addRecursive(ev.Name)
	}

	if !index.MarkupFile(name) {
		return
	}

	rel, err := filepath.Rel(w.ix.Root(), ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, ".") {
		return
	}
	if w.isSuppressed(rel) {
		return
	}

	if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		w.enqueue(rel)
	}
}

// enqueue batches a changed path and (re)arms the debounce timer.
func (w *Watcher) enqueue(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush hands the accumulated batch to the indexer as one refresh.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for rel := range w.pending {
		batch = append(batch, rel)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if err := w.ix.Refresh(batch); err != nil {
		log.Printf("WARNING: refresh after file change: %v", err)
	}
}

// reinit rebuilds the watch from scratch after the underlying mechanism
// dropped, then forces a full re-discovery — events may have been lost.
// It returns the watcher the loop should keep consuming from; on
// failure that is still the old one, whose closed channels wind the
// loop down.
func (w *Watcher) reinit(old *fsnotify.Watcher) *fsnotify.Watcher {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WARNING: cannot reinitialize filesystem watch: %v", err)
		return old
	}
	w.setWatcher(fsw)
	old.Close()
	if err := w.addRecursive(w.ix.Root()); err != nil {
		log.Printf("WARNING: re-adding watches: %v", err)
	}
	if err := w.ix.Rebuild(); err != nil {
		log.Printf("WARNING: rebuild after watch loss: %v", err)
	}
	return fsw
}

// addRecursive watches dir and every non-ignored directory below it.
// Passing a file path is a no-op.
func (w *Watcher) addRecursive(dir string) error {
	fsw := w.watcher()
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && index.IgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(p)
	})
}
