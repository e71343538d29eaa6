package sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	stdsync "sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// addCoalescingWindow is how long a new file must stay quiet before its add
// is emitted. Writes that follow the create inside the window are absorbed.
const addCoalescingWindow = 50 * time.Millisecond

// EventOp represents the type of file system operation
type EventOp int

const (
	// OpReady is emitted once, after the initial scan completes
	OpReady EventOp = iota
	// OpAdd indicates a new file appeared
	OpAdd
	// OpChange indicates an existing file was written
	OpChange
	// OpUnlink indicates a file was removed
	OpUnlink
)

// String returns a human-readable representation of the operation
func (op EventOp) String() string {
	switch op {
	case OpReady:
		return "ready"
	case OpAdd:
		return "add"
	case OpChange:
		return "change"
	case OpUnlink:
		return "unlink"
	default:
		return "unknown"
	}
}

// FileEvent is a change to a file under the watched root
type FileEvent struct {
	// Path is the absolute path to the file that changed
	Path string
	Op   EventOp
}

// Watcher watches a directory tree recursively. Files present when the
// watch starts produce no events. A new file produces a single add once it
// has been quiet for a short window, however many writes created it.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	ignored func(string) bool

	events chan FileEvent
	errors chan error
	done   chan struct{}
	wg     stdsync.WaitGroup

	mu      stdsync.Mutex
	running bool
	stopped bool

	// Only touched by Start and then the event loop
	dirs        map[string]struct{}
	removedDirs map[string]struct{}
	// pendingAdds holds created files whose add has not been emitted yet,
	// in creation order
	pendingAdds []string
	pending     map[string]struct{}
}

// NewWatcher creates a Watcher for root. Paths for which ignored returns
// true are neither watched nor reported.
func NewWatcher(root string, ignored func(string) bool) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if ignored == nil {
		ignored = func(string) bool { return false }
	}

	return &Watcher{
		watcher:     watcher,
		root:        absRoot,
		ignored:     ignored,
		events:      make(chan FileEvent, 100),
		errors:      make(chan error, 10),
		done:        make(chan struct{}),
		dirs:        make(map[string]struct{}),
		removedDirs: make(map[string]struct{}),
		pending:     make(map[string]struct{}),
	}, nil
}

// Root returns the absolute watched root
func (w *Watcher) Root() string {
	return w.root
}

// Start adds the tree to the watch and begins emitting events. OpReady is
// the first event delivered.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running || w.stopped {
		return fmt.Errorf("watcher already started")
	}

	if _, err := w.addDirRecursive(w.root); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Close stops watching and closes the Events and Errors channels. It
// blocks until the event loop has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	w.running = false
	w.mu.Unlock()

	close(w.done)

	err := w.watcher.Close()

	w.wg.Wait()
	close(w.events)
	close(w.errors)

	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Events returns the channel that emits FileEvent notifications
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Errors returns the channel that emits watch errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// addDirRecursive adds dir and its subdirectories to the watch and returns
// the files found below it
func (w *Watcher) addDirRecursive(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			// Entries can vanish between readdir and lstat
			if errors.Is(err, os.ErrNotExist) && walkPath != dir {
				return nil
			}
			return err
		}

		if walkPath != w.root && w.ignored(walkPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if err := w.watcher.Add(walkPath); err != nil {
				return err
			}
			w.dirs[walkPath] = struct{}{}
			return nil
		}

		files = append(files, walkPath)
		return nil
	})

	return files, err
}

// processEvents converts fsnotify events until the watcher is closed
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	// Create a coalescing timer, initially stopped
	coalescingTimer := time.NewTimer(time.Hour)
	coalescingTimer.Stop()
	defer coalescingTimer.Stop()

	if !w.emit(FileEvent{Op: OpReady, Path: w.root}) {
		return
	}

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			events, coalescing := w.convertEvent(event)
			for _, fe := range events {
				if !w.emit(fe) {
					return
				}
			}
			if coalescing {
				// Restart the window; drain a fire we have not consumed
				if !coalescingTimer.Stop() {
					select {
					case <-coalescingTimer.C:
					default:
					}
				}
				coalescingTimer.Reset(addCoalescingWindow)
			}

		case <-coalescingTimer.C:
			for _, fe := range w.drainAdds() {
				if !w.emit(fe) {
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) emit(fe FileEvent) bool {
	select {
	case w.events <- fe:
		return true
	case <-w.done:
		return false
	}
}

// convertEvent maps an fsnotify event to the file events to emit now. The
// second result reports whether the event touched a pending add, which
// restarts the coalescing window.
func (w *Watcher) convertEvent(event fsnotify.Event) ([]FileEvent, bool) {
	path := event.Name
	if w.ignored(path) {
		return nil, false
	}

	switch {
	case event.Has(fsnotify.Create):
		delete(w.removedDirs, path)
		info, err := os.Stat(path)
		if err != nil {
			// Already gone; the removal that follows cancels it
			w.deferAdd(path)
			return nil, true
		}
		if !info.IsDir() {
			w.deferAdd(path)
			return nil, true
		}

		// A new directory may already hold files by the time it is watched
		files, err := w.addDirRecursive(path)
		if err != nil {
			w.reportError(fmt.Errorf("failed to watch new directory %s: %w", path, err))
		}
		for _, f := range files {
			w.deferAdd(f)
		}
		return nil, len(files) > 0

	case event.Has(fsnotify.Write):
		if _, isDir := w.dirs[path]; isDir {
			return nil, false
		}
		if _, isPending := w.pending[path]; isPending {
			return nil, true
		}
		return []FileEvent{{Path: path, Op: OpChange}}, false

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if _, isDir := w.dirs[path]; isDir {
			w.forgetDir(path)
			return nil, false
		}
		// Both the parent and the directory itself report a removal
		if _, wasDir := w.removedDirs[path]; wasDir {
			delete(w.removedDirs, path)
			return nil, false
		}
		// A file that vanished before its add was emitted was never seen
		if _, isPending := w.pending[path]; isPending {
			w.dropAdd(path)
			return nil, false
		}
		return []FileEvent{{Path: path, Op: OpUnlink}}, false
	}

	return nil, false
}

func (w *Watcher) deferAdd(path string) {
	if _, ok := w.pending[path]; ok {
		return
	}
	w.pending[path] = struct{}{}
	w.pendingAdds = append(w.pendingAdds, path)
}

func (w *Watcher) dropAdd(path string) {
	delete(w.pending, path)
	for i, p := range w.pendingAdds {
		if p == path {
			w.pendingAdds = append(w.pendingAdds[:i], w.pendingAdds[i+1:]...)
			return
		}
	}
}

// drainAdds returns the pending adds that still exist as files, in creation
// order, and resets the buffer
func (w *Watcher) drainAdds() []FileEvent {
	out := make([]FileEvent, 0, len(w.pendingAdds))
	for _, path := range w.pendingAdds {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		out = append(out, FileEvent{Path: path, Op: OpAdd})
	}
	w.pendingAdds = nil
	w.pending = make(map[string]struct{})
	return out
}

// forgetDir drops dir and everything below it from the watch
func (w *Watcher) forgetDir(dir string) {
	prefix := dir + string(filepath.Separator)
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			// fsnotify drops watches on removed directories itself
			_ = w.watcher.Remove(d)
			delete(w.dirs, d)
			w.removedDirs[d] = struct{}{}
		}
	}
}

// reportError drops the error if nobody is reading
func (w *Watcher) reportError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
