// Package watch detects saved source files so the compile-on-save task can
// run after an editing burst settles.
//
// The watcher scans the workspace tree on every poll and whenever the
// filesystem reports a change in a watched directory. Saves seen within
// one quiet period are delivered together as a single batch.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/dshills/oradew/internal/logging"
)

// DefaultExtensions are the PL/SQL source suffixes watched by default.
var DefaultExtensions = []string{".sql", ".pks", ".pkb", ".prc", ".fnc", ".trg", ".tps", ".tpb"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".vscode":      true,
	"out":          true,
}

// Op is the kind of save.
type Op int

const (
	// OpWrite indicates an existing file was rewritten.
	OpWrite Op = iota

	// OpCreate indicates a new file appeared.
	OpCreate
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Change is one saved file.
type Change struct {
	// Path is the absolute path of the file.
	Path string

	// Op is the first operation seen for the file in the batch.
	Op Op

	// Time is when the latest save was detected.
	Time time.Time
}

// Handler receives a batch of changes, sorted by path.
type Handler func(changes []Change)

// fileState is what a poll remembers about a file.
type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher polls a directory tree for saved source files.
type Watcher struct {
	mu sync.Mutex

	root     string
	match    func(path string) bool
	patterns []string
	handler  Handler
	logger   logging.Logger

	interval time.Duration
	quiet    time.Duration

	files      map[string]fileState
	dirs       map[string]bool
	pending    map[string]Change
	lastChange time.Time

	useNotify bool
	// notify is nil when filesystem events are disabled or unavailable.
	notify *fsnotify.Watcher
	// notified holds the directories subscribed on notify.
	notified map[string]bool

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithQuietPeriod sets how long the tree must be unchanged before a batch is delivered.
func WithQuietPeriod(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.quiet = d
		}
	}
}

// WithExtensions watches files with the given suffixes, compared case-insensitively.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.match = extensionMatcher(exts)
	}
}

// WithPatterns watches files whose slash-separated path relative to the
// root matches one of the doublestar patterns, e.g. "src/**/*.sql".
// Patterns replace the extension filter.
func WithPatterns(patterns ...string) Option {
	return func(w *Watcher) {
		w.patterns = patterns
	}
}

// WithNotify enables or disables filesystem event wakeups. Polling
// continues either way.
func WithNotify(enabled bool) Option {
	return func(w *Watcher) {
		w.useNotify = enabled
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

func extensionMatcher(exts []string) func(string) bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return func(path string) bool {
		return set[strings.ToLower(filepath.Ext(path))]
	}
}

// New creates a watcher for root. Files already present are recorded so
// only later saves are reported.
func New(root string, handler Handler, opts ...Option) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "watch", Path: absRoot, Err: fs.ErrInvalid}
	}

	w := &Watcher{
		root:     absRoot,
		match:    extensionMatcher(DefaultExtensions),
		handler:  handler,
		logger:   logging.Nop(),
		interval:  500 * time.Millisecond,
		quiet:     300 * time.Millisecond,
		files:     make(map[string]fileState),
		dirs:      make(map[string]bool),
		pending:   make(map[string]Change),
		useNotify: true,
		notified:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	if len(w.patterns) > 0 {
		for _, p := range w.patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("invalid watch pattern %q: %w", p, doublestar.ErrBadPattern)
			}
		}
		w.match = w.patternMatcher()
	}

	w.scan(time.Now())
	// The first scan records the baseline.
	w.pending = make(map[string]Change)
	w.lastChange = time.Time{}
	return w, nil
}

func (w *Watcher) patternMatcher() func(string) bool {
	return func(path string) bool {
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return false
		}
		rel = filepath.ToSlash(rel)
		for _, p := range w.patterns {
			if ok, _ := doublestar.Match(p, rel); ok {
				return true
			}
		}
		return false
	}
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Start begins polling.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.running = true

	var events <-chan fsnotify.Event
	var errs <-chan error
	if w.useNotify {
		n, err := fsnotify.NewWatcher()
		if err != nil {
			w.logger.Warn("filesystem events unavailable, polling only", "error", err)
		} else {
			w.notify = n
			w.notified = make(map[string]bool)
			events, errs = n.Events, n.Errors
			w.syncNotifyLocked()
		}
	}
	w.mu.Unlock()

	w.wg.Add(1)
	go w.pollLoop(ctx, events, errs)
}

// Stop stops polling. Pending changes are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()

	w.mu.Lock()
	if w.notify != nil {
		_ = w.notify.Close()
		w.notify = nil
	}
	w.mu.Unlock()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// WatchedFiles returns the tracked files, sorted.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// pollLoop scans at regular intervals and on filesystem events, and
// delivers settled batches. Nil event channels are never ready.
func (w *Watcher) pollLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.scan(now)
			w.syncNotify()
			w.flush(now)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			w.scan(time.Now())
			w.syncNotify()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("filesystem event error", "error", err)
		}
	}
}

// syncNotify subscribes directories found by the last scan.
func (w *Watcher) syncNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.syncNotifyLocked()
}

// syncNotifyLocked is syncNotify with mu held. Removed directories drop
// out of the event watcher by themselves.
func (w *Watcher) syncNotifyLocked() {
	if w.notify == nil {
		return
	}
	for dir := range w.notified {
		if !w.dirs[dir] {
			delete(w.notified, dir)
		}
	}
	for dir := range w.dirs {
		if w.notified[dir] {
			continue
		}
		if err := w.notify.Add(dir); err != nil {
			w.logger.Debug("cannot watch directory", "dir", dir, "error", err)
			continue
		}
		w.notified[dir] = true
	}
}

// scan walks the tree and queues saves detected since the last scan.
// Removed files are forgotten without an event.
func (w *Watcher) scan(now time.Time) {
	seen := make(map[string]fileState)
	dirs := make(map[string]bool)
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped; the next scan retries them.
			if d != nil && d.IsDir() && path != w.root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != w.root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return fs.SkipDir
			}
			dirs[path] = true
			return nil
		}
		if !d.Type().IsRegular() || !w.match(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		seen[path] = fileState{modTime: info.ModTime(), size: info.Size()}
		return nil
	})
	if err != nil {
		w.logger.Warn("scan failed", "root", w.root, "error", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for path, state := range seen {
		old, known := w.files[path]
		switch {
		case !known:
			w.queue(Change{Path: path, Op: OpCreate, Time: now})
		case !state.modTime.Equal(old.modTime) || state.size != old.size:
			w.queue(Change{Path: path, Op: OpWrite, Time: now})
		}
	}
	w.files = seen
	w.dirs = dirs
}

// queue coalesces a change into the pending batch. A create stays a
// create when the file is written again before delivery. Caller holds mu.
func (w *Watcher) queue(c Change) {
	if existing, ok := w.pending[c.Path]; ok {
		c.Op = existing.Op
	}
	w.pending[c.Path] = c
	w.lastChange = c.Time
}

// flush delivers the pending batch once no change arrived for the quiet period.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	if len(w.pending) == 0 || now.Sub(w.lastChange) < w.quiet {
		w.mu.Unlock()
		return
	}
	batch := make([]Change, 0, len(w.pending))
	for _, c := range w.pending {
		batch = append(batch, c)
	}
	w.pending = make(map[string]Change)
	w.mu.Unlock()

	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	w.logger.Debug("files saved", "count", len(batch))
	w.safeCallHandler(batch)
}

// safeCallHandler calls the handler with panic recovery.
func (w *Watcher) safeCallHandler(batch []Change) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("save handler panicked", "panic", r)
		}
	}()
	w.handler(batch)
}
