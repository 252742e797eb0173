// Package reload recompiles shaders when their source files change.
//
// File events arrive on a background goroutine, but GL calls must stay on
// the thread that owns the context, so the watcher only records which
// sources changed. The render loop calls Apply once per frame to free the
// affected passes, reload the shaders and link the passes again.
package reload

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/go-theft-auto/pipeline"
)

// ErrNoPath is returned by Add for shaders compiled from inline source.
var ErrNoPath = errors.New("reload: shader has no source path")

// Shader is a stage that can be recompiled from its source path.
type Shader interface {
	Path() string
	Reload() error
}

// Pass is a program that is freed before and linked after its shaders are
// reloaded. Implementations must be comparable; pointers are.
type Pass interface {
	Free() error
	Load() error
}

type target struct {
	shaders []Shader
	passes  []Pass
}

// Watcher maps source paths to the shaders compiled from them and the
// passes that use those shaders.
type Watcher struct {
	fsw *fsnotify.Watcher
	ops fsnotify.Op
	log *slog.Logger

	mu      sync.Mutex
	targets map[string]*target
	dirs    map[string]bool
	pending map[string]bool

	changed chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger. The default is pipeline.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// WithOps sets the file operations that mark a source as changed. The
// default is Write|Create|Rename, which covers editors that save by
// replacing the file.
func WithOps(op fsnotify.Op) Option {
	return func(w *Watcher) { w.ops = op }
}

// New starts a watcher. Close it when done.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	w := &Watcher{
		fsw:     fsw,
		ops:     fsnotify.Write | fsnotify.Create | fsnotify.Rename,
		log:     pipeline.Logger(),
		targets: make(map[string]*target),
		dirs:    make(map[string]bool),
		pending: make(map[string]bool),
		changed: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&w.ops == 0 {
				continue
			}
			if w.Notify(ev.Name) {
				w.log.Debug("shader source changed", "path", ev.Name, "op", ev.Op.String())
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watch", "err", err)
		}
	}
}

// Add watches s's source path. passes are the passes that attach s; they
// are relinked whenever s is reloaded. Adding the same shader again only
// adds passes.
//
// The directory is watched rather than the file so that sources replaced
// by rename keep being tracked.
func (w *Watcher) Add(s Shader, passes ...Pass) error {
	if s.Path() == "" {
		return ErrNoPath
	}
	path, err := filepath.Abs(s.Path())
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(path)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("reload: watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}

	t, ok := w.targets[path]
	if !ok {
		t = &target{}
		w.targets[path] = t
	}
	if !slices.Contains(t.shaders, s) {
		t.shaders = append(t.shaders, s)
	}
	for _, p := range passes {
		if !slices.Contains(t.passes, p) {
			t.passes = append(t.passes, p)
		}
	}
	return nil
}

// Notify marks path as changed, as a file event would. It reports whether
// the path is watched.
func (w *Watcher) Notify(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	_, ok := w.targets[abs]
	if ok {
		w.pending[abs] = true
	}
	w.mu.Unlock()

	if ok {
		select {
		case w.changed <- struct{}{}:
		default:
		}
	}
	return ok
}

// NotifyAll marks every watched path as changed.
func (w *Watcher) NotifyAll() {
	w.mu.Lock()
	for path := range w.targets {
		w.pending[path] = true
	}
	w.mu.Unlock()

	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// Changed receives a value when a watched source changes. Apply can be
// called without waiting on it.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Pending returns the changed paths not applied yet, sorted.
func (w *Watcher) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Apply reloads every shader whose source changed since the last call.
// The passes using them are freed first and linked again afterwards, so
// no program is relinked against a half-updated set of shaders. A shader
// that fails to compile keeps its previous object and the error is
// returned with the others. Apply must run on the GL thread. It returns
// the number of shaders reloaded successfully.
func (w *Watcher) Apply() (int, error) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	slices.Sort(paths)

	var (
		shaders []Shader
		passes  []Pass
	)
	for _, path := range paths {
		t := w.targets[path]
		for _, s := range t.shaders {
			if !slices.Contains(shaders, s) {
				shaders = append(shaders, s)
			}
		}
		for _, p := range t.passes {
			if !slices.Contains(passes, p) {
				passes = append(passes, p)
			}
		}
	}
	w.mu.Unlock()

	if len(shaders) == 0 {
		return 0, nil
	}

	var errs []error
	for _, p := range passes {
		if err := p.Free(); err != nil {
			errs = append(errs, err)
		}
	}
	n := 0
	for _, s := range shaders {
		if err := s.Reload(); err != nil {
			w.log.Warn("shader reload failed", "path", s.Path(), "err", err)
			errs = append(errs, err)
			continue
		}
		w.log.Info("shader reloaded", "path", s.Path())
		n++
	}
	for _, p := range passes {
		if err := p.Load(); err != nil {
			errs = append(errs, err)
		}
	}
	return n, errors.Join(errs...)
}

// Close stops watching. Pending changes are dropped.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
