// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the flush period used when Config.Interval is not set.
const DefaultInterval = 350 * time.Millisecond

// Change kinds.
const (
	KindCreate Kind = iota + 1
	KindWrite
	KindRemove
	KindRename
)

// ErrSourceStarted is returned when Changes is called more than once.
var ErrSourceStarted = errors.New("watch: source already started")

type (
	// Kind classifies a Change.
	Kind int

	// Change is a single changed path, relative to the source's base
	// directory and slash-separated.
	Change struct {
		Path string
		Kind Kind
	}

	// Batch is the set of changes observed during one interval, at most one
	// entry per path, in order of first appearance.
	Batch []Change

	// Source produces batches of changes. The returned channel is closed
	// when ctx is cancelled or the source fails; Err reports the failure.
	Source interface {
		Changes(ctx context.Context) (<-chan Batch, error)
		Err() error
	}

	// Config holds the parameters for an FSSource.
	Config struct {
		// Paths are the roots to watch, relative to BaseDir. Files are
		// watched through their parent directory. Empty means BaseDir.
		Paths []string
		// Match are doublestar patterns selecting reported paths. Empty
		// reports everything that is not skipped.
		Match []string
		// Skip are doublestar patterns for paths never reported, in addition
		// to DefaultIgnores.
		Skip []string
		// Extensions is an allow-list of file extensions, with or without
		// the leading dot.
		Extensions []string
		// Interval is the flush period. Zero or negative means
		// DefaultInterval.
		Interval time.Duration
		// Recursive registers every directory below a directory root,
		// including ones created later.
		Recursive bool
		// BaseDir anchors relative paths. Empty means the working directory.
		BaseDir string
		Logger  *log.Logger
	}

	// FSSource is a Source backed by fsnotify.
	FSSource struct {
		fsw      *fsnotify.Watcher
		filter   *filter
		baseDir  string
		interval time.Duration
		recurse  bool
		logger   *log.Logger
		// files are watched file roots; dirs are watched directory roots.
		files   map[string]bool
		dirs    []string
		started atomic.Bool

		mu  sync.Mutex
		err error
	}
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindWrite:
		return "write"
	case KindRemove:
		return "remove"
	case KindRename:
		return "rename"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Paths returns the changed paths in batch order.
func (b Batch) Paths() []string {
	paths := make([]string, len(b))
	for i, c := range b {
		paths[i] = c.Path
	}
	return paths
}

// NewFSSource validates cfg and registers its roots with fsnotify. Nothing is
// delivered until Changes is called.
func NewFSSource(cfg Config) (*FSSource, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	flt, err := newFilter(cfg.Match, cfg.Skip, cfg.Extensions)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &FSSource{
		fsw:      fsw,
		filter:   flt,
		baseDir:  absBase,
		interval: interval,
		recurse:  cfg.Recursive,
		logger:   logger,
		files:    make(map[string]bool),
	}

	roots := cfg.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if err := s.addRoot(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return s, nil
}

// Changes starts delivering batches. It may be called once.
func (s *FSSource) Changes(ctx context.Context) (<-chan Batch, error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, ErrSourceStarted
	}
	out := make(chan Batch)
	go s.loop(ctx, out)
	return out, nil
}

// Err returns the error that stopped the source, if any.
func (s *FSSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the watcher without starting it.
func (s *FSSource) Close() error {
	if s.started.CompareAndSwap(false, true) {
		return s.fsw.Close()
	}
	return nil
}

func (s *FSSource) loop(ctx context.Context, out chan<- Batch) {
	defer close(out)
	defer func() {
		if err := s.fsw.Close(); err != nil {
			s.logger.Warn("watch: close fsnotify", "err", err)
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var pending, ready Batch
	for {
		// Only offer ready when there is something to send; a nil channel
		// blocks forever so accumulation continues while the consumer is busy.
		var send chan<- Batch
		if len(ready) > 0 {
			send = out
		}

		select {
		case <-ctx.Done():
			return

		case send <- ready:
			ready = nil

		case <-ticker.C:
			if len(pending) > 0 {
				ready = mergeBatch(ready, pending)
				pending = nil
			}

		case evt, ok := <-s.fsw.Events:
			if !ok {
				s.setErr(errors.New("watch: fsnotify event channel closed unexpectedly"))
				return
			}
			if change, ok := s.accept(evt); ok {
				pending = mergeBatch(pending, Batch{change})
			}

		case err, ok := <-s.fsw.Errors:
			if !ok {
				s.setErr(errors.New("watch: fsnotify error channel closed unexpectedly"))
				return
			}
			if isFatalWatchError(err) {
				s.setErr(fmt.Errorf("watch: fatal fsnotify error: %w", err))
				return
			}
			s.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

// accept converts an fsnotify event into a Change, or reports false when the
// event is chmod-only, outside the roots or filtered out.
func (s *FSSource) accept(evt fsnotify.Event) (Change, bool) {
	kind := kindOf(evt.Op)
	if kind == 0 {
		return Change{}, false
	}

	abs := filepath.Clean(evt.Name)
	if !s.inRoots(abs) {
		return Change{}, false
	}

	rel := s.rel(abs)
	if kind == KindCreate && s.recurse {
		s.maybeAddDir(abs)
	}
	if !s.filter.allows(rel) {
		return Change{}, false
	}
	return Change{Path: rel, Kind: kind}, true
}

func (s *FSSource) addRoot(root string) error {
	abs := filepath.FromSlash(root)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(s.baseDir, abs)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch: path %q: %w", root, err)
	}

	if !info.IsDir() {
		s.files[abs] = true
		if err := s.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch: add %q: %w", root, err)
		}
		return nil
	}

	s.dirs = append(s.dirs, abs)
	if !s.recurse {
		if err := s.fsw.Add(abs); err != nil {
			return fmt.Errorf("watch: add %q: %w", root, err)
		}
		return nil
	}
	return s.addTree(abs)
}

// addTree registers dir and every non-ignored directory below it.
func (s *FSSource) addTree(dir string) error {
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("watch: skipping inaccessible path", "path", p, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && s.filter.ignored(s.rel(p)) {
			return filepath.SkipDir
		}
		if err := s.fsw.Add(p); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", p, err)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir extends a recursive watch to a directory created after start.
func (s *FSSource) maybeAddDir(p string) {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return
	}
	if err := s.addTree(p); err != nil {
		s.logger.Warn("watch: add new directory", "path", p, "err", err)
	}
}

// inRoots reports whether abs is a watched file, or lies below a watched
// directory (directly, unless recursive).
func (s *FSSource) inRoots(abs string) bool {
	if s.files[abs] {
		return true
	}
	for _, dir := range s.dirs {
		rel, err := filepath.Rel(dir, abs)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if s.recurse || !strings.Contains(rel, string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *FSSource) rel(abs string) string {
	rel, err := filepath.Rel(s.baseDir, abs)
	if err != nil {
		rel = abs
	}
	return filepath.ToSlash(rel)
}

func (s *FSSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// kindOf maps an fsnotify op to a Kind; chmod-only events map to 0.
func kindOf(op fsnotify.Op) Kind {
	switch {
	case op.Has(fsnotify.Remove):
		return KindRemove
	case op.Has(fsnotify.Rename):
		return KindRename
	case op.Has(fsnotify.Create):
		return KindCreate
	case op.Has(fsnotify.Write):
		return KindWrite
	default:
		return 0
	}
}

// mergeBatch appends the changes of b to into, replacing the kind of paths
// already present so each path appears once.
func mergeBatch(into, b Batch) Batch {
	for _, c := range b {
		idx := -1
		for i := range into {
			if into[i].Path == c.Path {
				idx = i
				break
			}
		}
		if idx >= 0 {
			into[idx].Kind = c.Kind
			continue
		}
		into = append(into, c)
	}
	return into
}
