package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	stdsync "sync"
	"time"

	"github.com/spf13/afero"

	"github.com/emptypockets-dev/hubspot-cli/pkg/filemapper"
	"github.com/emptypockets-dev/hubspot-cli/pkg/sync/exclude"
)

// Config holds what every sync operation needs regardless of source and
// destination
type Config struct {
	Client    FileMapper
	AccountID int

	Logger *slog.Logger
	// Fs is used for the notify file and folder walks
	Fs afero.Fs

	// Concurrency caps in-flight remote operations (default 10)
	Concurrency int
	// NotifyQuietPeriod is the notify debounce window (default 1.5s)
	NotifyQuietPeriod time.Duration

	// ExcludePatterns are extra ignore globs
	ExcludePatterns []string
	// UseIgnoreFile loads the nearest .hsignore
	UseIgnoreFile bool

	// Source creates the event source for a watch (default: NewWatcher)
	Source SourceFunc
}

// EventSource delivers file events for one watched root. OpReady must be the
// first event; Close must close both channels.
type EventSource interface {
	Start() error
	Events() <-chan FileEvent
	Errors() <-chan error
	Close() error
}

// SourceFunc creates an EventSource for root. Paths for which ignored
// returns true must not be reported.
type SourceFunc func(root string, ignored func(string) bool) (EventSource, error)

func newWatcherSource(root string, ignored func(string) bool) (EventSource, error) {
	w, err := NewWatcher(root, ignored)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.NotifyQuietPeriod <= 0 {
		c.NotifyQuietPeriod = DefaultNotifyQuietPeriod
	}
	if c.Source == nil {
		c.Source = newWatcherSource
	}
	return c
}

// Options are the per-watch flags
type Options struct {
	Mode filemapper.Mode
	// Cwd is where the ignore file search starts (default: process cwd)
	Cwd string
	// Remove enables deleting remote files when local files are removed
	Remove bool
	// DisableInitial skips the initial upload of the whole tree
	DisableInitial bool
	// Notify is the notify file path; empty disables notifications
	Notify string
}

// newFilter builds the ignore filter shared by a watch and its initial sync
func newFilter(cfg Config, opts Options) (*Filter, error) {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cwd = wd
	}

	rules, err := exclude.NewManager(exclude.Config{
		BasePath:      cwd,
		Patterns:      cfg.ExcludePatterns,
		UseIgnoreFile: cfg.UseIgnoreFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exclude manager: %w", err)
	}

	filter := NewFilter(rules, nil)
	if opts.Notify != "" {
		filter.IgnorePath(opts.Notify)
	}
	return filter, nil
}

// State is the lifecycle state of a Session
type State int

const (
	StateInitializing State = iota
	StateReady
	StateStopped
)

// String returns a human-readable representation of the state
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats summarizes a session's remote activity
type Stats struct {
	Succeeded    int
	Failed       int
	LastActivity time.Time
	// Initial is set once the initial upload has finished
	Initial *FolderReport
}

// Session is one active watch
type Session struct {
	src       string
	dest      string
	accountID int
	opts      Options
	logger    *slog.Logger

	// display is src as the caller spelled it, used in notify lines
	display string

	mapper   Mapper
	filter   *Filter
	ops      *Operations
	queue    *Queue
	notifier *Notifier
	watcher  EventSource

	mu    stdsync.Mutex
	state State
	stats Stats

	ready       chan struct{}
	dispatched  chan struct{}
	initialDone chan struct{}
	stopOnce    stdsync.Once
	stopErr     error
}

// Watch starts watching src and mirroring changes under dest. Unless
// opts.DisableInitial is set, the existing tree is uploaded concurrently
// with watch startup.
func Watch(ctx context.Context, cfg Config, src, dest string, opts Options) (*Session, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("file mapper client is required")
	}
	cfg = cfg.withDefaults()

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if info, statErr := os.Stat(absSrc); statErr != nil {
		return nil, fmt.Errorf("local path does not exist: %w", statErr)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("local path %s is not a directory", absSrc)
	}

	filter, err := newFilter(cfg, opts)
	if err != nil {
		return nil, err
	}

	watcher, err := cfg.Source(absSrc, filter.Ignored)
	if err != nil {
		return nil, err
	}

	s := &Session{
		src:       absSrc,
		display:   filepath.Clean(src),
		dest:      dest,
		accountID: cfg.AccountID,
		opts:      opts,
		logger:    cfg.Logger,
		mapper:    NewMapper(absSrc, dest),
		filter:    filter,
		ops:       NewOperations(cfg.Client, cfg.AccountID, opts.Mode, cfg.Logger),
		queue:     NewQueue(ctx, cfg.Concurrency),
		notifier: NewNotifier(NotifierConfig{
			Path:        opts.Notify,
			Fs:          cfg.Fs,
			QuietPeriod: cfg.NotifyQuietPeriod,
			Logger:      cfg.Logger,
		}),
		watcher:     watcher,
		state:       StateInitializing,
		ready:       make(chan struct{}),
		dispatched:  make(chan struct{}),
		initialDone: make(chan struct{}),
	}

	if err := watcher.Start(); err != nil {
		_ = watcher.Close()
		_ = s.queue.Close(ctx)
		return nil, err
	}

	// The tree upload runs alongside the subscription's startup
	if opts.DisableInitial {
		close(s.initialDone)
	} else {
		go s.initialUpload(ctx, cfg)
	}

	go s.dispatch()

	return s, nil
}

func (s *Session) initialUpload(ctx context.Context, cfg Config) {
	defer close(s.initialDone)

	report, err := UploadFolder(ctx, cfg, s.src, s.dest, s.opts)
	if err != nil {
		s.logger.Error("Initial upload of "+s.src+" failed", "error", err)
		return
	}

	s.mu.Lock()
	s.stats.Initial = report
	s.mu.Unlock()

	s.logger.Info(
		fmt.Sprintf("Completed uploading files in %s to %s in %d", s.src, s.dest, s.accountID),
		"uploaded", report.Uploaded,
		"failed", report.Failed,
		"size", report.Size(),
	)
}

// dispatch consumes watcher events until the watcher is closed
func (s *Session) dispatch() {
	defer close(s.dispatched)

	events, errs := s.watcher.Events(), s.watcher.Errors()
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.handle(ev)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (s *Session) handle(ev FileEvent) {
	switch ev.Op {
	case OpReady:
		s.mu.Lock()
		if s.state == StateInitializing {
			s.state = StateReady
			close(s.ready)
		}
		s.mu.Unlock()
		s.logger.Info("Watcher is ready and watching " + s.src)

	case OpAdd:
		s.upload(ev.Path, ActionAdded)

	case OpChange:
		s.upload(ev.Path, ActionChanged)

	case OpUnlink:
		if s.opts.Remove {
			s.remove(ev.Path)
		}
	}
}

func (s *Session) upload(localPath string, action Action) {
	destPath := s.mapper.Remote(localPath)
	if skip, reason := s.filter.Skip(localPath); skip {
		s.logger.Debug("Skipping " + localPath + " due to " + reason.String())
		return
	}

	s.logger.Debug("Attempting to upload file", "file", localPath, "dest", destPath)
	future := s.queue.Add(s.track(s.ops.UploadTask(localPath, destPath)))
	s.notifier.Record(action, s.displayPath(localPath), future)
}

func (s *Session) remove(localPath string) {
	remotePath := s.mapper.Remote(localPath)
	if skip, reason := s.filter.Skip(localPath); skip {
		s.logger.Debug("Skipping " + localPath + " due to " + reason.String())
		return
	}

	s.logger.Debug("Attempting to delete file", "file", remotePath)
	future := s.queue.Add(s.track(s.ops.DeleteTask(remotePath)))
	s.notifier.Record(ActionRemoved, s.displayPath(localPath), future)
}

// displayPath rebases an absolute path under src onto the caller's spelling
func (s *Session) displayPath(localPath string) string {
	rel, err := filepath.Rel(s.src, localPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return localPath
	}
	return filepath.Join(s.display, rel)
}

// track counts the outcome of task in the session stats
func (s *Session) track(task Task) Task {
	return func(ctx context.Context) Outcome {
		outcome := task(ctx)

		s.mu.Lock()
		switch outcome {
		case OutcomeSucceeded:
			s.stats.Succeeded++
		case OutcomeFailed:
			s.stats.Failed++
		}
		s.stats.LastActivity = time.Now()
		s.mu.Unlock()

		return outcome
	}
}

// Ready is closed once the initial scan has completed
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a snapshot of the session's activity
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Src returns the absolute source root
func (s *Session) Src() string { return s.src }

// Dest returns the remote destination root
func (s *Session) Dest() string { return s.dest }

// Options returns the watch flags
func (s *Session) Options() Options { return s.opts }

// Stop closes the filesystem subscription, then waits for queued
// operations and pending notifications to finish, or ctx to be done.
// Operations already queued are never cancelled.
func (s *Session) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		var errs []error

		if err := s.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		<-s.dispatched

		select {
		case <-s.initialDone:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("waiting for initial upload: %w", ctx.Err()))
		}

		if err := s.queue.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("waiting for queued operations: %w", err))
		}
		if err := s.notifier.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("waiting for notifications: %w", err))
		}

		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()

		s.stopErr = errors.Join(errs...)
	})
	return s.stopErr
}
