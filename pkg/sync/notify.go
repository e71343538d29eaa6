package sync

import (
	"context"
	"log/slog"
	"os"
	"strings"
	stdsync "sync"
	"time"

	"github.com/spf13/afero"
)

// DefaultNotifyQuietPeriod is how long the notifier waits after the last
// recorded event before flushing
const DefaultNotifyQuietPeriod = 1500 * time.Millisecond

// timestampLayout is an ISO-8601 UTC timestamp with milliseconds
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Action labels a line in the notify file
type Action string

const (
	ActionAdded   Action = "Added"
	ActionChanged Action = "Changed"
	ActionRemoved Action = "Removed"
)

// NotifierConfig configures a Notifier
type NotifierConfig struct {
	// Path of the notify file. Empty disables the notifier.
	Path        string
	Fs          afero.Fs
	QuietPeriod time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

// Notifier batches activity lines and appends them to the notify file once
// the operations behind them have settled.
type Notifier struct {
	path   string
	fs     afero.Fs
	quiet  time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      stdsync.Mutex
	lines   []string
	futures []*Future
	timer   *time.Timer
	closed  bool

	// last is closed when the most recently started flush has written
	last chan struct{}
}

// NewNotifier creates a Notifier
func NewNotifier(cfg NotifierConfig) *Notifier {
	n := &Notifier{
		path:   cfg.Path,
		fs:     cfg.Fs,
		quiet:  cfg.QuietPeriod,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
	if n.fs == nil {
		n.fs = afero.NewOsFs()
	}
	if n.quiet <= 0 {
		n.quiet = DefaultNotifyQuietPeriod
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	if n.now == nil {
		n.now = time.Now
	}

	done := make(chan struct{})
	close(done)
	n.last = done

	return n
}

// Enabled reports whether a notify file is configured
func (n *Notifier) Enabled() bool {
	return n.path != ""
}

// Path returns the notify file path
func (n *Notifier) Path() string {
	return n.path
}

// Record buffers a line for localPath and restarts the quiet period. The
// line is written only after future settles.
func (n *Notifier) Record(action Action, localPath string, future *Future) {
	if !n.Enabled() {
		return
	}

	line := n.timestamp() + " " + string(action) + ": " + localPath + "\n"

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.lines = append(n.lines, line)
	n.futures = append(n.futures, future)

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.quiet, n.flush)
}

// flush captures the current batch and resets the buffer. The batch is
// written on its own goroutine once its futures settle and every earlier
// flush has been written.
func (n *Notifier) flush() {
	n.mu.Lock()
	lines, futures := n.lines, n.futures
	n.lines, n.futures = nil, nil
	if len(lines) == 0 {
		n.mu.Unlock()
		return
	}
	prev := n.last
	done := make(chan struct{})
	n.last = done
	n.mu.Unlock()

	go n.write(lines, futures, prev, done)
}

func (n *Notifier) write(lines []string, futures []*Future, prev <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for _, f := range futures {
		if f != nil {
			<-f.Done()
		}
	}
	<-prev

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
	}
	b.WriteString(n.timestamp() + " Notify Triggered\n")

	if err := n.append(b.String()); err != nil {
		n.logger.Error("Unable to notify file "+n.path, "error", err)
	}
}

func (n *Notifier) append(data string) error {
	f, err := n.fs.OpenFile(n.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (n *Notifier) timestamp() string {
	return n.now().UTC().Format(timestampLayout)
}

// Close flushes any buffered lines immediately and waits until every flush
// has been written, or ctx is done. Records after Close are dropped.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.closed = true
	n.mu.Unlock()

	n.flush()

	n.mu.Lock()
	last := n.last
	n.mu.Unlock()

	select {
	case <-last:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
