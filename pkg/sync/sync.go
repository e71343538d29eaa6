package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for an unknown session id
	ErrSessionNotFound = errors.New("sync session not found")
	// ErrSessionExists is returned when src is already being watched
	ErrSessionExists = errors.New("sync session already exists")
)

// WatchRequest describes a watch to start
type WatchRequest struct {
	Config  Config
	Src     string
	Dest    string
	Options Options
}

// SessionStatus represents the status of a sync session
type SessionStatus struct {
	ID           string
	State        State
	LocalPath    string
	RemotePath   string
	StartedAt    time.Time
	Succeeded    int
	Failed       int
	Pending      int
	LastActivity time.Time
}

type managedSession struct {
	session   *Session
	startedAt time.Time
}

// Manager keeps track of running watch sessions by id
type Manager struct {
	mu       stdsync.Mutex
	sessions map[string]*managedSession
}

// NewManager creates an empty Manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*managedSession),
	}
}

// Start creates a new watch session and returns its id
func (m *Manager) Start(ctx context.Context, req WatchRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ms := range m.sessions {
		if sameRoot(ms.session.Src(), req.Src) && ms.session.Dest() == req.Dest {
			return "", fmt.Errorf("%w: %s -> %s", ErrSessionExists, req.Src, req.Dest)
		}
	}

	session, err := Watch(ctx, req.Config, req.Src, req.Dest, req.Options)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	m.sessions[id] = &managedSession{session: session, startedAt: time.Now()}

	return id, nil
}

// Session returns the running session for id
func (m *Manager) Session(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return ms.session, nil
}

// Stop terminates a sync session and waits for its pending work
func (m *Manager) Stop(ctx context.Context, id string) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if err := ms.session.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop session %s: %w", id, err)
	}
	return nil
}

// StopAll terminates every session
func (m *Manager) StopAll(ctx context.Context) error {
	var errs []error
	for _, status := range m.List() {
		if err := m.Stop(ctx, status.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Status retrieves the status of a specific sync session
func (m *Manager) Status(id string) (*SessionStatus, error) {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return statusOf(id, ms), nil
}

// List returns the status of every session, oldest first
func (m *Manager) List() []*SessionStatus {
	m.mu.Lock()
	statuses := make([]*SessionStatus, 0, len(m.sessions))
	for id, ms := range m.sessions {
		statuses = append(statuses, statusOf(id, ms))
	}
	m.mu.Unlock()

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].StartedAt.Before(statuses[j].StartedAt)
	})
	return statuses
}

func statusOf(id string, ms *managedSession) *SessionStatus {
	s := ms.session
	stats := s.Stats()
	return &SessionStatus{
		ID:           id,
		State:        s.State(),
		LocalPath:    s.Src(),
		RemotePath:   s.Dest(),
		StartedAt:    ms.startedAt,
		Succeeded:    stats.Succeeded,
		Failed:       stats.Failed,
		Pending:      s.queue.Pending() + s.queue.Running(),
		LastActivity: stats.LastActivity,
	}
}

func sameRoot(absSrc, src string) bool {
	other, err := filepath.Abs(src)
	if err != nil {
		return false
	}
	return absSrc == other
}
