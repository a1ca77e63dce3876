package undo

import (
	"sync"
	"time"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

// DefaultWindow is how long a delete stays undoable.
const DefaultWindow = 10 * time.Second

// Manager holds at most one pending delete snapshot at a time.
//
// Snapshot replaces any existing snapshot (cancelling its expiry timer)
// and starts a fresh fixed-duration window after which the snapshot is
// silently discarded. Take consumes the snapshot exactly once.
type Manager struct {
	mu      sync.Mutex
	window  time.Duration
	pending *domain.PendingDelete
	timer   *time.Timer
	gen     uint64 // guards against an already-fired timer racing a replacement
}

// NewManager creates a manager with the given expiry window.
// A zero or negative window falls back to DefaultWindow.
func NewManager(window time.Duration) *Manager {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Manager{window: window}
}

// Snapshot stores pd as the pending delete, discarding any previous one.
func (m *Manager) Snapshot(pd *domain.PendingDelete) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTimerLocked()
	m.gen++
	gen := m.gen
	m.pending = pd
	m.timer = time.AfterFunc(m.window, func() { m.expire(gen) })
}

// Take consumes and returns the pending snapshot. ok is false when
// nothing is pending (never snapshotted, already undone, or expired).
func (m *Manager) Take() (*domain.PendingDelete, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return nil, false
	}
	pd := m.pending
	m.pending = nil
	m.stopTimerLocked()
	return pd, true
}

// Pending peeks at the pending snapshot without consuming it.
func (m *Manager) Pending() (*domain.PendingDelete, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return nil, false
	}
	return m.pending, true
}

// Rekey rewrites a snapshot that still references a temporary course id.
func (m *Manager) Rekey(oldID, newID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil && m.pending.CourseID == oldID {
		m.pending.CourseID = newID
	}
}

// Stop cancels the expiry timer and drops any pending snapshot.
// Used when a session is evicted.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = nil
	m.stopTimerLocked()
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// A newer snapshot replaced the one this timer was armed for.
	if gen != m.gen {
		return
	}
	m.pending = nil
	m.timer = nil
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
