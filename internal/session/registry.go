package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ssRohan-32/link-organizer/internal/domain"
	"github.com/ssRohan-32/link-organizer/internal/executor"
	"github.com/ssRohan-32/link-organizer/internal/hierarchy"
	"github.com/ssRohan-32/link-organizer/internal/localstore"
	"github.com/ssRohan-32/link-organizer/internal/logger"
	"github.com/ssRohan-32/link-organizer/internal/undo"
)

const maxNotices = 32

// LocalUserID is the fixed user every request maps to when the service
// runs without redis.
const LocalUserID = "local"

// Session bundles one user's hierarchy store, undo manager, executor
// and pending notices.
type Session struct {
	UserID string
	Exec   *executor.Executor

	undoMgr *undo.Manager

	mu       sync.Mutex
	lastSeen time.Time
	notices  []executor.Notice
}

// Touch records activity, deferring idle eviction.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// AddNotice appends an async sync outcome, dropping the oldest entry
// when the buffer is full.
func (s *Session) AddNotice(n executor.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notices) >= maxNotices {
		s.notices = s.notices[1:]
	}
	s.notices = append(s.notices, n)
}

// DrainNotices returns and clears all pending notices.
func (s *Session) DrainNotices() []executor.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

func (s *Session) close() {
	s.Exec.Wait()
	s.undoMgr.Stop()
}

// Config wires a Registry.
type Config struct {
	Remote      executor.Remote   // nil in local mode
	Local       *localstore.Store // nil in remote mode
	Logger      logger.Logger
	UndoWindow  time.Duration
	SyncTimeout time.Duration

	// Seed is an optional starter template applied to users whose
	// hierarchy is empty on first session creation.
	Seed []*domain.Course
}

// Registry creates and caches per-user sessions, hydrating each new
// session from the remote store (or the local fallback file) once.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Get returns the user's session, creating and hydrating it on first
// access.
func (r *Registry) Get(ctx context.Context, userID string) (*Session, error) {
	r.mu.Lock()
	if s, ok := r.sessions[userID]; ok {
		r.mu.Unlock()
		s.Touch()
		return s, nil
	}
	r.mu.Unlock()

	// Hydrate outside the registry lock: listing a user's documents can
	// take a network round-trip.
	courses, err := r.hydrate(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		// Lost the race to another request for the same user.
		s.Touch()
		return s, nil
	}

	s := r.build(userID, courses)
	r.sessions[userID] = s
	r.cfg.Logger.Info("session created",
		logger.String("user", userID),
		logger.Int("courses", len(courses)))
	return s, nil
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Wait drains the in-flight syncs of every session. Used on shutdown.
func (r *Registry) Wait() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Exec.Wait()
	}
}

// evictIdle removes sessions idle longer than ttl and returns how many
// were evicted. Eviction only drops in-memory state; remote documents
// are untouched.
func (r *Registry) evictIdle(ttl time.Duration, now time.Time) int {
	r.mu.Lock()
	var evicted []*Session
	for id, s := range r.sessions {
		if now.Sub(s.LastSeen()) > ttl {
			delete(r.sessions, id)
			evicted = append(evicted, s)
		}
	}
	r.mu.Unlock()

	for _, s := range evicted {
		s.close()
		r.cfg.Logger.Info("evicted idle session",
			logger.String("user", s.UserID))
	}
	return len(evicted)
}

func (r *Registry) hydrate(ctx context.Context, userID string) ([]*domain.Course, error) {
	var (
		courses []*domain.Course
		err     error
	)
	switch {
	case r.cfg.Remote != nil:
		courses, err = r.cfg.Remote.ListCourses(ctx, userID)
	case r.cfg.Local != nil:
		courses, err = r.cfg.Local.Load()
	default:
		courses = []*domain.Course{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate session for %s: %w", userID, err)
	}

	if len(courses) == 0 && len(r.cfg.Seed) > 0 {
		courses = r.applySeed(ctx, userID)
	}
	return courses, nil
}

// applySeed copies the starter template for a user with no courses yet,
// writing the seeded documents through to the remote store best-effort.
func (r *Registry) applySeed(ctx context.Context, userID string) []*domain.Course {
	courses := make([]*domain.Course, 0, len(r.cfg.Seed))
	for _, tmpl := range r.cfg.Seed {
		c := tmpl.Clone()
		c.ID = uuid.NewString()
		courses = append(courses, c)
		if r.cfg.Remote != nil {
			if err := r.cfg.Remote.SaveCourse(ctx, userID, c); err != nil {
				r.cfg.Logger.Warn("failed to write seeded course remotely",
					logger.String("user", userID),
					logger.String("course", c.Name),
					logger.Error(err))
			}
		}
	}
	r.cfg.Logger.Info("seeded starter courses",
		logger.String("user", userID),
		logger.Int("count", len(courses)))
	return courses
}

func (r *Registry) build(userID string, courses []*domain.Course) *Session {
	store := hierarchy.NewStore()
	store.Replace(courses)

	undoMgr := undo.NewManager(r.cfg.UndoWindow)
	s := &Session{
		UserID:   userID,
		undoMgr:  undoMgr,
		lastSeen: time.Now(),
	}

	var persist func([]*domain.Course) error
	if r.cfg.Local != nil {
		persist = r.cfg.Local.Save
	}

	s.Exec = executor.New(executor.Config{
		UserID:      userID,
		Store:       store,
		Undo:        undoMgr,
		Remote:      r.cfg.Remote,
		Logger:      r.cfg.Logger,
		Notify:      s.AddNotice,
		Persist:     persist,
		SyncTimeout: r.cfg.SyncTimeout,
	})
	return s
}
