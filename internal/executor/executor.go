package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ssRohan-32/link-organizer/internal/domain"
	"github.com/ssRohan-32/link-organizer/internal/hierarchy"
	"github.com/ssRohan-32/link-organizer/internal/logger"
	"github.com/ssRohan-32/link-organizer/internal/undo"
)

// Remote is the per-user document store the executor syncs against.
// One document per course, holding the course name, its folder sequence
// and its folder -> links mapping. All implementations may fail on any
// call; calls never block a local mutation from applying.
type Remote interface {
	// CreateCourse creates an empty course document and returns its
	// generated permanent id.
	CreateCourse(ctx context.Context, userID, name string) (string, error)

	// SaveCourse writes a full course document keyed by c.ID,
	// creating or replacing it (undo recreate semantics).
	SaveCourse(ctx context.Context, userID string, c *domain.Course) error

	// UpdateCourse replaces the folder sequence and link mapping of an
	// existing course document.
	UpdateCourse(ctx context.Context, userID, id string, folders []string, links map[string][]domain.Link) error

	// ReadCourse fetches a course document by id.
	ReadCourse(ctx context.Context, userID, id string) (*domain.Course, error)

	// DeleteCourse removes a course document.
	DeleteCourse(ctx context.Context, userID, id string) error

	// CourseNameExists reports whether the user already has a course
	// with the given name (case-insensitive). Used for course creation
	// only; folders and links are validated against local state.
	CourseNameExists(ctx context.Context, userID, name string) (bool, error)

	// ListCourses returns all course documents for the user.
	ListCourses(ctx context.Context, userID string) ([]*domain.Course, error)
}

// NoticeLevel classifies an asynchronous outcome surfaced to the user.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-visible message produced by a background sync.
type Notice struct {
	Level    NoticeLevel `json:"level"`
	Message  string      `json:"message"`
	CourseID string      `json:"course_id,omitempty"`
	At       time.Time   `json:"at"`
}

const defaultSyncTimeout = 5 * time.Second

// Config wires an Executor for one user.
type Config struct {
	UserID string
	Store  *hierarchy.Store
	Undo   *undo.Manager
	Remote Remote // nil in local mode
	Logger logger.Logger

	// Notify receives asynchronous sync outcomes. May be nil.
	Notify func(Notice)

	// Persist, when set, receives a full snapshot of the tree after
	// every local mutation (local fallback file). May be nil.
	Persist func(courses []*domain.Course) error

	// SyncTimeout bounds each background remote call.
	SyncTimeout time.Duration
}

// Executor applies user intents to the hierarchy store optimistically
// and reconciles with the remote store in the background. It is the
// single writer of its store.
//
// Per-intent rollback behavior on remote failure:
//
//	add course            -> full rollback of the optimistic insert
//	add folder / add link -> local state kept, warning surfaced
//	delete course/folder/link -> local state kept, warning surfaced;
//	                             only an explicit undo reverts
//
// Remote writes for the same course are not serialized: payloads are
// deep-copied at dispatch and the last-completing write wins at the
// remote store. This weak consistency is deliberate.
type Executor struct {
	userID      string
	store       *hierarchy.Store
	undo        *undo.Manager
	remote      Remote
	logger      logger.Logger
	notify      func(Notice)
	persist     func([]*domain.Course) error
	syncTimeout time.Duration

	mu sync.Mutex // serializes intents (single writer)
	wg sync.WaitGroup
}

// New creates an executor from cfg.
func New(cfg Config) *Executor {
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = defaultSyncTimeout
	}
	return &Executor{
		userID:      cfg.UserID,
		store:       cfg.Store,
		undo:        cfg.Undo,
		remote:      cfg.Remote,
		logger:      cfg.Logger,
		notify:      cfg.Notify,
		persist:     cfg.Persist,
		syncTimeout: cfg.SyncTimeout,
	}
}

// Courses returns the user's full tree (deep copies).
func (e *Executor) Courses() []*domain.Course { return e.store.Courses() }

// Course returns one course by id.
func (e *Executor) Course(id string) (*domain.Course, bool) { return e.store.Course(id) }

// PendingUndo peeks at the pending delete snapshot, if any.
func (e *Executor) PendingUndo() (*domain.PendingDelete, bool) { return e.undo.Pending() }

// Wait blocks until all in-flight background syncs have finished.
// Used for graceful shutdown and deterministic tests.
func (e *Executor) Wait() { e.wg.Wait() }

// AddCourse validates the name locally, inserts the course under a
// temporary id and issues the remote duplicate-check + create in the
// background. On remote failure the optimistic insert is fully rolled
// back; on success the temporary id is atomically rewritten to the
// permanent one.
func (e *Executor) AddCourse(ctx context.Context, name string) (*domain.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	e.mu.Lock()
	var id string
	if e.remote == nil {
		// Local mode: no remote confirmation step, the id is permanent
		// from the start.
		id = uuid.NewString()
	} else {
		id = domain.TempIDPrefix + uuid.NewString()
	}
	c := domain.NewCourse(id, name)
	if err := e.store.InsertCourse(c); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.persistLocked()
	e.mu.Unlock()

	if e.remote != nil {
		e.goSync(func(ctx context.Context) { e.syncCreateCourse(ctx, id, name) })
	}
	return c.Clone(), nil
}

// AddFolder validates folder uniqueness locally, applies the insert and
// issues a background update of the owning course document. Remote
// failure surfaces a warning; the local insert stays.
func (e *Executor) AddFolder(ctx context.Context, courseID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyName
	}

	e.mu.Lock()
	if err := e.store.InsertFolder(courseID, name); err != nil {
		e.mu.Unlock()
		return err
	}
	e.persistLocked()
	e.mu.Unlock()

	e.syncCourseDoc(courseID)
	return nil
}

// AddLink validates title/url uniqueness within the folder, applies the
// insert and issues a background update of the owning course document.
// Remote failure surfaces a warning; the local insert stays.
func (e *Executor) AddLink(ctx context.Context, courseID, folder string, l domain.Link) error {
	l.Title = strings.TrimSpace(l.Title)
	l.URL = strings.TrimSpace(l.URL)
	if l.Title == "" || l.URL == "" {
		return domain.ErrEmptyName
	}

	e.mu.Lock()
	if err := e.store.InsertLink(courseID, folder, l); err != nil {
		e.mu.Unlock()
		return err
	}
	e.persistLocked()
	e.mu.Unlock()

	e.syncCourseDoc(courseID)
	return nil
}

// DeleteCourse snapshots the course subtree for undo, removes it
// locally and issues the remote delete in the background. Remote
// failure is a warning; only an explicit undo restores the course.
func (e *Executor) DeleteCourse(ctx context.Context, id string) error {
	e.mu.Lock()
	removed, err := e.store.RemoveCourse(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.undo.Snapshot(&domain.PendingDelete{
		Kind:       domain.DeleteCourse,
		CourseID:   id,
		CourseName: removed.Name,
		Course:     removed,
		DeletedAt:  time.Now(),
	})
	e.persistLocked()
	e.mu.Unlock()

	if e.remote != nil && !domain.IsTempID(id) {
		e.goSync(func(ctx context.Context) {
			if err := e.remote.DeleteCourse(ctx, e.userID, id); err != nil {
				e.warnSync(&domain.RemoteSyncError{Op: "delete", CourseID: id, Err: err})
			}
		})
	}
	return nil
}

// DeleteFolder snapshots the folder's links for undo, removes the
// folder locally and updates the course document in the background.
func (e *Executor) DeleteFolder(ctx context.Context, courseID, folder string) error {
	e.mu.Lock()
	course, ok := e.store.Course(courseID)
	if !ok {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	name, links, err := e.store.RemoveFolder(courseID, folder)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.undo.Snapshot(&domain.PendingDelete{
		Kind:        domain.DeleteFolder,
		CourseID:    courseID,
		CourseName:  course.Name,
		Folder:      name,
		FolderLinks: links,
		DeletedAt:   time.Now(),
	})
	e.persistLocked()
	e.mu.Unlock()

	e.syncCourseDoc(courseID)
	return nil
}

// DeleteLink snapshots the link and its position for undo, removes it
// locally and updates the course document in the background.
func (e *Executor) DeleteLink(ctx context.Context, courseID, folder string, index int) error {
	e.mu.Lock()
	course, ok := e.store.Course(courseID)
	if !ok {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	name, ok := course.Folder(folder)
	if !ok {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	l, err := e.store.RemoveLinkAt(courseID, name, index)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.undo.Snapshot(&domain.PendingDelete{
		Kind:       domain.DeleteLink,
		CourseID:   courseID,
		CourseName: course.Name,
		Folder:     name,
		Link:       l,
		LinkIndex:  index,
		DeletedAt:  time.Now(),
	})
	e.persistLocked()
	e.mu.Unlock()

	e.syncCourseDoc(courseID)
	return nil
}

// Undo replays the inverse of the pending delete, if one is still
// within its window. It reports whether anything was undone. Calling it
// with nothing pending is a no-op.
func (e *Executor) Undo(ctx context.Context) (bool, error) {
	e.mu.Lock()
	pd, ok := e.undo.Take()
	if !ok {
		e.mu.Unlock()
		return false, nil
	}

	switch pd.Kind {
	case domain.DeleteCourse:
		if err := e.store.InsertCourse(pd.Course); err != nil {
			e.mu.Unlock()
			return false, err
		}
		e.persistLocked()
		e.mu.Unlock()
		if e.remote != nil && !domain.IsTempID(pd.CourseID) {
			course := pd.Course.Clone()
			e.goSync(func(ctx context.Context) {
				if err := e.remote.SaveCourse(ctx, e.userID, course); err != nil {
					e.warnSync(&domain.RemoteSyncError{Op: "recreate", CourseID: course.ID, Err: err})
				}
			})
		}
		return true, nil

	case domain.DeleteFolder:
		if err := e.store.RestoreFolder(pd.CourseID, pd.Folder, pd.FolderLinks); err != nil {
			e.mu.Unlock()
			return false, err
		}
		e.persistLocked()
		e.mu.Unlock()
		e.syncFolderRestore(pd)
		return true, nil

	case domain.DeleteLink:
		if err := e.store.RestoreLinkAt(pd.CourseID, pd.Folder, pd.Link, pd.LinkIndex); err != nil {
			e.mu.Unlock()
			return false, err
		}
		e.persistLocked()
		e.mu.Unlock()
		e.syncCourseDoc(pd.CourseID)
		return true, nil
	}

	e.mu.Unlock()
	return false, fmt.Errorf("unknown pending delete kind %q", pd.Kind)
}

// syncCreateCourse runs the remote duplicate-check + create for a
// course inserted under tempID, then rewrites the id on success.
func (e *Executor) syncCreateCourse(ctx context.Context, tempID, name string) {
	exists, err := e.remote.CourseNameExists(ctx, e.userID, name)
	if err != nil {
		e.rollbackCourse(tempID, name, &domain.RemoteSyncError{Op: "create", CourseID: tempID, Err: err})
		return
	}
	if exists {
		e.rollbackCourse(tempID, name, fmt.Errorf("course %q: %w", name, domain.ErrDuplicateName))
		return
	}

	permID, err := e.remote.CreateCourse(ctx, e.userID, name)
	if err != nil {
		e.rollbackCourse(tempID, name, &domain.RemoteSyncError{Op: "create", CourseID: tempID, Err: err})
		return
	}

	e.mu.Lock()
	if err := e.store.Rekey(tempID, permID); err != nil {
		// The course was deleted locally while the create was in
		// flight; the remote document may now be orphaned.
		e.mu.Unlock()
		e.logger.Warn("course vanished before remote confirmation",
			logger.String("user", e.userID),
			logger.String("temp_id", tempID),
			logger.String("perm_id", permID))
		return
	}
	e.undo.Rekey(tempID, permID)
	course, _ := e.store.Course(permID)
	e.mu.Unlock()

	e.logger.Info("course confirmed remotely",
		logger.String("user", e.userID),
		logger.String("course_id", permID),
		logger.String("name", name))

	// Flush folders/links added while the create was in flight; their
	// updates were held back until the permanent id existed.
	if course != nil && len(course.Folders) > 0 {
		if err := e.remote.UpdateCourse(ctx, e.userID, permID, course.Folders, course.Links); err != nil {
			e.warnSync(&domain.RemoteSyncError{Op: "update", CourseID: permID, Err: err})
		}
	}
}

// rollbackCourse removes a temp course whose remote creation failed and
// surfaces the cause.
func (e *Executor) rollbackCourse(tempID, name string, cause error) {
	e.mu.Lock()
	_, err := e.store.RemoveCourse(tempID)
	e.persistLocked()
	e.mu.Unlock()
	if err != nil {
		// Already gone locally (user deleted it first); nothing to undo.
		return
	}

	e.logger.Warn("rolled back optimistic course insert",
		logger.String("user", e.userID),
		logger.String("course", name),
		logger.Error(cause))
	e.sendNotice(Notice{
		Level:    NoticeError,
		Message:  fmt.Sprintf("could not save course %q: %v", name, cause),
		CourseID: tempID,
		At:       time.Now(),
	})
}

// syncCourseDoc pushes the course's current folders/links to the remote
// store in the background. Updates for unconfirmed (temp-id) courses
// are held back; the create flush carries them instead.
func (e *Executor) syncCourseDoc(courseID string) {
	if e.remote == nil || domain.IsTempID(courseID) {
		return
	}
	course, ok := e.store.Course(courseID)
	if !ok {
		return
	}
	e.goSync(func(ctx context.Context) {
		if err := e.remote.UpdateCourse(ctx, e.userID, course.ID, course.Folders, course.Links); err != nil {
			e.warnSync(&domain.RemoteSyncError{Op: "update", CourseID: course.ID, Err: err})
		}
	})
}

// syncFolderRestore merges a restored folder into whatever the remote
// document currently holds (read-then-write, not a blind overwrite).
func (e *Executor) syncFolderRestore(pd *domain.PendingDelete) {
	if e.remote == nil || domain.IsTempID(pd.CourseID) {
		return
	}
	folder := pd.Folder
	links := make([]domain.Link, len(pd.FolderLinks))
	copy(links, pd.FolderLinks)

	e.goSync(func(ctx context.Context) {
		remote, err := e.remote.ReadCourse(ctx, e.userID, pd.CourseID)
		if err != nil {
			e.warnSync(&domain.RemoteSyncError{Op: "update", CourseID: pd.CourseID, Err: err})
			return
		}
		if remote.FolderIndex(folder) < 0 {
			remote.Folders = append(remote.Folders, folder)
		}
		if remote.Links == nil {
			remote.Links = map[string][]domain.Link{}
		}
		remote.Links[folder] = links
		if err := e.remote.UpdateCourse(ctx, e.userID, pd.CourseID, remote.Folders, remote.Links); err != nil {
			e.warnSync(&domain.RemoteSyncError{Op: "update", CourseID: pd.CourseID, Err: err})
		}
	})
}

func (e *Executor) warnSync(err *domain.RemoteSyncError) {
	e.logger.Warn("remote sync failed, local state kept",
		logger.String("user", e.userID),
		logger.String("op", err.Op),
		logger.String("course_id", err.CourseID),
		logger.Error(err.Err))
	e.sendNotice(Notice{
		Level:    NoticeWarning,
		Message:  err.Error(),
		CourseID: err.CourseID,
		At:       time.Now(),
	})
}

func (e *Executor) sendNotice(n Notice) {
	if e.notify != nil {
		e.notify(n)
	}
}

// persistLocked snapshots the tree to the local fallback, if configured.
// Callers hold e.mu.
func (e *Executor) persistLocked() {
	if e.persist == nil {
		return
	}
	if err := e.persist(e.store.Courses()); err != nil {
		e.logger.Warn("failed to persist local snapshot",
			logger.String("user", e.userID),
			logger.Error(err))
	}
}

func (e *Executor) goSync(fn func(ctx context.Context)) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		// Background syncs outlive the originating request; they get
		// their own bounded context.
		ctx, cancel := context.WithTimeout(context.Background(), e.syncTimeout)
		defer cancel()
		fn(ctx)
	}()
}
