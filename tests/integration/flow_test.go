package integration

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ssRohan-32/link-organizer/internal/domain"
	"github.com/ssRohan-32/link-organizer/internal/localstore"
	"github.com/ssRohan-32/link-organizer/internal/logger"
	"github.com/ssRohan-32/link-organizer/internal/session"
)

func newLocalRegistry(t *testing.T) *session.Registry {
	t.Helper()
	return session.NewRegistry(session.Config{
		Local:      localstore.New(filepath.Join(t.TempDir(), "courses.json")),
		Logger:     logger.New("error", false),
		UndoWindow: 200 * time.Millisecond,
	})
}

// TestCourseLifecycle walks the main user journey: create a course, add
// a folder and a link, delete the link and undo the deletion.
func TestCourseLifecycle(t *testing.T) {
	ctx := context.Background()
	reg := newLocalRegistry(t)

	sess, err := reg.Get(ctx, session.LocalUserID)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	exec := sess.Exec

	course, err := exec.AddCourse(ctx, "Math")
	if err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	exec.Wait()

	// Local mode assigns permanent ids immediately
	if domain.IsTempID(course.ID) {
		t.Errorf("expected permanent id in local mode, got %q", course.ID)
	}

	if err := exec.AddFolder(ctx, course.ID, "HW1"); err != nil {
		t.Fatalf("AddFolder failed: %v", err)
	}
	link := domain.Link{Title: "Problem Set", URL: "https://example.com/ps1"}
	if err := exec.AddLink(ctx, course.ID, "HW1", link); err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	before, ok := exec.Course(course.ID)
	if !ok {
		t.Fatal("course disappeared")
	}

	if err := exec.DeleteLink(ctx, course.ID, "HW1", 0); err != nil {
		t.Fatalf("DeleteLink failed: %v", err)
	}
	if got, _ := exec.Course(course.ID); len(got.Links["HW1"]) != 0 {
		t.Fatalf("link not removed, folder has %d links", len(got.Links["HW1"]))
	}

	restored, err := exec.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !restored {
		t.Fatal("Undo restored nothing")
	}

	after, _ := exec.Course(course.ID)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("undo did not restore the pre-delete state:\nbefore: %+v\nafter:  %+v", before, after)
	}

	// The slot is consumed: a second undo is a no-op
	restored, err = exec.Undo(ctx)
	if err != nil {
		t.Fatalf("second Undo failed: %v", err)
	}
	if restored {
		t.Error("second undo should restore nothing")
	}
}

// TestUndoWindowExpiry verifies a deletion stops being undoable once its
// window has passed.
func TestUndoWindowExpiry(t *testing.T) {
	ctx := context.Background()
	reg := newLocalRegistry(t)

	sess, err := reg.Get(ctx, session.LocalUserID)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	exec := sess.Exec

	course, err := exec.AddCourse(ctx, "History")
	if err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	exec.Wait()

	if err := exec.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}

	time.Sleep(400 * time.Millisecond)

	restored, err := exec.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if restored {
		t.Error("undo should be a no-op after the window expires")
	}
	if _, ok := exec.Course(course.ID); ok {
		t.Error("expired deletion must stay deleted")
	}
}

// TestDuplicateNamesRejected covers case-insensitive uniqueness at every
// level of the hierarchy.
func TestDuplicateNamesRejected(t *testing.T) {
	ctx := context.Background()
	reg := newLocalRegistry(t)

	sess, err := reg.Get(ctx, session.LocalUserID)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	exec := sess.Exec

	course, err := exec.AddCourse(ctx, "Biology")
	if err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	exec.Wait()

	if _, err := exec.AddCourse(ctx, "  biology "); !errors.Is(err, domain.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName for course, got %v", err)
	}

	if err := exec.AddFolder(ctx, course.ID, "Labs"); err != nil {
		t.Fatalf("AddFolder failed: %v", err)
	}
	if err := exec.AddFolder(ctx, course.ID, "LABS"); !errors.Is(err, domain.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName for folder, got %v", err)
	}

	link := domain.Link{Title: "Lab 1", URL: "https://example.com/lab1"}
	if err := exec.AddLink(ctx, course.ID, "Labs", link); err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}
	dup := domain.Link{Title: "lab 1", URL: "https://example.com/other"}
	if err := exec.AddLink(ctx, course.ID, "Labs", dup); !errors.Is(err, domain.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName for link title, got %v", err)
	}
}

// TestLocalPersistenceAcrossRestart mutates through one registry and
// hydrates a second one from the same file.
func TestLocalPersistenceAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "courses.json")
	log := logger.New("error", false)

	reg := session.NewRegistry(session.Config{
		Local:  localstore.New(path),
		Logger: log,
	})
	sess, err := reg.Get(ctx, session.LocalUserID)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	course, err := sess.Exec.AddCourse(ctx, "Chemistry")
	if err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	sess.Exec.Wait()
	if err := sess.Exec.AddFolder(ctx, course.ID, "Notes"); err != nil {
		t.Fatalf("AddFolder failed: %v", err)
	}
	reg.Wait()

	fresh := session.NewRegistry(session.Config{
		Local:  localstore.New(path),
		Logger: log,
	})
	sess2, err := fresh.Get(ctx, session.LocalUserID)
	if err != nil {
		t.Fatalf("failed to reopen session: %v", err)
	}

	courses := sess2.Exec.Courses()
	if len(courses) != 1 {
		t.Fatalf("expected 1 course after restart, got %d", len(courses))
	}
	if courses[0].Name != "Chemistry" {
		t.Errorf("course name = %q, want Chemistry", courses[0].Name)
	}
	if courses[0].FolderIndex("Notes") < 0 {
		t.Error("folder Notes lost across restart")
	}
}

// flakyRemote fails every CreateCourse call.
type flakyRemote struct {
	mu      sync.Mutex
	creates int
}

func (f *flakyRemote) CreateCourse(ctx context.Context, userID, name string) (string, error) {
	f.mu.Lock()
	f.creates++
	f.mu.Unlock()
	return "", errors.New("remote down")
}

func (f *flakyRemote) SaveCourse(ctx context.Context, userID string, c *domain.Course) error {
	return nil
}

func (f *flakyRemote) UpdateCourse(ctx context.Context, userID, id string, folders []string, links map[string][]domain.Link) error {
	return nil
}

func (f *flakyRemote) ReadCourse(ctx context.Context, userID, id string) (*domain.Course, error) {
	return nil, domain.ErrNotFound
}

func (f *flakyRemote) DeleteCourse(ctx context.Context, userID, id string) error { return nil }

func (f *flakyRemote) CourseNameExists(ctx context.Context, userID, name string) (bool, error) {
	return false, nil
}

func (f *flakyRemote) ListCourses(ctx context.Context, userID string) ([]*domain.Course, error) {
	return []*domain.Course{}, nil
}

// TestRemoteCreateFailureRollsBack covers the one mutation whose remote
// failure undoes the optimistic local change.
func TestRemoteCreateFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	remote := &flakyRemote{}
	reg := session.NewRegistry(session.Config{
		Remote: remote,
		Logger: logger.New("error", false),
	})

	userID := uuid.NewString()
	sess, err := reg.Get(ctx, userID)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}

	course, err := sess.Exec.AddCourse(ctx, "Physics")
	if err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	if !domain.IsTempID(course.ID) {
		t.Errorf("expected provisional id before confirmation, got %q", course.ID)
	}

	sess.Exec.Wait()

	if _, ok := sess.Exec.Course(course.ID); ok {
		t.Error("course should be rolled back after remote create failure")
	}
	if len(sess.Exec.Courses()) != 0 {
		t.Errorf("expected empty course list, got %d", len(sess.Exec.Courses()))
	}

	notices := sess.DrainNotices()
	if len(notices) == 0 {
		t.Error("rollback should surface a notice")
	}
}
