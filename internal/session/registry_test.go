package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ssRohan-32/link-organizer/internal/domain"
	"github.com/ssRohan-32/link-organizer/internal/executor"
	"github.com/ssRohan-32/link-organizer/internal/localstore"
	"github.com/ssRohan-32/link-organizer/internal/logger"
)

func noticeWith(msg string) executor.Notice {
	return executor.Notice{Level: executor.NoticeWarning, Message: msg, At: time.Now()}
}

func testRegistry(t *testing.T, cfg Config) *Registry {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = logger.New("error", false)
	}
	return NewRegistry(cfg)
}

func TestGetCreatesOnce(t *testing.T) {
	r := testRegistry(t, Config{})

	s1, err := r.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	s2, err := r.Get(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Error("same user must get the same session")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}

	if _, err := r.Get(context.Background(), "u2"); err != nil {
		t.Fatal(err)
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
}

func TestHydratesFromLocalStore(t *testing.T) {
	local := localstore.New(filepath.Join(t.TempDir(), "linkorg.json"))
	c := domain.NewCourse("x", "Math")
	c.Folders = []string{"HW1"}
	c.Links["HW1"] = []domain.Link{{Title: "Lecture 1", URL: "http://x"}}
	if err := local.Save([]*domain.Course{c}); err != nil {
		t.Fatal(err)
	}

	r := testRegistry(t, Config{Local: local})
	s, err := r.Get(context.Background(), "local")
	if err != nil {
		t.Fatal(err)
	}

	courses := s.Exec.Courses()
	if len(courses) != 1 || courses[0].Name != "Math" {
		t.Fatalf("hydration lost courses: %+v", courses)
	}
	if len(courses[0].Links["HW1"]) != 1 {
		t.Error("hydration lost links")
	}
}

func TestSeedAppliesToEmptyHierarchy(t *testing.T) {
	seed := domain.NewCourse("", "Getting Started")
	seed.Folders = []string{"Read me"}
	seed.Links["Read me"] = []domain.Link{{Title: "Handbook", URL: "http://handbook"}}

	r := testRegistry(t, Config{Seed: []*domain.Course{seed}})
	s, err := r.Get(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}

	courses := s.Exec.Courses()
	if len(courses) != 1 || courses[0].Name != "Getting Started" {
		t.Fatalf("seed not applied: %+v", courses)
	}
	if courses[0].ID == "" {
		t.Error("seeded course must get its own id")
	}

	// The seed template itself must stay pristine.
	if seed.ID != "" {
		t.Error("seed template mutated")
	}
}

func TestNoticesDrainOnce(t *testing.T) {
	r := testRegistry(t, Config{})
	s, _ := r.Get(context.Background(), "u1")

	s.AddNotice(noticeWith("first"))
	s.AddNotice(noticeWith("second"))

	drained := s.DrainNotices()
	if len(drained) != 2 {
		t.Fatalf("drained %d notices, want 2", len(drained))
	}
	if len(s.DrainNotices()) != 0 {
		t.Error("second drain should be empty")
	}
}

func TestNoticesBounded(t *testing.T) {
	r := testRegistry(t, Config{})
	s, _ := r.Get(context.Background(), "u1")

	for i := 0; i < maxNotices+5; i++ {
		s.AddNotice(noticeWith("n"))
	}
	if got := len(s.DrainNotices()); got != maxNotices {
		t.Errorf("ring kept %d notices, want %d", got, maxNotices)
	}
}

func TestEvictIdle(t *testing.T) {
	r := testRegistry(t, Config{})
	s, _ := r.Get(context.Background(), "u1")
	r.Get(context.Background(), "u2")

	// Age u1 artificially.
	s.mu.Lock()
	s.lastSeen = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	if n := r.evictIdle(30*time.Minute, time.Now()); n != 1 {
		t.Fatalf("evicted %d sessions, want 1", n)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}

	// Evicted user gets a fresh session on next access.
	s2, err := r.Get(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if s2 == s {
		t.Error("evicted session must not be reused")
	}
}
