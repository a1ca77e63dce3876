package undo

import (
	"testing"
	"time"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

func snapshotFor(courseID string) *domain.PendingDelete {
	return &domain.PendingDelete{
		Kind:      domain.DeleteLink,
		CourseID:  courseID,
		Folder:    "HW1",
		Link:      domain.Link{Title: "Lecture 1", URL: "http://x"},
		DeletedAt: time.Now(),
	}
}

func TestTakeConsumesOnce(t *testing.T) {
	m := NewManager(time.Minute)
	m.Snapshot(snapshotFor("a"))

	pd, ok := m.Take()
	if !ok || pd.CourseID != "a" {
		t.Fatalf("Take() = %+v, %v; want snapshot for course a", pd, ok)
	}
	if _, ok := m.Take(); ok {
		t.Error("second Take() should be a no-op")
	}
}

func TestTakeWithoutSnapshot(t *testing.T) {
	m := NewManager(time.Minute)
	if _, ok := m.Take(); ok {
		t.Error("Take() with no snapshot should report nothing pending")
	}
}

func TestSnapshotReplacesPrevious(t *testing.T) {
	m := NewManager(time.Minute)
	m.Snapshot(snapshotFor("a"))
	m.Snapshot(snapshotFor("b"))

	pd, ok := m.Take()
	if !ok || pd.CourseID != "b" {
		t.Fatalf("Take() = %+v, want latest snapshot (course b)", pd)
	}
	if _, ok := m.Take(); ok {
		t.Error("replaced snapshot must not survive")
	}
}

func TestExpiry(t *testing.T) {
	m := NewManager(20 * time.Millisecond)
	m.Snapshot(snapshotFor("a"))

	time.Sleep(80 * time.Millisecond)

	if _, ok := m.Take(); ok {
		t.Error("snapshot should have expired")
	}
}

func TestSnapshotRestartsWindow(t *testing.T) {
	m := NewManager(60 * time.Millisecond)
	m.Snapshot(snapshotFor("a"))

	time.Sleep(40 * time.Millisecond)
	m.Snapshot(snapshotFor("b"))
	time.Sleep(40 * time.Millisecond)

	// 80ms after the first snapshot, but only 40ms after the second:
	// the replacement restarted the window.
	pd, ok := m.Take()
	if !ok || pd.CourseID != "b" {
		t.Fatalf("Take() = %+v, %v; want unexpired snapshot b", pd, ok)
	}
}

func TestRekey(t *testing.T) {
	m := NewManager(time.Minute)
	tempID := domain.TempIDPrefix + "1"
	m.Snapshot(snapshotFor(tempID))

	m.Rekey(tempID, "perm-1")

	pd, ok := m.Take()
	if !ok || pd.CourseID != "perm-1" {
		t.Fatalf("Take() after Rekey = %+v, want perm-1", pd)
	}
}

func TestStop(t *testing.T) {
	m := NewManager(time.Minute)
	m.Snapshot(snapshotFor("a"))
	m.Stop()

	if _, ok := m.Take(); ok {
		t.Error("Stop() should drop the pending snapshot")
	}
}
