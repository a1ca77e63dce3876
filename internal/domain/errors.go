package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a course, folder or link name
	// (or link URL) collides with an existing entry. Validation happens
	// before any state change.
	ErrDuplicateName = errors.New("name already exists")

	// ErrNotFound is returned when an intent references a course, folder
	// or link that no longer exists (e.g. a stale UI reference).
	ErrNotFound = errors.New("not found")

	// ErrEmptyName rejects blank course/folder names and blank link
	// titles or URLs.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrUnauthenticated is returned when a remote operation is
	// attempted with no signed-in user.
	ErrUnauthenticated = errors.New("not signed in")
)

// RemoteSyncError reports a failed background write to the remote store.
// Except for course creation it never unwinds the already-applied local
// mutation; it is surfaced to the user as a warning.
type RemoteSyncError struct {
	Op       string // "create", "update", "delete", "recreate"
	CourseID string
	Err      error
}

func (e *RemoteSyncError) Error() string {
	return fmt.Sprintf("remote %s failed for course %s: %v", e.Op, e.CourseID, e.Err)
}

func (e *RemoteSyncError) Unwrap() error { return e.Err }
