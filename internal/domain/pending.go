package domain

import "time"

// DeleteKind tags a PendingDelete snapshot.
type DeleteKind string

const (
	DeleteCourse DeleteKind = "course"
	DeleteFolder DeleteKind = "folder"
	DeleteLink   DeleteKind = "link"
)

// PendingDelete captures exactly the subtree removed by a delete intent
// so that a single undo can replay the inverse mutation.
//
// The populated fields depend on Kind:
//   - DeleteCourse: Course holds the full subtree (folders + links).
//   - DeleteFolder: Folder names the removed folder, FolderLinks its links.
//   - DeleteLink: Folder, Link and LinkIndex (original position).
type PendingDelete struct {
	Kind       DeleteKind
	CourseID   string
	CourseName string

	Course *Course

	Folder      string
	FolderLinks []Link

	Link      Link
	LinkIndex int

	DeletedAt time.Time
}
