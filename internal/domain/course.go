package domain

import "strings"

// Link is a titled URL stored inside a folder.
// Within one folder no two links may share a title (case-insensitive)
// or share a URL (exact match).
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Course is the root of the hierarchy a user manages.
//
// A course owns an ordered sequence of folder names and a mapping from
// folder name to its ordered link list. Both are always updated together:
// every name in Folders has an entry (possibly empty) in Links and vice
// versa.
type Course struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the document id in the remote store. Between optimistic
	// creation and remote confirmation it holds a temporary id
	// (TempIDPrefix + uuid); it transitions to the permanent id at most
	// once.
	ID string `json:"-"`

	// Name is unique per user (case-insensitive) and stored with its
	// original casing.
	Name string `json:"name"`

	// ─────────────────────────────
	// Contents
	// ─────────────────────────────

	// Folders is the ordered sequence of folder names.
	Folders []string `json:"folders"`

	// Links maps folder name -> ordered link list.
	Links map[string][]Link `json:"links"`
}

// TempIDPrefix marks a course id that has not been confirmed by the
// remote store yet.
const TempIDPrefix = "tmp-"

// NewCourse returns an empty course with initialized collections.
func NewCourse(id, name string) *Course {
	return &Course{
		ID:      id,
		Name:    name,
		Folders: []string{},
		Links:   map[string][]Link{},
	}
}

// IsTempID reports whether id is a temporary, unconfirmed course id.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// SameName compares two names the way existence checks do:
// case-insensitively, ignoring surrounding whitespace.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// FolderIndex returns the position of folder in the course's folder
// sequence, or -1 if no folder matches case-insensitively.
func (c *Course) FolderIndex(folder string) int {
	for i, f := range c.Folders {
		if SameName(f, folder) {
			return i
		}
	}
	return -1
}

// Folder resolves folder to its stored casing. ok is false when the
// course has no such folder.
func (c *Course) Folder(folder string) (string, bool) {
	if i := c.FolderIndex(folder); i >= 0 {
		return c.Folders[i], true
	}
	return "", false
}

// LinkConflict reports whether adding l to folder would violate link
// identity uniqueness: duplicate title (case-insensitive) or duplicate
// URL (exact).
func (c *Course) LinkConflict(folder string, l Link) bool {
	for _, existing := range c.Links[folder] {
		if SameName(existing.Title, l.Title) || existing.URL == l.URL {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Mutating the copy never touches the
// original's folder sequence or link lists.
func (c *Course) Clone() *Course {
	cp := &Course{
		ID:      c.ID,
		Name:    c.Name,
		Folders: make([]string, len(c.Folders)),
		Links:   make(map[string][]Link, len(c.Links)),
	}
	copy(cp.Folders, c.Folders)
	for folder, links := range c.Links {
		ls := make([]Link, len(links))
		copy(ls, links)
		cp.Links[folder] = ls
	}
	return cp
}
