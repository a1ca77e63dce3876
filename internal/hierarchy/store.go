package hierarchy

import (
	"sync"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

// Store is the in-memory authoritative course/folder/link tree for one
// user. Mutators never perform I/O: they enforce the hierarchy invariants
// and either apply fully or fail with domain.ErrDuplicateName /
// domain.ErrNotFound, leaving the tree untouched. Inserting or removing a
// folder always updates the folder sequence and the link mapping together.
type Store struct {
	mu      sync.RWMutex
	order   []string                  // course ids in insertion order
	courses map[string]*domain.Course // id -> course
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		courses: make(map[string]*domain.Course),
	}
}

// Replace swaps the whole tree, used when hydrating a session from the
// remote store or the local fallback file. The store takes ownership of
// the given courses.
func (s *Store) Replace(courses []*domain.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, 0, len(courses))
	s.courses = make(map[string]*domain.Course, len(courses))
	for _, c := range courses {
		if c.Folders == nil {
			c.Folders = []string{}
		}
		if c.Links == nil {
			c.Links = map[string][]domain.Link{}
		}
		s.order = append(s.order, c.ID)
		s.courses[c.ID] = c
	}
}

// InsertCourse adds a course. Fails with ErrDuplicateName when another
// course already uses the name (case-insensitive) or the id.
func (s *Store) InsertCourse(c *domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[c.ID]; ok {
		return domain.ErrDuplicateName
	}
	for _, existing := range s.courses {
		if domain.SameName(existing.Name, c.Name) {
			return domain.ErrDuplicateName
		}
	}
	s.order = append(s.order, c.ID)
	s.courses[c.ID] = c
	return nil
}

// RemoveCourse removes a course and returns the removed subtree.
func (s *Store) RemoveCourse(id string) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(s.courses, id)
	s.removeFromOrder(id)
	return c, nil
}

// Rekey atomically rewrites a temporary course id to its permanent id.
// All references move together; a course id transitions at most once.
func (s *Store) Rekey(oldID, newID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[oldID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, taken := s.courses[newID]; taken {
		return domain.ErrDuplicateName
	}
	delete(s.courses, oldID)
	c.ID = newID
	s.courses[newID] = c
	for i, id := range s.order {
		if id == oldID {
			s.order[i] = newID
			break
		}
	}
	return nil
}

// InsertFolder appends a folder to a course, creating its (empty) link
// list in the same step.
func (s *Store) InsertFolder(courseID, folder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.FolderIndex(folder) >= 0 {
		return domain.ErrDuplicateName
	}
	c.Folders = append(c.Folders, folder)
	c.Links[folder] = []domain.Link{}
	return nil
}

// RemoveFolder removes a folder and its link-map entry together.
// It returns the folder's stored casing and its links for undo capture.
func (s *Store) RemoveFolder(courseID, folder string) (string, []domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return "", nil, domain.ErrNotFound
	}
	i := c.FolderIndex(folder)
	if i < 0 {
		return "", nil, domain.ErrNotFound
	}
	name := c.Folders[i]
	links := c.Links[name]
	c.Folders = append(c.Folders[:i], c.Folders[i+1:]...)
	delete(c.Links, name)
	return name, links, nil
}

// RestoreFolder re-inserts a previously removed folder at the end of the
// folder sequence with its captured links. Original position is not
// preserved.
func (s *Store) RestoreFolder(courseID, folder string, links []domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.FolderIndex(folder) >= 0 {
		return domain.ErrDuplicateName
	}
	if links == nil {
		links = []domain.Link{}
	}
	c.Folders = append(c.Folders, folder)
	c.Links[folder] = links
	return nil
}

// InsertLink appends a link to a folder, enforcing title/url uniqueness
// within that folder.
func (s *Store) InsertLink(courseID, folder string, l domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return domain.ErrNotFound
	}
	name, ok := c.Folder(folder)
	if !ok {
		return domain.ErrNotFound
	}
	if c.LinkConflict(name, l) {
		return domain.ErrDuplicateName
	}
	c.Links[name] = append(c.Links[name], l)
	return nil
}

// RemoveLinkAt removes the link at index from a folder and returns it.
func (s *Store) RemoveLinkAt(courseID, folder string, index int) (domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return domain.Link{}, domain.ErrNotFound
	}
	name, ok := c.Folder(folder)
	if !ok {
		return domain.Link{}, domain.ErrNotFound
	}
	links := c.Links[name]
	if index < 0 || index >= len(links) {
		return domain.Link{}, domain.ErrNotFound
	}
	l := links[index]
	c.Links[name] = append(links[:index], links[index+1:]...)
	return l, nil
}

// RestoreLinkAt re-inserts a link at its original index if still in
// range, else appends it.
func (s *Store) RestoreLinkAt(courseID, folder string, l domain.Link, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return domain.ErrNotFound
	}
	name, ok := c.Folder(folder)
	if !ok {
		return domain.ErrNotFound
	}
	links := c.Links[name]
	if index < 0 || index > len(links) {
		index = len(links)
	}
	links = append(links, domain.Link{})
	copy(links[index+1:], links[index:])
	links[index] = l
	c.Links[name] = links
	return nil
}

// Course returns a deep copy of the course with the given id.
func (s *Store) Course(id string) (*domain.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// CourseByName resolves a course case-insensitively by name.
func (s *Store) CourseByName(name string) (*domain.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.courses {
		if domain.SameName(c.Name, name) {
			return c.Clone(), true
		}
	}
	return nil, false
}

// Courses returns deep copies of all courses in insertion order.
func (s *Store) Courses() []*domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Course, 0, len(s.order))
	for _, id := range s.order {
		if c, ok := s.courses[id]; ok {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Count returns the number of courses.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.courses)
}

func (s *Store) removeFromOrder(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
