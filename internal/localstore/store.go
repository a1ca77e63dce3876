package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

// Store persists the whole hierarchy to a single JSON file, the
// fallback used when no remote store is configured. The file holds
// exactly three top-level entries: "courses" (array of names),
// "folders" (course name -> folder names) and "links" (course name ->
// folder name -> links). The format round-trips exactly.
//
// The file is rewritten on every mutation and read once at startup.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store writing to path.
func New(path string) *Store {
	return &Store{path: path}
}

// snapshot is the persisted wire format.
type snapshot struct {
	Courses []string                            `json:"courses"`
	Folders map[string][]string                 `json:"folders"`
	Links   map[string]map[string][]domain.Link `json:"links"`
}

// Save serializes the given tree, replacing the file atomically.
func (s *Store) Save(courses []*domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Courses: make([]string, 0, len(courses)),
		Folders: make(map[string][]string, len(courses)),
		Links:   make(map[string]map[string][]domain.Link, len(courses)),
	}
	for _, c := range courses {
		snap.Courses = append(snap.Courses, c.Name)
		snap.Folders[c.Name] = c.Folders
		snap.Links[c.Name] = c.Links
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the file back into a course tree. A missing file yields an
// empty tree. The snapshot format carries no ids, so loaded courses get
// fresh permanent ids (stable for the process lifetime).
func (s *Store) Load() ([]*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*domain.Course{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	courses := make([]*domain.Course, 0, len(snap.Courses))
	for _, name := range snap.Courses {
		c := domain.NewCourse(uuid.NewString(), name)
		if folders, ok := snap.Folders[name]; ok && folders != nil {
			c.Folders = folders
		}
		if links, ok := snap.Links[name]; ok && links != nil {
			c.Links = links
		}
		// Repair orphaned entries: every folder has a link list and
		// every link-map key appears in the folder sequence.
		for _, f := range c.Folders {
			if _, ok := c.Links[f]; !ok {
				c.Links[f] = []domain.Link{}
			}
		}
		for f := range c.Links {
			if c.FolderIndex(f) < 0 {
				c.Folders = append(c.Folders, f)
			}
		}
		courses = append(courses, c)
	}
	return courses, nil
}
