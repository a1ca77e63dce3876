package seedfile

import (
	"fmt"
	"strings"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

// Mapper converts a seed config to domain courses
type Mapper struct{}

// NewMapper creates a new seed mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapCourses converts SeedConfig to domain.Course templates. The
// returned courses carry no ids; callers assign one per user when the
// seed is applied.
func (m *Mapper) MapCourses(config SeedConfig) ([]*domain.Course, error) {
	courses := make([]*domain.Course, 0, len(config.Courses))
	seen := make(map[string]bool)

	for _, entry := range config.Courses {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		course := domain.NewCourse("", name)
		for _, folder := range entry.Folders {
			folder = strings.TrimSpace(folder)
			if folder == "" || course.FolderIndex(folder) >= 0 {
				continue
			}
			course.Folders = append(course.Folders, folder)
			course.Links[folder] = []domain.Link{}
		}

		for folderName, links := range entry.Links {
			stored, ok := course.Folder(folderName)
			if !ok {
				// Links under an undeclared folder bring the folder with them.
				stored = strings.TrimSpace(folderName)
				if stored == "" {
					continue
				}
				course.Folders = append(course.Folders, stored)
				course.Links[stored] = []domain.Link{}
			}
			for _, link := range links {
				if link.Title == "" || link.URL == "" {
					continue
				}
				candidate := domain.Link{Title: link.Title, URL: link.URL}
				if course.LinkConflict(stored, candidate) {
					continue
				}
				course.Links[stored] = append(course.Links[stored], candidate)
			}
		}

		courses = append(courses, course)
	}

	if len(courses) == 0 {
		return nil, fmt.Errorf("no valid courses found in seed config")
	}

	return courses, nil
}
