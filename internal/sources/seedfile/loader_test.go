package seedfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "seed.yaml")

	yamlContent := `---
courses:
  - name: Math 101
    folders:
      - Homework
      - Notes
    links:
      Homework:
        - title: Problem Set 1
          url: https://example.com/ps1
  - name: History
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config.Courses) != 2 {
		t.Fatalf("Load() returned %d courses, want 2", len(config.Courses))
	}
	if config.Courses[0].Name != "Math 101" {
		t.Errorf("first course name = %q, want Math 101", config.Courses[0].Name)
	}
	if len(config.Courses[0].Links["Homework"]) != 1 {
		t.Errorf("expected 1 link under Homework, got %d", len(config.Courses[0].Links["Homework"]))
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := loader.Load(); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestMapperMapCourses(t *testing.T) {
	config := SeedConfig{
		Courses: []CourseEntry{
			{
				Name:    "Math 101",
				Folders: []string{"Homework", "homework", ""},
				Links: map[string][]LinkEntry{
					"Homework": {
						{Title: "Problem Set 1", URL: "https://example.com/ps1"},
						{Title: "Problem Set 1", URL: "https://example.com/other"},
						{Title: "", URL: "https://example.com/blank"},
					},
					"Exams": {
						{Title: "Midterm", URL: "https://example.com/midterm"},
					},
				},
			},
			{Name: "Math 101"},
			{Name: ""},
		},
	}

	courses, err := NewMapper().MapCourses(config)
	if err != nil {
		t.Fatalf("MapCourses() error = %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("MapCourses() returned %d courses, want 1", len(courses))
	}

	course := courses[0]
	if course.Name != "Math 101" {
		t.Errorf("course name = %q, want Math 101", course.Name)
	}
	if course.FolderIndex("Exams") < 0 {
		t.Error("folder implied by its links should be created")
	}
	if got := len(course.Links["Homework"]); got != 1 {
		t.Errorf("expected 1 link under Homework after dedup, got %d", got)
	}
	if course.LinkConflict("Homework", domain.Link{Title: "Problem Set 1", URL: "x"}) != true {
		t.Error("expected title conflict for Problem Set 1")
	}
}

func TestMapperMapCoursesEmpty(t *testing.T) {
	if _, err := NewMapper().MapCourses(SeedConfig{}); err == nil {
		t.Error("MapCourses() should fail when the seed has no courses")
	}
}
