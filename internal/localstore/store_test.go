package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "linkorg.json"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)

	math := domain.NewCourse("a", "Math")
	math.Folders = []string{"HW1", "Notes"}
	math.Links["HW1"] = []domain.Link{{Title: "Lecture 1", URL: "http://x"}}
	math.Links["Notes"] = []domain.Link{}
	physics := domain.NewCourse("b", "Physics")

	if err := store.Save([]*domain.Course{math, physics}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d courses, want 2", len(loaded))
	}
	got := loaded[0]
	if got.Name != "Math" {
		t.Errorf("course order not preserved: %s", got.Name)
	}
	if len(got.Folders) != 2 || got.Folders[0] != "HW1" {
		t.Errorf("folders = %v, want [HW1 Notes]", got.Folders)
	}
	if len(got.Links["HW1"]) != 1 || got.Links["HW1"][0].URL != "http://x" {
		t.Errorf("links lost in round trip: %+v", got.Links)
	}
	if got.ID == "" {
		t.Error("loaded course must get an id")
	}
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkorg.json")
	store := New(path)

	c := domain.NewCourse("a", "Math")
	c.Folders = []string{"HW1"}
	c.Links["HW1"] = []domain.Link{{Title: "Lecture 1", URL: "http://x"}}
	if err := store.Save([]*domain.Course{c}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	// Exactly three top-level entries: courses, folders, links.
	for _, key := range []string{"courses", "folders", "links"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level entry %q", key)
		}
	}
	if len(raw) != 3 {
		t.Errorf("file has %d top-level entries, want 3", len(raw))
	}

	var courses []string
	if err := json.Unmarshal(raw["courses"], &courses); err != nil || len(courses) != 1 || courses[0] != "Math" {
		t.Errorf("courses entry = %s", raw["courses"])
	}
	var links map[string]map[string][]map[string]string
	if err := json.Unmarshal(raw["links"], &links); err != nil {
		t.Fatalf("links entry malformed: %v", err)
	}
	if links["Math"]["HW1"][0]["title"] != "Lecture 1" {
		t.Errorf("link fields not lowercase title/url: %s", raw["links"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := testStore(t)
	courses, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("missing file should yield empty tree, got %d", len(courses))
	}
}

func TestLoadRepairsOrphanedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkorg.json")
	// Folder "B" appears only in the link mapping, "A" only in the sequence.
	raw := `{"courses":["Math"],"folders":{"Math":["A"]},"links":{"Math":{"B":[]}}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	courses, err := New(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	c := courses[0]
	if _, ok := c.Links["A"]; !ok {
		t.Error("folder A should get a link-map entry")
	}
	if c.FolderIndex("B") < 0 {
		t.Error("folder B should join the folder sequence")
	}
}
