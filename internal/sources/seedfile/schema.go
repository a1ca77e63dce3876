package seedfile

// LinkEntry represents a single link entry in the YAML
type LinkEntry struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// CourseEntry represents a course with its folders and links
type CourseEntry struct {
	Name    string                 `yaml:"name"`
	Folders []string               `yaml:"folders"`
	Links   map[string][]LinkEntry `yaml:"links"`
}

// SeedConfig is the root structure for the seed file
type SeedConfig struct {
	Courses []CourseEntry `yaml:"courses"`
}
