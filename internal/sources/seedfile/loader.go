package seedfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the starter-content seed file
type Loader struct {
	filePath string
}

// NewLoader creates a new seed file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed yaml file
func (l *Loader) Load() (SeedConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return SeedConfig{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return SeedConfig{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return config, nil
}
