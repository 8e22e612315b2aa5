package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseScenario parses a scenario from YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	// Validate required fields
	if sc.ID == "" {
		return nil, &LoadError{
			Message: "scenario ID is required",
		}
	}

	if len(sc.Steps) == 0 {
		return nil, &LoadError{
			Message: "scenario must have at least one step",
		}
	}

	for i, step := range sc.Steps {
		if step.Action == "" {
			return nil, &LoadError{
				Message: fmt.Sprintf("step %d has no action", i+1),
			}
		}
	}

	if sc.Capacity < 0 {
		return nil, &LoadError{
			Message: "capacity must not be negative",
		}
	}

	return &sc, nil
}

// LoadScenario loads a scenario from a file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	sc, err := ParseScenario(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return sc, nil
}

// LoadDirectory loads all scenarios from a directory.
// Only files with .yaml or .yml extensions are loaded.
func LoadDirectory(dir string) ([]*Scenario, error) {
	var scenarios []*Scenario

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{
			File:    dir,
			Message: "failed to read directory",
			Cause:   err,
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}

		scenarios = append(scenarios, sc)
	}

	return scenarios, nil
}

// LoadDirectoryRecursive loads all scenarios from a directory and subdirectories.
func LoadDirectoryRecursive(dir string) ([]*Scenario, error) {
	var scenarios []*Scenario

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		sc, err := LoadScenario(path)
		if err != nil {
			return err
		}

		scenarios = append(scenarios, sc)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return scenarios, nil
}

// FilterByTag returns scenarios carrying the given tag.
func FilterByTag(scenarios []*Scenario, tag string) []*Scenario {
	var result []*Scenario
	for _, sc := range scenarios {
		for _, t := range sc.Tags {
			if t == tag {
				result = append(result, sc)
				break
			}
		}
	}
	return result
}
