// Package scenarios discovers the scripted input files for a subject.
// A scenario is one reproducible terminal session: an ordered sequence of
// input lines delivered verbatim to the subject's stdin.
package scenarios

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// InputSuffix is the file extension for scenario input files.
const InputSuffix = ".input"

// Scenario identifies one scripted input file, scoped to a subject.
type Scenario struct {
	Name string // file stem, unique within the subject
	Path string
}

// Input reads the scripted stdin text.
func (s Scenario) Input() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("reading scenario input %s: %w", s.Path, err)
	}
	return string(data), nil
}

// List returns the scenarios for a subject, sorted by name. Scenarios
// live under <dir>/<subject, lowercased>/*.input. A subject with no
// scenario directory simply has no scenarios; that is not an error.
func List(dir, subjectID string) ([]Scenario, error) {
	subjectDir := filepath.Join(dir, strings.ToLower(subjectID))

	entries, err := os.ReadDir(subjectDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", subjectDir, err)
	}

	var result []Scenario
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), InputSuffix) {
			continue
		}
		result = append(result, Scenario{
			Name: strings.TrimSuffix(entry.Name(), InputSuffix),
			Path: filepath.Join(subjectDir, entry.Name()),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
