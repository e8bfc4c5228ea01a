// Package golden stores and retrieves accepted-correct transcripts, and
// abstracts over the two interchangeable comparison baselines: stored
// golden files and a live oracle interpreter.
package golden

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSuffix is the extension for stored golden transcripts.
const FileSuffix = ".golden"

// ErrNotFound reports that no golden record exists for a (subject,
// scenario) pair. Callers treat this as SKIP, never as FAIL.
var ErrNotFound = errors.New("golden record not found")

// Store persists golden records keyed by (subject, scenario). A record,
// once saved, is the sole source of truth for expected output; only an
// explicit generate operation writes here, never a test run.
type Store interface {
	Load(subjectID, scenario string) (string, error)
	Save(subjectID, scenario, text string) error
}

// FileStore keeps golden records as plain text files under
// <dir>/<subject, lowercased>/<scenario>.golden.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(subjectID, scenario string) string {
	return filepath.Join(s.dir, strings.ToLower(subjectID), scenario+FileSuffix)
}

// Load returns the stored transcript, or ErrNotFound.
func (s *FileStore) Load(subjectID, scenario string) (string, error) {
	data, err := os.ReadFile(s.path(subjectID, scenario))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s/%s: %w", subjectID, scenario, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading golden record %s/%s: %w", subjectID, scenario, err)
	}
	return string(data), nil
}

// Save writes the transcript, creating the subject directory as needed.
func (s *FileStore) Save(subjectID, scenario, text string) error {
	dir := filepath.Join(s.dir, strings.ToLower(subjectID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating golden directory %s: %w", dir, err)
	}
	path := s.path(subjectID, scenario)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing golden record %s: %w", path, err)
	}
	return nil
}
