package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the bulk-import format for subject registrations.
type Manifest struct {
	Subjects []ManifestSubject `yaml:"subjects"`
}

// ManifestSubject declares one subject in a manifest.
type ManifestSubject struct {
	ID          string   `yaml:"id"`
	File        string   `yaml:"file"`
	Description string   `yaml:"description,omitempty"`
	Notes       string   `yaml:"notes,omitempty"`
	Flags       []string `yaml:"flags,omitempty"`
}

// ImportManifest registers every subject declared in a YAML manifest.
// Existing entries are updated in place but keep their current status and
// scenario count; import never resets test state.
func (r *Registry) ImportManifest(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return 0, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	imported := 0
	for _, sub := range manifest.Subjects {
		if sub.ID == "" || sub.File == "" {
			return imported, fmt.Errorf("manifest %s: subject entries require id and file", path)
		}

		if existing, ok := r.doc.Games[sub.ID]; ok {
			existing.File = sub.File
			existing.Description = sub.Description
			existing.Notes = sub.Notes
			existing.Flags = sub.Flags
		} else {
			r.doc.Games[sub.ID] = &Entry{
				File:        sub.File,
				Status:      StatusPending,
				Description: sub.Description,
				Notes:       sub.Notes,
				Flags:       sub.Flags,
			}
		}
		imported++
	}

	r.log.Info("Manifest imported", "path", path, "subjects", imported)
	return imported, nil
}
