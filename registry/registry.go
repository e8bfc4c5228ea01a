// Package registry tracks the per-subject test status and derived
// aggregate statistics in a human-editable JSON file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mbasic-dev/compat-acceptor/types"
)

// Status is the registry state of a subject.
type Status string

const (
	// StatusPending marks a subject that has not completed a full run
	// with at least one comparable scenario.
	StatusPending Status = "pending"
	// StatusTested marks a subject whose most recent full run had zero
	// failures and at least one pass.
	StatusTested Status = "tested"
	// StatusFailed marks a subject whose most recent full run had at
	// least one failure.
	StatusFailed Status = "failed"
)

// IsValid reports whether the status is one of the known values.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusTested || s == StatusFailed
}

// Entry is the per-subject registry record.
type Entry struct {
	File           string   `json:"file"`
	Status         Status   `json:"status"`
	ScenariosCount int      `json:"scenarios_count"`
	Description    string   `json:"description,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Flags          []string `json:"flags,omitempty"`
}

// Statistics are derived counts by status. They are recomputed from the
// full subject set on every save, never incrementally patched, so they
// cannot drift from the per-subject records.
type Statistics struct {
	Total   int `json:"total"`
	Tested  int `json:"tested"`
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

// Metadata carries bookkeeping fields of the registry file.
type Metadata struct {
	LastUpdated string `json:"last_updated"`
}

// document is the on-disk schema.
type document struct {
	Metadata   Metadata          `json:"metadata"`
	Games      map[string]*Entry `json:"games"`
	Statistics Statistics        `json:"test_statistics"`
}

// Registry is the mapping from subject identifier to Entry. All access
// goes through the mutex; persistence is a single load-modify-save cycle
// per invocation.
type Registry struct {
	path string
	log  log.Logger
	now  func() time.Time

	mu  sync.RWMutex
	doc document
}

// Load reads the registry file, creating an empty registry when the file
// does not exist yet.
func Load(path string, logger log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.New()
		logger.Error("No logger provided, using default")
	}

	r := &Registry{
		path: path,
		log:  logger,
		now:  time.Now,
		doc:  document{Games: make(map[string]*Entry)},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug("Registry file not found, starting empty", "path", path)
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &r.doc); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	if r.doc.Games == nil {
		r.doc.Games = make(map[string]*Entry)
	}
	for id, entry := range r.doc.Games {
		if !entry.Status.IsValid() {
			logger.Warn("Registry entry has unknown status, resetting to pending", "subject", id, "status", entry.Status)
			entry.Status = StatusPending
		}
	}

	logger.Debug("Registry loaded", "path", path, "subjects", len(r.doc.Games))
	return r, nil
}

// Save recomputes the derived statistics and the last-updated stamp, then
// writes the file atomically. A persistence failure here is the only
// error the harness treats as fatal to a whole invocation.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.doc.Statistics = r.computeStatistics()
	r.doc.Metadata.LastUpdated = r.now().Format("2006-01-02")

	data, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	data = append(data, '\n')

	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing registry %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replacing registry %s: %w", r.path, err)
	}

	r.log.Debug("Registry saved", "path", r.path, "subjects", len(r.doc.Games))
	return nil
}

// computeStatistics derives the aggregate counts. Caller holds the lock.
func (r *Registry) computeStatistics() Statistics {
	stats := Statistics{Total: len(r.doc.Games)}
	for _, entry := range r.doc.Games {
		switch entry.Status {
		case StatusTested:
			stats.Tested++
		case StatusFailed:
			stats.Failed++
		default:
			stats.Pending++
		}
	}
	return stats
}

// Statistics returns the current derived counts.
func (r *Registry) Statistics() Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.computeStatistics()
}

// LastUpdated returns the stamp recorded at the most recent save.
func (r *Registry) LastUpdated() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Metadata.LastUpdated
}

// Get returns the entry for a subject.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.doc.Games[id]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Subject returns the subject metadata for a registered id.
func (r *Registry) Subject(id string) (types.Subject, bool) {
	entry, ok := r.Get(id)
	if !ok {
		return types.Subject{}, false
	}
	return types.Subject{
		ID:          id,
		File:        entry.File,
		Description: entry.Description,
		Flags:       entry.Flags,
	}, true
}

// SubjectIDs returns all registered subject identifiers, sorted.
func (r *Registry) SubjectIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.doc.Games))
	for id := range r.doc.Games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Entries returns a copy of all registry entries keyed by subject id.
func (r *Registry) Entries() map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Entry, len(r.doc.Games))
	for id, entry := range r.doc.Games {
		out[id] = *entry
	}
	return out
}

// Register adds or replaces a subject entry. New entries start pending
// unless the given entry carries a valid status.
func (r *Registry) Register(id string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !entry.Status.IsValid() {
		entry.Status = StatusPending
	}
	r.doc.Games[id] = &entry
}

// Remove deletes a subject entry. Used only by explicit cleanup.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.doc.Games, id)
}

// Reset manually returns a subject to pending. This is the only
// transition out of tested/failed that does not come from a run.
func (r *Registry) Reset(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.doc.Games[id]
	if !ok {
		return fmt.Errorf("subject %q not found in registry", id)
	}
	entry.Status = StatusPending
	return nil
}

// ApplyRun applies the status transition after a full run of a subject's
// scenarios: any failure marks the subject failed; otherwise at least one
// pass marks it tested; an all-skip run keeps the prior status.
func (r *Registry) ApplyRun(id string, stats types.RunStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.doc.Games[id]
	if !ok {
		return fmt.Errorf("subject %q not found in registry", id)
	}

	entry.ScenariosCount = stats.Total
	switch {
	case stats.Failures() > 0:
		entry.Status = StatusFailed
	case stats.Passed > 0:
		entry.Status = StatusTested
	}

	r.log.Debug("Registry transition applied",
		"subject", id,
		"status", entry.Status,
		"scenarios", stats.Total,
		"failures", stats.Failures())
	return nil
}
