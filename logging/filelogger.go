// Package logging persists run artifacts for operator inspection: raw and
// normalized scenario output, diffs for failing scenarios, and a run
// summary. Artifacts are diagnostic only; the golden store remains the
// sole authoritative state.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"

	"github.com/mbasic-dev/compat-acceptor/types"
)

const (
	// RunDirectoryPrefix is the standardized prefix for per-run
	// artifact directories.
	RunDirectoryPrefix = "testrun-"

	rawSuffix        = ".output"
	normalizedSuffix = ".normalized"
	diffSuffix       = ".diff"
	summaryFilename  = "summary.log"
)

// FileLogger writes artifacts beneath <baseDir>/testrun-<runID>/<subject>/.
type FileLogger struct {
	baseDir string
	runDir  string
	runID   string
	log     log.Logger
	mu      sync.Mutex
}

// NewFileLogger creates the per-run artifact directory.
func NewFileLogger(baseDir, runID string, logger log.Logger) (*FileLogger, error) {
	if logger == nil {
		logger = log.New()
		logger.Error("No logger provided, using default")
	}

	runDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory %s: %w", runDir, err)
	}

	return &FileLogger{
		baseDir: baseDir,
		runDir:  runDir,
		runID:   runID,
		log:     logger,
	}, nil
}

// RunDir returns the directory holding this run's artifacts.
func (l *FileLogger) RunDir() string {
	return l.runDir
}

// SaveScenario persists the artifacts of one scenario result: the raw
// capture (scrubbed of ANSI sequences so artifacts stay greppable), the
// normalized transcript, and the diff when the scenario failed.
func (l *FileLogger) SaveScenario(res *types.ScenarioResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Join(l.runDir, strings.ToLower(res.Subject))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory %s: %w", dir, err)
	}

	if res.RawOutput != "" {
		raw := stripansi.Strip(res.RawOutput)
		if err := writeFile(filepath.Join(dir, res.Scenario+rawSuffix), raw); err != nil {
			return err
		}
	}
	if res.Normalized != "" {
		if err := writeFile(filepath.Join(dir, res.Scenario+normalizedSuffix), res.Normalized); err != nil {
			return err
		}
	}
	if res.Diff != "" {
		path := filepath.Join(dir, res.Scenario+diffSuffix)
		if err := writeFile(path, res.Diff); err != nil {
			return err
		}
		l.log.Info("Diff saved", "subject", res.Subject, "scenario", res.Scenario, "path", path)
	}

	return nil
}

// WriteSummary persists the final per-subject and aggregate tally.
func (l *FileLogger) WriteSummary(result *types.RunResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", result.String())

	for _, sub := range result.Subjects {
		fmt.Fprintf(&b, "%s: %s\n", sub.ID, strings.ToUpper(string(sub.Verdict())))
		for _, sc := range sub.Scenarios {
			fmt.Fprintf(&b, "  %s: %s", sc.Scenario, strings.ToUpper(string(sc.Verdict)))
			if sc.Err != nil {
				fmt.Fprintf(&b, " (%v)", sc.Err)
			}
			b.WriteByte('\n')
		}
	}

	return writeFile(filepath.Join(l.runDir, summaryFilename), b.String())
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return nil
}
