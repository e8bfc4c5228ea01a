package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbasic-dev/compat-acceptor/types"
)

func TestNewFileLoggerCreatesRunDir(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-123", log.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "testrun-run-123"), l.RunDir())
	info, err := os.Stat(l.RunDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveScenarioArtifacts(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-1", log.New())
	require.NoError(t, err)

	res := &types.ScenarioResult{
		Subject:    "Adder",
		Scenario:   "run1",
		Verdict:    types.VerdictFail,
		RawOutput:  "\x1b[32mSUM = 6\x1b[0m\n",
		Normalized: "SUM = 6",
		Diff:       "-SUM = 5\n+SUM = 6\n",
	}
	require.NoError(t, l.SaveScenario(res))

	dir := filepath.Join(l.RunDir(), "adder")

	raw, err := os.ReadFile(filepath.Join(dir, "run1.output"))
	require.NoError(t, err)
	// ANSI sequences are scrubbed from the raw artifact.
	assert.Equal(t, "SUM = 6\n", string(raw))

	norm, err := os.ReadFile(filepath.Join(dir, "run1.normalized"))
	require.NoError(t, err)
	assert.Equal(t, "SUM = 6", string(norm))

	diff, err := os.ReadFile(filepath.Join(dir, "run1.diff"))
	require.NoError(t, err)
	assert.Contains(t, string(diff), "+SUM = 6")
}

// A skipped scenario has no output; nothing should be written for it.
func TestSaveScenarioEmptyResult(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-1", log.New())
	require.NoError(t, err)

	res := &types.ScenarioResult{Subject: "adder", Scenario: "run1", Verdict: types.VerdictSkip}
	require.NoError(t, l.SaveScenario(res))

	dir := filepath.Join(l.RunDir(), "adder")
	_, err = os.Stat(filepath.Join(dir, "run1.output"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "run1.diff"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteSummary(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-1", log.New())
	require.NoError(t, err)

	result := &types.RunResult{
		RunID: "run-1",
		Subjects: []*types.SubjectResult{
			{
				ID: "adder",
				Scenarios: []*types.ScenarioResult{
					{Subject: "adder", Scenario: "run1", Verdict: types.VerdictPass},
					{Subject: "adder", Scenario: "run2", Verdict: types.VerdictError, Err: errors.New("launch failed")},
				},
				Stats: types.RunStats{Total: 2, Passed: 1, Errored: 1},
			},
		},
		Stats: types.RunStats{Total: 2, Passed: 1, Errored: 1},
	}
	require.NoError(t, l.WriteSummary(result))

	data, err := os.ReadFile(filepath.Join(l.RunDir(), "summary.log"))
	require.NoError(t, err)
	summary := string(data)

	assert.Contains(t, summary, "adder: FAIL")
	assert.Contains(t, summary, "run1: PASS")
	assert.Contains(t, summary, "run2: ERROR (launch failed)")
	assert.Contains(t, summary, "1 passed")
}
