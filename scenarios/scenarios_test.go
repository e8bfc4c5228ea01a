package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, subject, name, input string) {
	t.Helper()
	subjectDir := filepath.Join(dir, subject)
	require.NoError(t, os.MkdirAll(subjectDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(subjectDir, name), []byte(input), 0o644))
}

func TestListSorted(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "adder", "run2.input", "3\n4\n")
	writeScenario(t, dir, "adder", "run1.input", "1\n2\n")
	writeScenario(t, dir, "adder", "run10.input", "5\n6\n")

	scens, err := List(dir, "adder")
	require.NoError(t, err)
	require.Len(t, scens, 3)

	names := []string{scens[0].Name, scens[1].Name, scens[2].Name}
	assert.Equal(t, []string{"run1", "run10", "run2"}, names)
}

func TestListIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "adder", "run1.input", "1\n")
	writeScenario(t, dir, "adder", "notes.txt", "ignore me")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "adder", "nested.input"), 0o755))

	scens, err := List(dir, "adder")
	require.NoError(t, err)
	require.Len(t, scens, 1)
	assert.Equal(t, "run1", scens[0].Name)
}

func TestListMissingDirectory(t *testing.T) {
	scens, err := List(t.TempDir(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, scens)
}

func TestListSubjectIDCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "hunt", "opening.input", "N\n")

	scens, err := List(dir, "HUNT")
	require.NoError(t, err)
	require.Len(t, scens, 1)
	assert.Equal(t, "opening", scens[0].Name)
}

func TestScenarioInput(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "adder", "run1.input", "2\n3\n")

	scens, err := List(dir, "adder")
	require.NoError(t, err)
	require.Len(t, scens, 1)

	input, err := scens[0].Input()
	require.NoError(t, err)
	assert.Equal(t, "2\n3\n", input)
}

func TestScenarioInputMissingFile(t *testing.T) {
	s := Scenario{Name: "ghost", Path: filepath.Join(t.TempDir(), "ghost.input")}
	_, err := s.Input()
	assert.Error(t, err)
}
