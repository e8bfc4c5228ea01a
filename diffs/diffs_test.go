package diffs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbasic-dev/compat-acceptor/normalize"
)

func TestCompareEqual(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
		actual   string
	}{
		{
			name:     "identical transcripts",
			expected: "SUM = 5\n",
			actual:   "SUM = 5\n",
		},
		{
			name:     "differ only in banner",
			expected: "SUM = 5\n",
			actual:   "MICROSOFT BASIC\n[8K VERSION]\nOK\nSUM = 5\n",
		},
		{
			name:     "differ only in escape sequences",
			expected: "SUM = 5\n",
			actual:   "\x1b[2J\x1b[1mSUM = 5\x1b[0m\x07\r\n",
		},
		{
			name:     "differ only in trailing whitespace",
			expected: "SUM = 5",
			actual:   "SUM = 5   \n\n",
		},
	}

	engine := NewEngine(nil)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := engine.Compare(tc.expected, tc.actual, "adder/run1")
			require.NoError(t, err)
			assert.True(t, res.Equal)
			assert.Empty(t, res.Diff)
		})
	}
}

func TestCompareUnequal(t *testing.T) {
	engine := NewEngine(nil)

	res, err := engine.Compare("SUM = 5\n", "SUM = 6\n", "adder/run1")
	require.NoError(t, err)
	assert.False(t, res.Equal)

	assert.Contains(t, res.Diff, "-SUM = 5")
	assert.Contains(t, res.Diff, "+SUM = 6")
	assert.Contains(t, res.Diff, "adder/run1.golden")
	assert.Contains(t, res.Diff, "adder/run1.actual")
}

// Leading whitespace is significant for BASIC column output and must
// show up in the diff.
func TestCompareLeadingWhitespaceSignificant(t *testing.T) {
	engine := NewEngine(nil)

	res, err := engine.Compare(" 5\n", "5\n", "align/run1")
	require.NoError(t, err)
	assert.False(t, res.Equal)
	assert.Contains(t, res.Diff, "- 5")
	assert.Contains(t, res.Diff, "+5")
}

func TestCompareMultilineContext(t *testing.T) {
	engine := NewEngine(nil)

	expected := strings.Join([]string{"A", "B", "C", "D", "E", "F", "G", "H"}, "\n")
	actual := strings.Join([]string{"A", "B", "C", "D", "X", "F", "G", "H"}, "\n")

	res, err := engine.Compare(expected, actual, "hunt/long")
	require.NoError(t, err)
	assert.False(t, res.Equal)
	assert.Contains(t, res.Diff, "-E")
	assert.Contains(t, res.Diff, "+X")
	// Unchanged context lines around the hunk are present.
	assert.Contains(t, res.Diff, " D")
	assert.Contains(t, res.Diff, " F")
}

func TestCompareCustomNormalizer(t *testing.T) {
	norm := normalize.New(normalize.Prompt("READY"))
	engine := NewEngine(norm)

	res, err := engine.Compare("HELLO\n", "READY\nHELLO\n", "greet/run1")
	require.NoError(t, err)
	assert.True(t, res.Equal)
}
