package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsBanner(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "full interpreter banner",
			input: "MICROSOFT BASIC VERSION 4.0\n" +
				"[8K VERSION]\n" +
				"COPYRIGHT 1976 BY MITS INC.\n" +
				"3072 BYTES FREE\n" +
				"OK\n" +
				"HELLO WORLD\n",
			expected: "HELLO WORLD",
		},
		{
			name:     "altair version line",
			input:    "Altair 8k Basic Version 4.0\nREADY\n",
			expected: "READY",
		},
		{
			name:     "blank lines before content",
			input:    "\n\n\nOK\n\nSUM = 5\n",
			expected: "SUM = 5",
		},
		{
			name:     "banner text after content is kept",
			input:    "SCORE TABLE\nOK\nBYTES FREE\n",
			expected: "SCORE TABLE\nOK\nBYTES FREE",
		},
		{
			name:     "no banner at all",
			input:    "LINE ONE\nLINE TWO\n",
			expected: "LINE ONE\nLINE TWO",
		},
		{
			name:     "empty transcript",
			input:    "",
			expected: "",
		},
		{
			name:     "banner only transcript",
			input:    "MICROSOFT BASIC\nOK\n\n",
			expected: "",
		},
	}

	n := Default()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, n.Normalize(tc.input))
		})
	}
}

func TestNormalizeControlSequences(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bell characters removed",
			input:    "DING\x07DONG\x07\n",
			expected: "DINGDONG",
		},
		{
			name:     "CSI color sequences removed",
			input:    "\x1b[32mGREEN\x1b[0m TEXT\n",
			expected: "GREEN TEXT",
		},
		{
			name:     "two-character escape removed",
			input:    "\x1bMREVERSE INDEX\n",
			expected: "REVERSE INDEX",
		},
		{
			name:     "multi-parameter CSI removed",
			input:    "\x1b[1;32mBOLD GREEN\x1b[0m\n",
			expected: "BOLD GREEN",
		},
		{
			name:     "cursor movement removed",
			input:    "A\x1b[2JB\x1b[10;20HC\n",
			expected: "ABC",
		},
		{
			name:     "carriage returns removed",
			input:    "LINE ONE\r\nLINE TWO\r\n",
			expected: "LINE ONE\nLINE TWO",
		},
	}

	n := Default()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, n.Normalize(tc.input))
		})
	}
}

// Inserting escape sequences anywhere in a transcript must not change
// its normalized form.
func TestNormalizeControlSequenceInvariance(t *testing.T) {
	plain := "OK\nTHE RESULT IS 42\n   ALIGNED COLUMN\n"
	decorated := "\x1b[2JOK\n\x1b[1mTHE RESULT IS\x1b[0m 42\x07\n   ALIGNED COLUMN\r\n"

	n := Default()
	assert.Equal(t, n.Normalize(plain), n.Normalize(decorated))
}

func TestNormalizeWhitespacePolicy(t *testing.T) {
	n := Default()

	t.Run("trailing whitespace removed", func(t *testing.T) {
		assert.Equal(t, "X", n.Normalize("X   \n"))
		assert.Equal(t, "X", n.Normalize("X\t\t\n"))
	})

	t.Run("leading whitespace preserved", func(t *testing.T) {
		assert.Equal(t, "   X", n.Normalize("   X\n"))
	})

	t.Run("interior blank lines preserved", func(t *testing.T) {
		assert.Equal(t, "A\n\nB", n.Normalize("A\n\nB\n"))
	})

	t.Run("leading and trailing blank lines trimmed", func(t *testing.T) {
		assert.Equal(t, "A\nB", n.Normalize("A\nB\n\n\n"))
	})
}

func TestNormalizeIdempotent(t *testing.T) {
	transcripts := []string{
		"",
		"MICROSOFT BASIC\nOK\nHELLO\n",
		"\x1b[32mCOLORED\x1b[0m\r\n\x07\nTRAILING   \n\n",
		"   LEADING KEPT\nPLAIN\n",
		"OK\n",
		"A\n\n\nB\n",
	}

	n := Default()
	for _, tr := range transcripts {
		once := n.Normalize(tr)
		assert.Equal(t, once, n.Normalize(once), "normalize must be idempotent for %q", tr)
	}
}

// Two transcripts that differ only in their preamble must normalize to
// the same result.
func TestNormalizeBannerAgnostic(t *testing.T) {
	fromSubject := "MICROSOFT BASIC VERSION 4.0\n[8K VERSION]\nOK\nSUM = 5\n"
	fromOracle := "ALTAIR BASIC VERSION 3.2\n4096 BYTES FREE\n\nOK\nSUM = 5\n"

	n := Default()
	require.Equal(t, n.Normalize(fromSubject), n.Normalize(fromOracle))
	assert.Equal(t, "SUM = 5", n.Normalize(fromSubject))
}

func TestCustomMarkers(t *testing.T) {
	n := New(Contains("MY INTERPRETER"), Prompt("READY"))

	got := n.Normalize("MY INTERPRETER V1\nREADY\nOUTPUT\n")
	assert.Equal(t, "OUTPUT", got)

	// Default markers do not apply to a custom normalizer.
	got = n.Normalize("BYTES FREE\nOUTPUT\n")
	assert.Equal(t, "BYTES FREE\nOUTPUT", got)
}

func TestMatchers(t *testing.T) {
	assert.True(t, Contains("copyright")("COPYRIGHT 1976"))
	assert.False(t, Contains("COPYRIGHT")("COPY RIGHT"))
	assert.True(t, ContainsAll("ALTAIR", "VERSION")("altair basic version 4.0"))
	assert.False(t, ContainsAll("ALTAIR", "VERSION")("ALTAIR BASIC"))
	assert.True(t, Prompt("OK")("  OK  "))
	assert.False(t, Prompt("OK")("OKAY"))
}
