package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictIsFailure(t *testing.T) {
	assert.False(t, VerdictPass.IsFailure())
	assert.False(t, VerdictSkip.IsFailure())
	assert.True(t, VerdictFail.IsFailure())
	assert.True(t, VerdictError.IsFailure())
	assert.True(t, VerdictTimeout.IsFailure())
}

func TestVerdictIsValid(t *testing.T) {
	for _, v := range []Verdict{VerdictPass, VerdictFail, VerdictSkip, VerdictError, VerdictTimeout} {
		assert.True(t, v.IsValid(), "verdict %q", v)
	}
	assert.False(t, Verdict("bogus").IsValid())
	assert.False(t, Verdict("").IsValid())
}

func TestRunStatsRecord(t *testing.T) {
	var st RunStats
	st.Record(VerdictPass)
	st.Record(VerdictPass)
	st.Record(VerdictFail)
	st.Record(VerdictSkip)
	st.Record(VerdictError)
	st.Record(VerdictTimeout)

	assert.Equal(t, RunStats{Total: 6, Passed: 2, Failed: 1, Skipped: 1, Errored: 1, TimedOut: 1}, st)
	assert.Equal(t, 3, st.Failures())
}

func TestRunStatsAdd(t *testing.T) {
	a := RunStats{Total: 2, Passed: 2}
	b := RunStats{Total: 3, Passed: 1, Failed: 1, TimedOut: 1}
	a.Add(b)

	assert.Equal(t, RunStats{Total: 5, Passed: 3, Failed: 1, TimedOut: 1}, a)
	assert.Equal(t, 2, a.Failures())
}

func TestSubjectVerdict(t *testing.T) {
	testCases := []struct {
		name     string
		stats    RunStats
		expected Verdict
	}{
		{"all pass", RunStats{Total: 2, Passed: 2}, VerdictPass},
		{"pass with skips", RunStats{Total: 3, Passed: 1, Skipped: 2}, VerdictPass},
		{"any failure", RunStats{Total: 3, Passed: 2, Failed: 1}, VerdictFail},
		{"timeout is failure", RunStats{Total: 2, Passed: 1, TimedOut: 1}, VerdictFail},
		{"error is failure", RunStats{Total: 2, Passed: 1, Errored: 1}, VerdictFail},
		{"all skip", RunStats{Total: 2, Skipped: 2}, VerdictSkip},
		{"empty", RunStats{}, VerdictSkip},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sr := &SubjectResult{Stats: tc.stats}
			assert.Equal(t, tc.expected, sr.Verdict())
		})
	}
}

func TestRunResultStatusAndString(t *testing.T) {
	r := &RunResult{RunID: "abc", Stats: RunStats{Total: 3, Passed: 2, Failed: 1}}
	assert.Equal(t, VerdictFail, r.Status())
	assert.Contains(t, r.String(), "run abc")
	assert.Contains(t, r.String(), "3 scenarios")
	assert.Contains(t, r.String(), "2 passed")
	assert.Contains(t, r.String(), "1 failed")
}

func TestSubjectHasFlag(t *testing.T) {
	s := Subject{ID: "hunt", Flags: []string{"random", "interactive"}}
	assert.True(t, s.HasFlag("random"))
	assert.False(t, s.HasFlag("sound"))
	assert.False(t, Subject{}.HasFlag("random"))
}
