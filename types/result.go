package types

import (
	"fmt"
	"time"
)

// Subject describes a registered test target: one program whose behavior
// is validated against reference transcripts.
type Subject struct {
	ID          string
	File        string // path to the program source artifact
	Description string
	Flags       []string // declared feature flags, e.g. "random", "interactive"
}

// HasFlag reports whether the subject declares the given feature flag.
func (s Subject) HasFlag(flag string) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ScenarioResult captures the outcome of executing one scenario against
// one subject's candidate process.
type ScenarioResult struct {
	Subject    string
	Scenario   string
	Verdict    Verdict
	RawOutput  string // combined output exactly as captured
	Normalized string // output after normalization
	Diff       string // unified diff, present only on FAIL
	Duration   time.Duration
	Err        error // launch error or oracle failure, present on ERROR
}

// SubjectResult aggregates all scenario results for a single subject run.
type SubjectResult struct {
	ID        string
	Scenarios []*ScenarioResult
	Stats     RunStats
	Duration  time.Duration
}

// Verdict derives the subject-level verdict: FAIL when any scenario
// failed, PASS when at least one passed with no failures, SKIP when
// every scenario was skipped.
func (sr *SubjectResult) Verdict() Verdict {
	if sr.Stats.Failures() > 0 {
		return VerdictFail
	}
	if sr.Stats.Passed > 0 {
		return VerdictPass
	}
	return VerdictSkip
}

// RunStats tracks verdict counts at the subject and run level.
type RunStats struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Errored  int
	TimedOut int
}

// Record counts a single scenario verdict.
func (st *RunStats) Record(v Verdict) {
	st.Total++
	switch v {
	case VerdictPass:
		st.Passed++
	case VerdictFail:
		st.Failed++
	case VerdictSkip:
		st.Skipped++
	case VerdictError:
		st.Errored++
	case VerdictTimeout:
		st.TimedOut++
	}
}

// Add merges the counts of another RunStats into this one.
func (st *RunStats) Add(other RunStats) {
	st.Total += other.Total
	st.Passed += other.Passed
	st.Failed += other.Failed
	st.Skipped += other.Skipped
	st.Errored += other.Errored
	st.TimedOut += other.TimedOut
}

// Failures returns the number of scenarios that count against the subject.
func (st RunStats) Failures() int {
	return st.Failed + st.Errored + st.TimedOut
}

// RunResult captures a complete harness run across subjects.
type RunResult struct {
	RunID    string
	Subjects []*SubjectResult
	Stats    RunStats
	Duration time.Duration
}

// Status derives the run-level verdict from the aggregate stats.
func (r *RunResult) Status() Verdict {
	if r.Stats.Failures() > 0 {
		return VerdictFail
	}
	if r.Stats.Passed > 0 {
		return VerdictPass
	}
	return VerdictSkip
}

// String returns a one-line human-readable summary of the run.
func (r *RunResult) String() string {
	return fmt.Sprintf("run %s: %d scenarios, %d passed, %d failed, %d skipped, %d errored, %d timed out (%.1fs)",
		r.RunID, r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Stats.Skipped,
		r.Stats.Errored, r.Stats.TimedOut, r.Duration.Seconds())
}
