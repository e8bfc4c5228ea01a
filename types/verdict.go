package types

// Verdict represents the possible outcomes of a scenario run
type Verdict string

const (
	VerdictPass    Verdict = "pass"
	VerdictFail    Verdict = "fail"
	VerdictSkip    Verdict = "skip"
	VerdictError   Verdict = "error"
	VerdictTimeout Verdict = "timeout"
)

// IsFailure reports whether the verdict counts against the subject.
// TIMEOUT and ERROR are distinct verdicts for reporting, but both
// count as failures for registry transitions and exit codes.
func (v Verdict) IsFailure() bool {
	return v == VerdictFail || v == VerdictError || v == VerdictTimeout
}

// IsValid reports whether the verdict is one of the known values.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictPass, VerdictFail, VerdictSkip, VerdictError, VerdictTimeout:
		return true
	}
	return false
}
