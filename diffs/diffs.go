// Package diffs defines transcript equality and produces the unified
// line-diffs persisted for failing scenarios.
package diffs

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mbasic-dev/compat-acceptor/normalize"
)

// Result is the outcome of comparing an expected transcript against an
// actual one.
type Result struct {
	Equal bool
	Diff  string // unified diff, empty when Equal
}

// Engine compares transcripts after normalization. Both inputs are always
// passed through the normalizer; normalization is idempotent, so inputs
// that were already normalized compare identically.
type Engine struct {
	norm *normalize.Normalizer
}

// NewEngine creates an Engine using the given normalizer.
func NewEngine(norm *normalize.Normalizer) *Engine {
	if norm == nil {
		norm = normalize.Default()
	}
	return &Engine{norm: norm}
}

// Compare checks expected against actual. Equality is equality of the
// normalized forms. On inequality the diff is labeled with the given
// subject/scenario identifier for operator readability: expected lines
// carry '-', actual lines carry '+'.
func (e *Engine) Compare(expected, actual, label string) (Result, error) {
	expNorm := e.norm.Normalize(expected)
	actNorm := e.norm.Normalize(actual)

	if expNorm == actNorm {
		return Result{Equal: true}, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expNorm),
		B:        difflib.SplitLines(actNorm),
		FromFile: fmt.Sprintf("%s.golden", label),
		ToFile:   fmt.Sprintf("%s.actual", label),
		Context:  3,
	})
	if err != nil {
		return Result{}, fmt.Errorf("generating diff for %s: %w", label, err)
	}

	return Result{Equal: false, Diff: diff}, nil
}
