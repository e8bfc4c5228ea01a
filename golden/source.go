package golden

import (
	"context"
	"fmt"
	"time"

	"github.com/mbasic-dev/compat-acceptor/normalize"
	"github.com/mbasic-dev/compat-acceptor/runner"
)

// Request identifies the transcript a baseline source should produce.
type Request struct {
	SubjectID   string
	ProgramFile string // program artifact, needed by the oracle path
	Scenario    string
	Input       string // scripted stdin, needed by the oracle path
}

// Source yields the expected transcript for a scenario. The stored-golden
// and live-oracle baselines implement the same interface so the
// orchestrator has a single comparison path.
type Source interface {
	// Expected returns the normalized expected transcript, or ErrNotFound
	// when no baseline exists for the request.
	Expected(ctx context.Context, req Request) (string, error)
}

// StoreSource serves expected transcripts from a golden Store.
type StoreSource struct {
	store Store
	norm  *normalize.Normalizer
}

// NewStoreSource wraps a Store as a baseline Source.
func NewStoreSource(store Store, norm *normalize.Normalizer) *StoreSource {
	if norm == nil {
		norm = normalize.Default()
	}
	return &StoreSource{store: store, norm: norm}
}

// Expected loads the stored golden record. Stored records were normalized
// at generation time, but normalization is idempotent, so hand-edited
// records are canonicalized here as well.
func (s *StoreSource) Expected(_ context.Context, req Request) (string, error) {
	text, err := s.store.Load(req.SubjectID, req.Scenario)
	if err != nil {
		return "", err
	}
	return s.norm.Normalize(text), nil
}

// OracleSource produces expected transcripts by running a second,
// authoritative interpreter with the same scripted input and passing its
// output through the same normalization pipeline as the subject's.
type OracleSource struct {
	exec    *runner.Executor
	command []string // oracle argv; the program file is appended
	timeout time.Duration
	norm    *normalize.Normalizer
}

// NewOracleSource creates an oracle baseline. The oracle is typically
// slower than the subject (an emulator), so it gets its own timeout.
func NewOracleSource(exec *runner.Executor, command []string, timeout time.Duration, norm *normalize.Normalizer) *OracleSource {
	if norm == nil {
		norm = normalize.Default()
	}
	return &OracleSource{exec: exec, command: command, timeout: timeout, norm: norm}
}

// Expected runs the oracle process for the request's program and input.
func (o *OracleSource) Expected(ctx context.Context, req Request) (string, error) {
	if len(o.command) == 0 {
		return "", fmt.Errorf("oracle for %s/%s: no oracle command configured", req.SubjectID, req.Scenario)
	}

	args := append(append([]string{}, o.command[1:]...), req.ProgramFile)
	res, err := o.exec.Execute(ctx, runner.ExecRequest{
		Path:    o.command[0],
		Args:    args,
		Input:   req.Input,
		Timeout: o.timeout,
	})
	if err != nil {
		return "", fmt.Errorf("oracle for %s/%s: %w", req.SubjectID, req.Scenario, err)
	}
	if res.TimedOut {
		return "", fmt.Errorf("oracle for %s/%s timed out after %s", req.SubjectID, req.Scenario, o.timeout)
	}

	return o.norm.Normalize(res.Combined()), nil
}
