// Package acceptor orchestrates golden-master compatibility runs: it
// executes subject programs scenario by scenario, normalizes and compares
// their transcripts against the configured baseline, persists artifacts,
// and applies the registry status transitions.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mbasic-dev/compat-acceptor/diffs"
	"github.com/mbasic-dev/compat-acceptor/golden"
	"github.com/mbasic-dev/compat-acceptor/logging"
	"github.com/mbasic-dev/compat-acceptor/metrics"
	"github.com/mbasic-dev/compat-acceptor/normalize"
	"github.com/mbasic-dev/compat-acceptor/registry"
	"github.com/mbasic-dev/compat-acceptor/reporting"
	"github.com/mbasic-dev/compat-acceptor/runner"
	"github.com/mbasic-dev/compat-acceptor/scenarios"
	"github.com/mbasic-dev/compat-acceptor/types"
)

// Acceptor composes the execution engine, the normalization pipeline, the
// baseline source, and the registry.
type Acceptor struct {
	cfg      *Config
	registry *registry.Registry
	exec     *runner.Executor
	store    *golden.FileStore
	source   golden.Source
	norm     *normalize.Normalizer
	engine   *diffs.Engine
	html     *reporting.HTMLSink
}

// New creates an Acceptor from the given config.
func New(cfg *Config) (*Acceptor, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	cfg.Log.Debug("Creating acceptor",
		"baseDir", cfg.BaseDir,
		"subjectBin", cfg.SubjectBin,
		"oracle", len(cfg.OracleCmd) > 0,
		"timeout", cfg.Timeout)

	reg, err := registry.Load(cfg.RegistryPath, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	exec := runner.NewExecutor(cfg.Log)
	norm := normalize.Default()
	store := golden.NewFileStore(cfg.GoldenDir)

	// The stored golden files and a live oracle are interchangeable
	// baselines behind the same interface.
	var source golden.Source
	if len(cfg.OracleCmd) > 0 {
		source = golden.NewOracleSource(exec, cfg.OracleCmd, cfg.OracleTimeout, norm)
	} else {
		source = golden.NewStoreSource(store, norm)
	}

	html, err := reporting.NewHTMLSink()
	if err != nil {
		return nil, fmt.Errorf("failed to create report sink: %w", err)
	}

	return &Acceptor{
		cfg:      cfg,
		registry: reg,
		exec:     exec,
		store:    store,
		source:   source,
		norm:     norm,
		engine:   diffs.NewEngine(norm),
		html:     html,
	}, nil
}

// Registry exposes the subject registry for listing and status views.
func (a *Acceptor) Registry() *registry.Registry {
	return a.registry
}

// RunAll runs every registered subject that has scenarios.
func (a *Acceptor) RunAll(ctx context.Context) (*types.RunResult, error) {
	return a.run(ctx, a.registry.SubjectIDs())
}

// RunSubject runs a single subject's scenarios.
func (a *Acceptor) RunSubject(ctx context.Context, id string) (*types.RunResult, error) {
	if _, ok := a.registry.Get(id); !ok {
		return nil, NewRuntimeError(fmt.Errorf("subject %q not found in registry", id))
	}
	return a.run(ctx, []string{id})
}

// run executes the given subjects, persists artifacts, updates the
// registry once per subject, and saves the registry once at the end.
// Per-scenario problems become verdicts; only registry persistence
// failures are fatal.
func (a *Acceptor) run(ctx context.Context, ids []string) (*types.RunResult, error) {
	runID := uuid.New().String()
	start := time.Now()

	fileLogger, err := logging.NewFileLogger(a.cfg.ResultsDir, runID, a.cfg.Log)
	if err != nil {
		return nil, NewRuntimeError(err)
	}

	a.cfg.Log.Info("Starting compatibility run", "run_id", runID, "subjects", len(ids))

	result := &types.RunResult{RunID: runID}
	for _, id := range ids {
		scens, err := scenarios.List(a.cfg.ScenariosDir, id)
		if err != nil {
			return nil, NewRuntimeError(err)
		}
		if len(scens) == 0 {
			a.cfg.Log.Warn("No scenarios found for subject, skipping", "subject", id)
			continue
		}

		subRes, err := a.runSubject(ctx, id, scens, runID, fileLogger)
		if err != nil {
			return nil, NewRuntimeError(err)
		}
		result.Subjects = append(result.Subjects, subRes)
		result.Stats.Add(subRes.Stats)
	}
	result.Duration = time.Since(start)

	if err := fileLogger.WriteSummary(result); err != nil {
		a.cfg.Log.Error("Failed to write run summary", "err", err)
	}
	if err := a.html.Write(fileLogger.RunDir(), result); err != nil {
		a.cfg.Log.Error("Failed to write HTML report", "err", err)
	}

	metrics.RecordRun(runID, result.Status(), result.Stats, result.Duration)

	// Consistent bookkeeping is a correctness requirement; an unwritable
	// registry fails the whole invocation.
	if err := a.registry.Save(); err != nil {
		return nil, NewRuntimeError(err)
	}

	a.cfg.Log.Info("Compatibility run completed",
		"run_id", runID,
		"status", result.Status(),
		"artifacts", fileLogger.RunDir())
	return result, nil
}

// runSubject executes all scenarios of one subject and applies the
// registry transition for the full run.
func (a *Acceptor) runSubject(ctx context.Context, id string, scens []scenarios.Scenario, runID string, fileLogger *logging.FileLogger) (*types.SubjectResult, error) {
	subject, ok := a.registry.Subject(id)
	if !ok {
		return nil, fmt.Errorf("subject %q not found in registry", id)
	}

	a.cfg.Log.Info("Testing subject", "subject", id, "file", subject.File, "scenarios", len(scens))

	start := time.Now()
	subRes := &types.SubjectResult{ID: id}
	for _, sc := range scens {
		res := a.runScenario(ctx, subject, sc)
		subRes.Scenarios = append(subRes.Scenarios, res)
		subRes.Stats.Record(res.Verdict)

		if err := fileLogger.SaveScenario(res); err != nil {
			a.cfg.Log.Error("Failed to persist scenario artifacts", "subject", id, "scenario", sc.Name, "err", err)
		}
		metrics.RecordScenario(runID, id, res.Verdict)

		a.cfg.Log.Info("Scenario finished",
			"subject", id,
			"scenario", sc.Name,
			"verdict", res.Verdict,
			"duration", res.Duration)
	}
	subRes.Duration = time.Since(start)

	if err := a.registry.ApplyRun(id, subRes.Stats); err != nil {
		return nil, err
	}

	return subRes, nil
}

// runScenario produces the verdict for one (subject, scenario) pair.
// The baseline is resolved first: without one the scenario is SKIP and
// the subject process never runs.
func (a *Acceptor) runScenario(ctx context.Context, subject types.Subject, sc scenarios.Scenario) *types.ScenarioResult {
	res := &types.ScenarioResult{Subject: subject.ID, Scenario: sc.Name}

	input, err := sc.Input()
	if err != nil {
		res.Verdict = types.VerdictError
		res.Err = err
		return res
	}

	programFile := a.cfg.ProgramPath(subject.File)

	expected, err := a.source.Expected(ctx, golden.Request{
		SubjectID:   subject.ID,
		ProgramFile: programFile,
		Scenario:    sc.Name,
		Input:       input,
	})
	if errors.Is(err, golden.ErrNotFound) {
		a.cfg.Log.Debug("No golden record, skipping", "subject", subject.ID, "scenario", sc.Name)
		res.Verdict = types.VerdictSkip
		return res
	}
	if err != nil {
		res.Verdict = types.VerdictError
		res.Err = err
		return res
	}

	execRes, err := a.exec.Execute(ctx, runner.ExecRequest{
		Path:    a.cfg.SubjectBin,
		Args:    []string{programFile},
		Input:   input,
		Timeout: a.cfg.Timeout,
	})
	if err != nil {
		res.Verdict = types.VerdictError
		res.Err = err
		return res
	}

	res.RawOutput = execRes.Combined()
	res.Normalized = a.norm.Normalize(res.RawOutput)
	res.Duration = execRes.Duration

	if execRes.TimedOut {
		// Partial output stays on the result for diagnostic value.
		res.Verdict = types.VerdictTimeout
		return res
	}

	label := fmt.Sprintf("%s/%s", subject.ID, sc.Name)
	cmp, err := a.engine.Compare(expected, res.RawOutput, label)
	if err != nil {
		res.Verdict = types.VerdictError
		res.Err = err
		return res
	}

	if cmp.Equal {
		res.Verdict = types.VerdictPass
	} else {
		res.Verdict = types.VerdictFail
		res.Diff = cmp.Diff
	}
	return res
}

// Generate produces golden records for every scenario of a subject. This
// is the only operation that writes to the golden store; test runs never
// create or overwrite records. The transcripts come from the oracle when
// one is configured, otherwise from the subject itself.
func (a *Acceptor) Generate(ctx context.Context, id string) error {
	subject, ok := a.registry.Subject(id)
	if !ok {
		return NewRuntimeError(fmt.Errorf("subject %q not found in registry", id))
	}

	scens, err := scenarios.List(a.cfg.ScenariosDir, id)
	if err != nil {
		return NewRuntimeError(err)
	}
	if len(scens) == 0 {
		return NewRuntimeError(fmt.Errorf("no scenarios found for subject %q", id))
	}

	a.cfg.Log.Info("Generating golden records", "subject", id, "scenarios", len(scens), "oracle", len(a.cfg.OracleCmd) > 0)

	for _, sc := range scens {
		input, err := sc.Input()
		if err != nil {
			return NewRuntimeError(err)
		}

		text, err := a.generateTranscript(ctx, subject, sc.Name, input)
		if err != nil {
			// A scenario the generator cannot complete is reported and
			// skipped; the remaining scenarios still get records.
			a.cfg.Log.Warn("Golden generation failed for scenario", "subject", id, "scenario", sc.Name, "err", err)
			continue
		}

		if err := a.store.Save(id, sc.Name, text); err != nil {
			return NewRuntimeError(err)
		}
		a.cfg.Log.Info("Golden record written", "subject", id, "scenario", sc.Name)
	}

	return nil
}

func (a *Acceptor) generateTranscript(ctx context.Context, subject types.Subject, scenario, input string) (string, error) {
	programFile := a.cfg.ProgramPath(subject.File)

	if len(a.cfg.OracleCmd) > 0 {
		return a.source.Expected(ctx, golden.Request{
			SubjectID:   subject.ID,
			ProgramFile: programFile,
			Scenario:    scenario,
			Input:       input,
		})
	}

	execRes, err := a.exec.Execute(ctx, runner.ExecRequest{
		Path:    a.cfg.SubjectBin,
		Args:    []string{programFile},
		Input:   input,
		Timeout: a.cfg.Timeout,
	})
	if err != nil {
		return "", err
	}
	if execRes.TimedOut {
		return "", fmt.Errorf("subject timed out after %s", a.cfg.Timeout)
	}

	return a.norm.Normalize(execRes.Combined()), nil
}

// Clean removes run artifacts; with all set it also removes the stored
// golden records.
func (a *Acceptor) Clean(all bool) error {
	if err := os.RemoveAll(a.cfg.ResultsDir); err != nil {
		return NewRuntimeError(fmt.Errorf("removing results directory: %w", err))
	}
	a.cfg.Log.Info("Removed run artifacts", "dir", a.cfg.ResultsDir)

	if all {
		if err := os.RemoveAll(a.cfg.GoldenDir); err != nil {
			return NewRuntimeError(fmt.Errorf("removing golden directory: %w", err))
		}
		a.cfg.Log.Info("Removed golden records", "dir", a.cfg.GoldenDir)
	}
	return nil
}

// RunPeriodic reruns all subjects at the configured interval until the
// context is canceled. Each completed run is handed to report.
func (a *Acceptor) RunPeriodic(ctx context.Context, report func(*types.RunResult)) error {
	for {
		result, err := a.RunAll(ctx)
		if err != nil {
			return err
		}
		if report != nil {
			report(result)
		}

		select {
		case <-ctx.Done():
			a.cfg.Log.Info("Context canceled, stopping periodic runs")
			return nil
		case <-time.After(a.cfg.RunInterval):
		}
	}
}
