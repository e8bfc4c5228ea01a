// Package runner executes subject processes with scripted input, a
// wall-clock deadline, and guaranteed termination of the whole process
// tree on timeout.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

const (
	// DefaultTimeout bounds a subject run when no override is given.
	DefaultTimeout = 30 * time.Second
	// DefaultGrace bounds the cleanup window after the kill signal.
	DefaultGrace = 2 * time.Second
)

// ExecRequest describes one subject process invocation.
type ExecRequest struct {
	Path    string        // executable path
	Args    []string      // arguments, typically the program file to run
	Input   string        // scripted stdin, delivered verbatim then closed
	Timeout time.Duration // wall-clock deadline; DefaultTimeout when zero
}

// ExecResult is the captured outcome of a subject process invocation.
// A launch failure is reported through the error return of Execute, not
// here; everything else, including timeouts, produces a result.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Combined returns the captured output: stdout bytes followed by stderr
// bytes. Interleaving across the two streams is not preserved.
func (r ExecResult) Combined() string {
	return r.Stdout + r.Stderr
}

// Executor runs subject processes. Each child is placed in its own
// process group so that a timeout kills helper processes the subject
// spawned, not just the immediate child.
type Executor struct {
	log   log.Logger
	grace time.Duration
}

// NewExecutor creates an Executor.
func NewExecutor(logger log.Logger) *Executor {
	if logger == nil {
		logger = log.New()
		logger.Error("No logger provided, using default")
	}
	return &Executor{log: logger, grace: DefaultGrace}
}

// Execute runs the subject to completion or deadline. The scripted input
// is written to stdin and the pipe closed; stdout and stderr are drained
// concurrently by the exec machinery, so a subject that produces output
// before consuming all input cannot deadlock the harness.
//
// On timeout the entire process group receives an unconditional kill
// signal, the child is reaped, and whatever output was captured before
// the kill is returned with TimedOut set. Context cancellation is routed
// through the same kill path.
//
// A non-nil error is returned only for launch failures (missing
// executable, permission denied); the caller maps those to an ERROR
// verdict rather than aborting the run.
func (e *Executor) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cmd := exec.Command(req.Path, req.Args...)
	cmd.Stdin = strings.NewReader(req.Input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Bound the pipe drain after the process has been killed, in case a
	// surviving grandchild holds the write end open.
	cmd.WaitDelay = e.grace

	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return ExecResult{}, fmt.Errorf("launching %s: %w", req.Path, err)
	}

	e.log.Debug("Subject process started", "path", req.Path, "pid", cmd.Process.Pid, "timeout", timeout)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	timedOut := false

	select {
	case waitErr = <-done:
	case <-timer.C:
		timedOut = true
		e.log.Warn("Subject exceeded deadline, killing process group", "path", req.Path, "pid", cmd.Process.Pid)
		e.killAndReap(cmd, done)
	case <-ctx.Done():
		timedOut = true
		e.log.Debug("Context canceled, killing process group", "path", req.Path, "pid", cmd.Process.Pid)
		e.killAndReap(cmd, done)
	}

	result := ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		TimedOut: timedOut,
		Duration: time.Since(start),
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	}

	e.log.Debug("Subject process finished",
		"path", req.Path,
		"timedOut", result.TimedOut,
		"exitCode", result.ExitCode,
		"duration", result.Duration)

	return result, nil
}

// killAndReap sends the kill signal to the whole process group and waits
// for the child to be reaped, escalating once if the first kill did not
// take effect within the grace window.
func (e *Executor) killAndReap(cmd *exec.Cmd, done chan error) {
	if err := killProcessGroup(cmd); err != nil {
		e.log.Debug("Failed to kill process group", "err", err)
	}

	select {
	case <-done:
	case <-time.After(e.grace):
		// The group kill can miss if the child escaped its group; fall
		// back to killing the direct child before reaping.
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
	}
}
