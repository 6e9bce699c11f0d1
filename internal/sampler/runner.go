package sampler

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

const waitDelay = 2 * time.Second

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ProcessRunner defines an interface for running external processes.
// This abstraction allows the samplers to be tested without a decoder installed.
type ProcessRunner interface {
	// Run executes path with args and waits for it to exit. A non-zero exit is
	// reported through Result.ExitCode, not err; err is reserved for processes
	// that could not be started or were stopped by ctx.
	Run(ctx context.Context, path string, args []string) (Result, error)
}

// ExecRunner implements ProcessRunner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new process runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a real external process.
func (r *ExecRunner) Run(ctx context.Context, path string, args []string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 - decoder path comes from configuration
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Stop waiting on output pipes held open by orphaned children once the process is killed.
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	// A killed process surfaces as an ExitError; report the context's reason instead.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	exitErr := &exec.ExitError{}
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, err
}
