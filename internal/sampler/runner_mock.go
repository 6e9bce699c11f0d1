package sampler

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// MockProcessRunner is a mock implementation of ProcessRunner for testing.
// It is safe for concurrent use.
type MockProcessRunner struct {
	// RunFunc allows tests to provide custom behavior.
	RunFunc func(ctx context.Context, path string, args []string) (Result, error)

	// Delay simulates slow process execution.
	Delay time.Duration

	// ShouldTimeout if true, will block until context is cancelled.
	ShouldTimeout bool

	mu    sync.Mutex
	calls [][]string
	path  string
}

// Run executes the mock behavior.
func (m *MockProcessRunner) Run(ctx context.Context, path string, args []string) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, slices.Clone(args))
	m.path = path
	m.mu.Unlock()

	if m.ShouldTimeout {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args)
	}

	return Result{}, nil
}

// CallCount returns how many times Run was called.
func (m *MockProcessRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastPath returns the last path passed to Run.
func (m *MockProcessRunner) LastPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// LastArgs returns the args of the most recent call, or nil.
func (m *MockProcessRunner) LastArgs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// NewMockProcessRunner creates a new mock process runner.
func NewMockProcessRunner() *MockProcessRunner {
	return &MockProcessRunner{}
}

// NewTimeoutMockProcessRunner creates a mock that simulates a hung process.
func NewTimeoutMockProcessRunner() *MockProcessRunner {
	return &MockProcessRunner{ShouldTimeout: true}
}

// NewSpawnErrorMockProcessRunner creates a mock whose process never starts.
func NewSpawnErrorMockProcessRunner(errMsg string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(ctx context.Context, path string, args []string) (Result, error) {
			return Result{}, errors.New(errMsg)
		},
	}
}

// NewExitMockProcessRunner creates a mock that exits with code and stderr.
func NewExitMockProcessRunner(code int, stderr string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(ctx context.Context, path string, args []string) (Result, error) {
			return Result{Stderr: []byte(stderr), ExitCode: code}, nil
		},
	}
}

// NewOutputMockProcessRunner creates a mock that succeeds with the given output.
func NewOutputMockProcessRunner(stdout, stderr string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(ctx context.Context, path string, args []string) (Result, error) {
			return Result{Stdout: []byte(stdout), Stderr: []byte(stderr)}, nil
		},
	}
}
