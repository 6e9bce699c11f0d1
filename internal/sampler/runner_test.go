package sampler

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	sh := requireShell(t)

	res, err := NewExecRunner().Run(context.Background(), sh, []string{"-c", "echo out; echo err >&2"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "out" {
		t.Errorf("Expected stdout 'out', got %q", res.Stdout)
	}
	if strings.TrimSpace(string(res.Stderr)) != "err" {
		t.Errorf("Expected stderr 'err', got %q", res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", res.ExitCode)
	}
}

func TestExecRunnerExitCode(t *testing.T) {
	sh := requireShell(t)

	res, err := NewExecRunner().Run(context.Background(), sh, []string{"-c", "echo boom >&2; exit 3"})
	if err != nil {
		t.Fatalf("Expected exit status in result, got error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", res.ExitCode)
	}
	if !strings.Contains(string(res.Stderr), "boom") {
		t.Errorf("Expected stderr to be captured, got %q", res.Stderr)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), "/nonexistent/ffmpeg", nil)
	if err == nil {
		t.Fatal("Expected error for missing binary")
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	sh := requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewExecRunner().Run(ctx, sh, []string{"-c", "exec sleep 5"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}
