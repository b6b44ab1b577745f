package process_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/speechkit/process"
)

func TestRun(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"hello", "world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "hello world" {
		t.Fatalf("expected 'hello world', got %q", out)
	}
}

func TestRunStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("pcm"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Stdout) != "pcm" {
		t.Fatalf("got %q", result.Stdout)
	}
}

func TestRunExitError(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo line1 >&2; echo line2 >&2; echo 'Invalid data found' >&2; exit 3"},
	})
	var exitErr *process.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want *ExitError", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d", result.ExitCode)
	}
	if !strings.HasSuffix(err.Error(), "Invalid data found") {
		t.Errorf("err = %q", err.Error())
	}
	if got := result.StderrTail(1); got != "Invalid data found" {
		t.Errorf("StderrTail(1) = %q", got)
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{Binary: "speechkit-no-such-tool"})
	var exitErr *process.ExitError
	if err == nil || errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want start error", err)
	}
	if process.Available("speechkit-no-such-tool") {
		t.Error("missing tool reported available")
	}
	if !process.Available("sh") {
		t.Error("sh should be available")
	}
}

func TestRunEmptyBinary(t *testing.T) {
	if _, err := process.Run(context.Background(), process.Command{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 100 * time.Millisecond,
	})
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("process was not terminated promptly")
	}
}
