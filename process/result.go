package process

import (
	"bytes"
	"fmt"
	"time"
)

// Result is the captured outcome of a finished subprocess.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int // -1 when killed
	Duration time.Duration
}

// StderrTail returns the last n lines of stderr, trimmed. Tools like ffmpeg
// print the actual failure at the end of a long log.
func (r *Result) StderrTail(n int) string {
	lines := bytes.Split(bytes.TrimSpace(r.Stderr), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}

// ExitError is returned for a process that exited non-zero.
type ExitError struct {
	Binary string
	Result *Result
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("process: %s exited with code %d", e.Binary, e.Result.ExitCode)
	if tail := e.Result.StderrTail(3); tail != "" {
		msg += ": " + tail
	}
	return msg
}
