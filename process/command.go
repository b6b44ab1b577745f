package process

import (
	"io"
	"os/exec"
	"time"
)

const defaultGracePeriod = 5 * time.Second

// Command is a subprocess to execute.
type Command struct {
	// Binary is a path or a name resolved through PATH.
	Binary string
	Args   []string
	// Stdin is optional input.
	Stdin io.Reader
	// GracePeriod is the wait between SIGTERM and SIGKILL on cancellation.
	GracePeriod time.Duration
}

// Available reports whether binary can be found.
func Available(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}
