package probe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
)

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ReadFile reads a whole file; os.ReadFile in production, a map in tests.
type ReadFile func(path string) ([]byte, error)

// ExecRunner runs commands with exec.CommandContext so the child is killed
// when ctx ends.
type ExecRunner struct {
	// WaitDelay bounds how long Run waits for I/O after the process is killed.
	WaitDelay time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = time.Second
	}

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	if ctx.Err() != nil {
		return nil, domain.NewProbeError(domain.ErrProbeTimeout, err, "%s did not finish in time", name)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, domain.NewProbeError(domain.ErrUnsupportedPlatform, err, "%s not available", name)
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return nil, domain.NewProbeError(domain.ErrUnsupportedPlatform, err, "%s failed: %s", name, msg)
}

func osReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewProbeError(domain.ErrUnsupportedPlatform, err, "read %s: %v", path, err)
	}
	return b, nil
}
