// Package invoke hands the resolved target document to the external deploy
// tool.
package invoke

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// DeployTimeout bounds one external tool invocation.
const DeployTimeout = 10 * time.Minute

// Invoker runs the external deploy tool with the target document on stdin.
type Invoker struct {
	// Command is the tool argv; Command[0] is the binary.
	Command []string

	// Log receives per-run progress. Nil disables logging.
	Log *slog.Logger
}

// New creates an Invoker for the given tool command line.
func New(command []string, log *slog.Logger) *Invoker {
	return &Invoker{Command: command, Log: log}
}

// Run pipes the document to the tool and returns its stdout. The tool's
// stderr is captured into the returned error on failure.
func (i *Invoker) Run(ctx context.Context, document []byte) ([]byte, error) {
	if len(i.Command) == 0 {
		return nil, fmt.Errorf("no deploy tool configured")
	}

	runID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, DeployTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, i.Command[0], i.Command[1:]...)
	cmd.Stdin = bytes.NewReader(document)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if i.Log != nil {
		i.Log.Info("invoking deploy tool", "run", runID, "tool", i.Command[0])
	}

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", i.Command[0], err, stderr.String())
	}

	if i.Log != nil {
		i.Log.Info("deploy tool finished", "run", runID, "tool", i.Command[0], "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return stdout.Bytes(), nil
}
