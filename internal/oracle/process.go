package oracle

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Process runs an external command per prompt, writing the prompt to its stdin and
// reading the answer from stdout, e.g. `ollama run mistral`.
type Process struct {
	Command string
	Args    []string

	// WaitDelay bounds how long to wait for output pipes after the process is killed.
	WaitDelay time.Duration
}

// NewProcess creates a Process backend for command with fixed arguments.
func NewProcess(command string, args ...string) *Process {
	return &Process{
		Command:   command,
		Args:      args,
		WaitDelay: 5 * time.Second,
	}
}

// Generate runs the command once. Cancellation or deadline on ctx kills the process.
func (p *Process) Generate(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = p.WaitDelay

	if err := cmd.Start(); err != nil {
		return "", &InvocationError{Kind: KindStart, Err: err}
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", contextError(ctxErr)
		}
		ie := &InvocationError{Kind: KindFailed, ExitCode: -1, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ie.ExitCode = exitErr.ExitCode()
		}
		return "", ie
	}
	return strings.TrimSpace(stdout.String()), nil
}

func contextError(err error) *InvocationError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &InvocationError{Kind: KindTimeout, Err: err}
	}
	return &InvocationError{Kind: KindCanceled, Err: err}
}
