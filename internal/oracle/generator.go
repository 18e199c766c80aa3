// Package oracle invokes the external text generator that structures chunk text.
//
// A Generator is one backend (a local process or an OpenAI-compatible endpoint). Client wraps
// a Generator with the invocation contract used by the pipeline: a fixed timeout, no retries,
// failures logged and reported as an absent answer, and a pacing delay after every call.
package oracle

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks github.com/dgallion1/docoutline/internal/oracle Generator

import (
	"context"
	"fmt"
)

// Generator produces raw text for a prompt.
type Generator interface {
	// Generate returns the generator's output for prompt. It must stop when ctx is done.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Kind classifies why an invocation produced no answer.
type Kind string

const (
	KindStart    Kind = "start"    // The process could not be started or the endpoint reached.
	KindFailed   Kind = "failed"   // Non-zero exit status or an error reply.
	KindTimeout  Kind = "timeout"  // The invocation timeout elapsed.
	KindCanceled Kind = "canceled" // The run itself was canceled.
)

// InvocationError describes a failed oracle invocation.
type InvocationError struct {
	Kind     Kind
	ExitCode int    // Process exit status, when the process ran
	Stderr   string // Trimmed standard error, when the process ran
	Err      error
}

func (e *InvocationError) Error() string {
	switch {
	case e.Kind == KindFailed && e.Stderr != "":
		return fmt.Sprintf("oracle %s (exit %d): %s", e.Kind, e.ExitCode, truncate(e.Stderr, 200))
	case e.Err != nil:
		return fmt.Sprintf("oracle %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("oracle %s", e.Kind)
	}
}

func (e *InvocationError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
