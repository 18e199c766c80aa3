package oracle

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/metrics"
)

const (
	DefaultTimeout = 180 * time.Second
	DefaultPacing  = time.Second
)

// Options configures a Client.
type Options struct {
	Timeout time.Duration // Per-invocation limit; zero means DefaultTimeout
	Pacing  time.Duration // Delay after every invocation; negative disables it
	Stats   *Stats
	Metrics *metrics.Metrics
}

// Client invokes a Generator once per prompt under a fixed timeout.
// Failures are logged and reported as an absent answer; there are no retries.
type Client struct {
	gen     Generator
	timeout time.Duration
	pacing  time.Duration
	stats   *Stats
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewClient(gen Generator, opts Options, log *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Pacing == 0 {
		opts.Pacing = DefaultPacing
	}
	if opts.Pacing < 0 {
		opts.Pacing = 0
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		gen:     gen,
		timeout: opts.Timeout,
		pacing:  opts.Pacing,
		stats:   opts.Stats,
		metrics: opts.Metrics,
		log:     log,
	}
}

// Stats returns the rolling invocation stats, or nil when none were configured.
func (c *Client) Stats() *Stats { return c.stats }

// Invoke sends prompt to the generator and returns its trimmed output.
// ok is false when the generator failed, timed out, or could not be started.
func (c *Client) Invoke(ctx context.Context, prompt string) (text string, ok bool) {
	start := time.Now()
	text, err := c.generate(ctx, prompt)
	elapsed := time.Since(start)

	outcome := OutcomeAnswered
	if err != nil {
		outcome = outcomeOf(err)
		c.logFailure(err, elapsed)
	}
	if c.stats != nil {
		c.stats.Record(outcome, elapsed)
	}
	c.metrics.ObserveOracle(string(outcome), elapsed)

	c.pace(ctx)
	return text, err == nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.gen.Generate(callCtx, prompt)
	if err == nil {
		return strings.TrimSpace(out), nil
	}
	var ie *InvocationError
	if errors.As(err, &ie) {
		return "", ie
	}
	// Backends that do not classify their errors still get a timeout label when the deadline hit.
	if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return "", &InvocationError{Kind: KindTimeout, Err: err}
	}
	if ctx.Err() != nil {
		return "", &InvocationError{Kind: KindCanceled, Err: err}
	}
	return "", &InvocationError{Kind: KindFailed, Err: err}
}

func (c *Client) logFailure(err error, elapsed time.Duration) {
	attrs := []any{"error", err, "elapsed", elapsed.Round(time.Millisecond)}
	var ie *InvocationError
	if errors.As(err, &ie) {
		attrs = append(attrs, "kind", ie.Kind)
		if ie.Kind == KindFailed && ie.ExitCode != 0 {
			attrs = append(attrs, "exit_code", ie.ExitCode)
		}
		if ie.Kind == KindTimeout {
			attrs = append(attrs, "timeout", c.timeout)
		}
	}
	c.log.Warn("oracle invocation failed", attrs...)
}

// pace sleeps for the pacing delay unless ctx ends first.
func (c *Client) pace(ctx context.Context) {
	if c.pacing <= 0 {
		return
	}
	t := time.NewTimer(c.pacing)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func outcomeOf(err error) Outcome {
	var ie *InvocationError
	if !errors.As(err, &ie) {
		return OutcomeFailed
	}
	switch ie.Kind {
	case KindTimeout:
		return OutcomeTimeout
	case KindStart:
		return OutcomeStart
	case KindCanceled:
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}
